package lrclib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient(server.URL)
	c.retryBackoff = time.Millisecond
	return c
}

func TestGetLyricsByInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("track_name") != "Yellow" || r.URL.Query().Get("artist_name") != "Coldplay" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[
			{"id":1,"trackName":"Yellow","artistName":"Someone Else","duration":266,"syncedLyrics":"[00:01.00]cover"},
			{"id":2,"trackName":"Yellow (Live)","artistName":"Coldplay","duration":300,"syncedLyrics":"[00:01.00]live"},
			{"id":3,"trackName":"Yellow","artistName":"Coldplay","duration":268,"plainLyrics":"plain","syncedLyrics":"[00:01.00]studio"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server)

	lyrics, err := client.GetLyricsByInfo(context.Background(), "Yellow", "Coldplay", 266)
	if err != nil {
		t.Fatalf("GetLyricsByInfo: %v", err)
	}
	if lyrics != "[00:01.00]studio" {
		t.Errorf("expected studio lyrics within the duration threshold, got %q", lyrics)
	}

	lyrics, err = client.GetLyricsByInfo(context.Background(), "Yellow", "Coldplay", 0)
	if err != nil {
		t.Fatalf("GetLyricsByInfo: %v", err)
	}
	if lyrics != "[00:01.00]live" {
		t.Errorf("expected first exact match without duration, got %q", lyrics)
	}
}

func TestRetry(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":1,"trackName":"Song","artistName":"Artist","plainLyrics":"just words"}]`))
	}))
	defer server.Close()

	lyrics, err := newTestClient(server).GetLyricsByInfo(context.Background(), "Song", "Artist", 0)
	if err != nil {
		t.Fatalf("GetLyricsByInfo: %v", err)
	}
	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
	if lyrics != "just words" {
		t.Errorf("expected plain lyrics fallback, got %q", lyrics)
	}
}

func TestNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).GetLyricsByInfo(context.Background(), "x", "y", 0); err == nil {
		t.Error("expected error when nothing is found")
	}
}
