package music

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"player-core/pkg/netease"
)

// mockSource 模拟歌词来源
type mockSource struct {
	name  string
	lyric string
	err   error
	calls int
}

func (m *mockSource) FetchLyric(ctx context.Context, track Track) (string, error) {
	m.calls++
	return m.lyric, m.err
}

func (m *mockSource) Name() string {
	return m.name
}

func TestFetchLyric(t *testing.T) {
	track := Track{ID: 186016, Title: "晴天", Artist: "周杰伦"}

	t.Run("Success", func(t *testing.T) {
		source := &mockSource{name: "TestSource", lyric: "[00:10.00]Test lyrics"}

		manager := NewManager(source)
		lyric, err := manager.FetchLyric(context.Background(), track)
		if err != nil {
			t.Errorf("Expected success, got error: %v", err)
		}
		if lyric != "[00:10.00]Test lyrics" {
			t.Errorf("Expected '[00:10.00]Test lyrics', got '%s'", lyric)
		}
	})

	t.Run("FailoverSuccess", func(t *testing.T) {
		failSource := &mockSource{name: "FailSource", err: errors.New("boom")}
		emptySource := &mockSource{name: "EmptySource", lyric: "  \n"}
		successSource := &mockSource{name: "SuccessSource", lyric: "[00:10.00]Test lyrics"}

		manager := NewManager(failSource, emptySource, successSource)
		lyric, err := manager.FetchLyric(context.Background(), track)
		if err != nil {
			t.Errorf("Expected success with failover, got error: %v", err)
		}
		if lyric != "[00:10.00]Test lyrics" {
			t.Errorf("Expected '[00:10.00]Test lyrics', got '%s'", lyric)
		}
		if failSource.calls != 1 || emptySource.calls != 1 || successSource.calls != 1 {
			t.Errorf("expected each source to be tried once")
		}
	})

	t.Run("AllFail", func(t *testing.T) {
		cause := errors.New("last failure")
		manager := NewManager(&mockSource{name: "Empty"}, &mockSource{name: "Fail", err: cause})
		_, err := manager.FetchLyric(context.Background(), track)
		if !errors.Is(err, cause) {
			t.Errorf("Expected wrapped last error, got %v", err)
		}
	})

	t.Run("NoSources", func(t *testing.T) {
		if _, err := NewManager().FetchLyric(context.Background(), track); err == nil {
			t.Error("Expected error without sources")
		}
	})
}

func TestManagerName(t *testing.T) {
	manager := NewManager(&mockSource{name: "TestSource"}, &mockSource{name: "Other"})

	var _ LyricSource = manager

	if name := manager.Name(); name != "Manager[Primary: TestSource]" {
		t.Errorf("Expected 'Manager[Primary: TestSource]', got '%s'", name)
	}
	if names := manager.SourceNames(); len(names) != 2 || names[1] != "Other" {
		t.Errorf("unexpected source names %v", names)
	}
}

func TestNetEaseSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "186016" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"code":200,"lrc":{"lyric":"[00:01.00]故事的小黄花"}}`))
	}))
	defer server.Close()

	source := NewNetEaseSource(netease.NewClient(server.URL, time.Second))

	lyric, err := source.FetchLyric(context.Background(), Track{ID: 186016})
	if err != nil || lyric != "[00:01.00]故事的小黄花" {
		t.Fatalf("unexpected result %q %v", lyric, err)
	}

	if _, err := source.FetchLyric(context.Background(), Track{Title: "no id"}); err == nil {
		t.Error("expected error without song id")
	}
}

func TestGetSourceByName(t *testing.T) {
	if s, err := GetSourceByName("163"); err != nil || s != SourceNetEase {
		t.Errorf("unexpected %v %v", s, err)
	}
	if _, err := GetSourceByName("kugou"); err == nil {
		t.Error("expected error for unknown source")
	}
}
