package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"player-core/pkg/netease"
)

type fakeModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) HandleText(ctx context.Context, msg string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeSearcher struct {
	keywords string
	songs    []netease.RawSong
}

func (f *fakeSearcher) Search(ctx context.Context, keywords string, page, limit int) (*netease.SearchResult, error) {
	f.keywords = keywords
	return &netease.SearchResult{Songs: f.songs}, nil
}

func TestSplitIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want SongInfo
	}{
		{"周杰伦 - 晴天", SongInfo{Title: "晴天", Artist: "周杰伦", IsSong: true}},
		{"Coldplay - Viva La Vida - Live", SongInfo{Title: "Viva La Vida - Live", Artist: "Coldplay", IsSong: true}},
		{"just a title", SongInfo{Title: "just a title", IsSong: true}},
		{"  ", SongInfo{}},
	}
	for _, c := range cases {
		if got := splitIdentifier(c.in); got != c.want {
			t.Errorf("splitIdentifier(%q): expected %+v, got %+v", c.in, c.want, got)
		}
	}
}

func TestIdentify(t *testing.T) {
	t.Run("Model", func(t *testing.T) {
		model := &fakeModel{reply: "```json\n{\"is_song\": true, \"title\": \"晴天\", \"artist\": \"周杰伦\"}\n```"}
		r := New(model, nil)
		info := r.Identify(context.Background(), "【MV】周杰伦 Jay Chou【晴天 Sunny Day】")
		if info != (SongInfo{Title: "晴天", Artist: "周杰伦", IsSong: true}) {
			t.Errorf("unexpected info %+v", info)
		}
	})

	t.Run("ModelFailureFallsBack", func(t *testing.T) {
		model := &fakeModel{err: errors.New("quota")}
		r := New(model, nil)
		r.retryDelay = time.Millisecond
		info := r.Identify(context.Background(), "周杰伦 - 晴天")
		if info.Title != "晴天" || info.Artist != "周杰伦" {
			t.Errorf("unexpected info %+v", info)
		}
		if model.calls != 3 {
			t.Errorf("expected 3 attempts, got %d", model.calls)
		}
	})
}

func TestResolve(t *testing.T) {
	searcher := &fakeSearcher{songs: []netease.RawSong{
		{ID: 1, Name: "晴天 (Live)", Artists: []netease.Artist{{Name: "翻唱"}}},
		{ID: 186016, Name: "晴天", Artists: []netease.Artist{{Name: "周杰伦"}}},
	}}
	r := New(nil, searcher)

	song, err := r.Resolve(context.Background(), "周杰伦 - 晴天")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if song.ID != 186016 {
		t.Errorf("expected song 186016, got %+v", song)
	}
	if searcher.keywords != "晴天 周杰伦" {
		t.Errorf("unexpected keywords %q", searcher.keywords)
	}

	notSong := New(&fakeModel{reply: `{"is_song": false}`}, searcher)
	if _, err := notSong.Resolve(context.Background(), "Podcast #12"); !errors.Is(err, ErrNotSong) {
		t.Errorf("expected ErrNotSong, got %v", err)
	}
}

func TestMatchNoCandidate(t *testing.T) {
	searcher := &fakeSearcher{songs: []netease.RawSong{
		{ID: 7, Name: "七里香", Artists: []netease.Artist{{Name: "周杰伦"}}},
	}}
	r := New(nil, searcher)

	if _, err := r.Match(context.Background(), SongInfo{Title: "晴天", Artist: "周杰伦", IsSong: true}); err == nil {
		t.Error("expected error when no search result matches")
	}
}
