package netease

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient 启动一个按路径返回固定响应的测试服务器
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second)
}

func TestEnvelope(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{"BusinessError", http.StatusOK, `{"code":301,"message":"需要登录"}`, 301, "需要登录"},
		{"BusinessErrorMsgField", http.StatusOK, `{"code":400,"msg":"bad id"}`, 400, "bad id"},
		{"BusinessErrorNoMessage", http.StatusOK, `{"code":500}`, 500, "request failed"},
		{"HTTPError", http.StatusBadGateway, `oops`, 502, "request failed: 502"},
		{"HTTPErrorWithMessage", http.StatusNotFound, `{"code":404,"message":"not found"}`, 404, "not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.ToplistDetail(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Code != tc.wantCode || apiErr.Message != tc.wantMsg {
				t.Errorf("expected %d %q, got %d %q", tc.wantCode, tc.wantMsg, apiErr.Code, apiErr.Message)
			}
			if !errors.Is(err, &APIError{Code: tc.wantCode}) {
				t.Errorf("errors.Is should match on code")
			}
		})
	}

	t.Run("InvalidJSON", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":200,`))
		})
		_, err := client.ToplistDetail(context.Background())
		if err == nil {
			t.Fatal("expected decode error")
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			t.Errorf("decode failure should not be an APIError: %v", err)
		}
	})

	t.Run("NetworkError", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, time.Second)
		if _, err := client.SearchHot(context.Background()); err == nil {
			t.Fatal("expected network error")
		}
	})
}

func TestToplistDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/toplist/detail" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":200,"list":[{"id":3778678,"name":"热歌榜","updateFrequency":"每周四更新","tracks":[{"first":"a"}]}]}`))
	})

	list, err := client.ToplistDetail(context.Background())
	if err != nil {
		t.Fatalf("ToplistDetail: %v", err)
	}
	if len(list) != 1 || list[0].ID != 3778678 || list[0].UpdateFrequency != "每周四更新" {
		t.Fatalf("unexpected toplist: %+v", list)
	}
	if _, ok := list[0].Extra["tracks"]; !ok {
		t.Errorf("unmodeled fields should be kept in Extra: %v", list[0].Extra)
	}
	if _, ok := list[0].Extra["name"]; ok {
		t.Errorf("modeled fields should not be duplicated in Extra")
	}
}

func TestPersonalizedEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200}`))
	})

	list, err := client.Personalized(context.Background())
	if err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty list, got %#v", list)
	}
}

func TestPlaylistDetail(t *testing.T) {
	t.Run("CompleteTracks", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlist/detail" || r.URL.Query().Get("id") != "19723756" {
				t.Errorf("unexpected request %s", r.URL)
			}
			w.Write([]byte(`{"code":200,"playlist":{"id":19723756,"name":"飙升榜",
				"tracks":[{"id":1,"name":"a","ar":[{"name":"x"}],"al":{"name":"A","picUrl":"http://p/1.jpg"},"dt":180000},
				          {"id":2,"name":"b","ar":[{"name":"y"},{"name":"z"}],"al":{"name":"B"},"dt":200500}],
				"trackIds":[{"id":1},{"id":2}]}}`))
		})

		playlist, err := client.PlaylistDetail(context.Background(), 19723756)
		if err != nil {
			t.Fatalf("PlaylistDetail: %v", err)
		}
		if len(playlist.Songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(playlist.Songs))
		}
		if playlist.Songs[0].Image != "https://p/1.jpg" || playlist.Songs[0].Duration != 180 {
			t.Errorf("unexpected first song: %+v", playlist.Songs[0])
		}
		if playlist.Songs[1].Singer != "y/z" || playlist.Songs[1].Duration != 200.5 {
			t.Errorf("unexpected second song: %+v", playlist.Songs[1])
		}
	})

	t.Run("FetchesMissingTracks", func(t *testing.T) {
		var requestedIDs string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/playlist/detail":
				ids := make([]string, 600)
				for i := range ids {
					ids[i] = fmt.Sprintf(`{"id":%d}`, i+1)
				}
				fmt.Fprintf(w, `{"code":200,"playlist":{"id":1,"tracks":[{"id":1,"name":"a"}],"trackIds":[%s]}}`, strings.Join(ids, ","))
			case "/song/detail":
				requestedIDs = r.URL.Query().Get("ids")
				w.Write([]byte(`{"code":200,"songs":[{"id":1,"name":"a","artists":[{"name":"x"}],"album":{"name":"A"},"duration":1000},{"id":0,"name":"bad"}]}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		playlist, err := client.PlaylistDetail(context.Background(), 1)
		if err != nil {
			t.Fatalf("PlaylistDetail: %v", err)
		}
		if n := len(strings.Split(requestedIDs, ",")); n != maxPlaylistTracks {
			t.Errorf("expected %d requested ids, got %d", maxPlaylistTracks, n)
		}
		if !strings.HasPrefix(requestedIDs, "1,2,3,") {
			t.Errorf("unexpected ids param: %.20s", requestedIDs)
		}
		if len(playlist.Songs) != 1 || playlist.Songs[0].Singer != "x" || playlist.Songs[0].Album != "A" {
			t.Errorf("unexpected songs: %+v", playlist.Songs)
		}
	})

	t.Run("MissingTrackIDs", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":200,"playlist":{"id":1,"name":"x"}}`))
		})

		_, err := client.PlaylistDetail(context.Background(), 1)
		if !errors.Is(err, ErrPlaylistDetail) {
			t.Errorf("expected ErrPlaylistDetail, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("Paging", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("offset") != "60" || q.Get("limit") != "30" || q.Get("keywords") != "晴天" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"code":200,"result":{"songs":[{"id":186016,"name":"晴天","artists":[{"name":"周杰伦"}]}],"hasMore":true,"songCount":300}}`))
		})

		result, err := client.Search(context.Background(), "晴天", 2, 0)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !result.HasMore || result.SongCount != 300 || len(result.Songs) != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("NoResult", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":200}`))
		})

		result, err := client.Search(context.Background(), "nothing", 0, 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if result.HasMore || result.SongCount != 0 || len(result.Songs) != 0 {
			t.Errorf("expected empty default result, got %+v", result)
		}
	})
}

func TestSearchHot(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"result":{"hots":[{"first":"晴天","second":1},{"first":"稻香","second":1}]}}`))
	})

	hots, err := client.SearchHot(context.Background())
	if err != nil {
		t.Fatalf("SearchHot: %v", err)
	}
	if len(hots) != 2 || hots[1].First != "稻香" {
		t.Errorf("unexpected hots: %+v", hots)
	}
}

func TestSongEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/playlist":
			if r.URL.Query().Get("uid") != "32953014" {
				t.Errorf("unexpected uid %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"code":200,"playlist":[{"id":5,"name":"我喜欢的音乐","trackCount":10,"creator":{"nickname":"me"}}]}`))
		case "/check/music":
			w.Write([]byte(`{"code":200,"success":true,"message":"ok"}`))
		case "/song/url":
			w.Write([]byte(`{"code":200,"data":[{"id":186016,"url":"http://m7.music.126.net/x.mp3","br":320000}]}`))
		case "/lyric":
			w.Write([]byte(`{"code":200,"lrc":{"lyric":"[00:01.00]故事的小黄花"},"tlyric":{"lyric":""}}`))
		case "/comment/music":
			q := r.URL.Query()
			if q.Get("offset") != "20" || q.Get("limit") != "20" || q.Get("id") != "186016" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"code":200,"total":2,"more":false,"comments":[{"content":"好听","time":1,"user":{"userId":1,"nickname":"a"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	playlists, err := client.UserPlaylist(ctx, 32953014)
	if err != nil || len(playlists) != 1 || playlists[0].TrackCount != 10 {
		t.Fatalf("UserPlaylist: %+v %v", playlists, err)
	}
	if _, ok := playlists[0].Extra["creator"]; !ok {
		t.Errorf("creator should be kept in Extra")
	}

	check, err := client.CheckMusic(ctx, 186016)
	if err != nil || !check.Success {
		t.Fatalf("CheckMusic: %+v %v", check, err)
	}

	urls, err := client.SongURL(ctx, 186016)
	if err != nil || len(urls) != 1 || urls[0].BR != 320000 {
		t.Fatalf("SongURL: %+v %v", urls, err)
	}

	lyric, err := client.Lyric(ctx, 186016)
	if err != nil || lyric.Lrc.Lyric != "[00:01.00]故事的小黄花" {
		t.Fatalf("Lyric: %+v %v", lyric, err)
	}

	comments, err := client.Comments(ctx, 186016, 1, 20)
	if err != nil || comments.Total != 2 || comments.Comments[0].User.Nickname != "a" {
		t.Fatalf("Comments: %+v %v", comments, err)
	}
}

func TestCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "MUSIC_U=abc" {
			t.Errorf("expected cookie header, got %q", r.Header.Get("Cookie"))
		}
		w.Write([]byte(`{"code":200,"result":{"hots":[]}}`))
	})
	client.SetCookie("MUSIC_U=abc")

	if _, err := client.SearchHot(context.Background()); err != nil {
		t.Fatalf("SearchHot: %v", err)
	}
}
