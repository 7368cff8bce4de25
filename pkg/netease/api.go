package netease

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// ToplistDetail 排行榜列表
func (c *Client) ToplistDetail(ctx context.Context) ([]Toplist, error) {
	var resp struct {
		List []Toplist `json:"list"`
	}
	if err := c.get(ctx, "/toplist/detail", nil, &resp); err != nil {
		return nil, err
	}
	if resp.List == nil {
		return []Toplist{}, nil
	}
	return resp.List, nil
}

// Personalized 推荐歌单
func (c *Client) Personalized(ctx context.Context) ([]Playlist, error) {
	var resp struct {
		Result []Playlist `json:"result"`
	}
	if err := c.get(ctx, "/personalized", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return []Playlist{}, nil
	}
	return resp.Result, nil
}

// PlaylistDetail 歌单详情。歌单自带完整 tracks 时直接使用，
// 否则按 trackIds 拉取前 maxPlaylistTracks 首歌曲详情。
func (c *Client) PlaylistDetail(ctx context.Context, id int64) (*Playlist, error) {
	var resp struct {
		Playlist *Playlist `json:"playlist"`
	}
	if err := c.get(ctx, "/playlist/detail", idParam("id", id), &resp); err != nil {
		return nil, err
	}

	playlist := resp.Playlist
	if playlist == nil || playlist.TrackIDs == nil {
		return nil, ErrPlaylistDetail
	}

	// 完整歌单，如排行榜
	if playlist.Tracks != nil && len(playlist.Tracks) == len(playlist.TrackIDs) {
		playlist.Songs = FormatSongs(playlist.Tracks)
		return playlist, nil
	}

	trackIDs := playlist.TrackIDs
	if len(trackIDs) > maxPlaylistTracks {
		trackIDs = trackIDs[:maxPlaylistTracks]
	}
	if len(trackIDs) == 0 {
		playlist.Songs = []Song{}
		return playlist, nil
	}

	ids := make([]int64, len(trackIDs))
	for i, t := range trackIDs {
		ids[i] = t.ID
	}
	songs, err := c.SongDetail(ctx, ids...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("playlist_id", id).
		Int("track_ids", len(playlist.TrackIDs)).
		Int("fetched", len(songs)).
		Msg("Fetched playlist tracks")

	playlist.Songs = FormatSongs(songs)
	return playlist, nil
}

// Search 搜索，page 从 0 开始，limit <= 0 时使用 DefaultLimit
func (c *Client) Search(ctx context.Context, keywords string, page, limit int) (*SearchResult, error) {
	params := pageParams(page, limit)
	params.Set("keywords", keywords)

	var resp struct {
		Result *SearchResult `json:"result"`
	}
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return &SearchResult{Songs: []RawSong{}}, nil
	}
	return resp.Result, nil
}

// SearchHot 热搜
func (c *Client) SearchHot(ctx context.Context) ([]SearchHot, error) {
	var resp struct {
		Result *struct {
			Hots []SearchHot `json:"hots"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/search/hot", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil || resp.Result.Hots == nil {
		return []SearchHot{}, nil
	}
	return resp.Result.Hots, nil
}

// UserPlaylist 用户歌单
func (c *Client) UserPlaylist(ctx context.Context, uid int64) ([]Playlist, error) {
	var resp struct {
		Playlist []Playlist `json:"playlist"`
	}
	if err := c.get(ctx, "/user/playlist", idParam("uid", uid), &resp); err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return []Playlist{}, nil
	}
	return resp.Playlist, nil
}

// SongDetail 歌曲详情
func (c *Client) SongDetail(ctx context.Context, ids ...int64) ([]RawSong, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("ids", strings.Join(parts, ","))

	var resp struct {
		Songs []RawSong `json:"songs"`
	}
	if err := c.get(ctx, "/song/detail", params, &resp); err != nil {
		return nil, err
	}
	if resp.Songs == nil {
		return []RawSong{}, nil
	}
	return resp.Songs, nil
}

// CheckMusic 检查歌曲是否可用
func (c *Client) CheckMusic(ctx context.Context, id int64) (*CheckResult, error) {
	var resp CheckResult
	if err := c.get(ctx, "/check/music", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SongURL 歌曲播放地址
func (c *Client) SongURL(ctx context.Context, id int64) ([]MusicURL, error) {
	var resp struct {
		Data []MusicURL `json:"data"`
	}
	if err := c.get(ctx, "/song/url", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []MusicURL{}, nil
	}
	return resp.Data, nil
}

// Lyric 获取歌词
func (c *Client) Lyric(ctx context.Context, id int64) (*Lyric, error) {
	var resp Lyric
	if err := c.get(ctx, "/lyric", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Comments 歌曲评论，page 从 0 开始
func (c *Client) Comments(ctx context.Context, id int64, page, limit int) (*CommentResponse, error) {
	params := pageParams(page, limit)
	params.Set("id", strconv.FormatInt(id, 10))

	var resp CommentResponse
	if err := c.get(ctx, "/comment/music", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
