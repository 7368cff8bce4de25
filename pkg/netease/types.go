package netease

import (
	"encoding/json"
)

// Extra 保存接口返回中未建模的字段
type Extra map[string]json.RawMessage

// splitExtra 解析 data 中除 known 之外的字段
func splitExtra(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// Artist 歌手
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album 专辑
type Album struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

// RawSong 接口返回的歌曲。不同接口使用 ar/artists、al/album、dt/duration 两套字段名。
type RawSong struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Ar       []Artist `json:"ar,omitempty"`
	Artists  []Artist `json:"artists,omitempty"`
	Al       *Album   `json:"al,omitempty"`
	Album    *Album   `json:"album,omitempty"`
	Dt       int64    `json:"dt,omitempty"`
	Duration int64    `json:"duration,omitempty"`
	Extra    Extra    `json:"-"`
}

func (s *RawSong) UnmarshalJSON(data []byte) error {
	type plain RawSong
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "name", "ar", "artists", "al", "album", "dt", "duration")
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

// TrackID 歌单中的歌曲 ID
type TrackID struct {
	ID int64 `json:"id"`
}

// Playlist 歌单
type Playlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CoverImgURL string    `json:"coverImgUrl"`
	PicURL      string    `json:"picUrl,omitempty"`
	TrackCount  int       `json:"trackCount"`
	PlayCount   int64     `json:"playCount"`
	Tracks      []RawSong `json:"tracks"`
	TrackIDs    []TrackID `json:"trackIds"`
	Extra       Extra     `json:"-"`

	// Songs 由 PlaylistDetail 填充的格式化歌曲
	Songs []Song `json:"-"`
}

func (p *Playlist) UnmarshalJSON(data []byte) error {
	type plain Playlist
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "name", "coverImgUrl", "picUrl", "trackCount", "playCount", "tracks", "trackIds")
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

// Toplist 排行榜
type Toplist struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	UpdateFrequency string `json:"updateFrequency"`
	CoverImgURL     string `json:"coverImgUrl"`
	Extra           Extra  `json:"-"`
}

func (t *Toplist) UnmarshalJSON(data []byte) error {
	type plain Toplist
	if err := json.Unmarshal(data, (*plain)(t)); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "name", "updateFrequency", "coverImgUrl")
	if err != nil {
		return err
	}
	t.Extra = extra
	return nil
}

// SearchResult 搜索结果
type SearchResult struct {
	Songs     []RawSong `json:"songs"`
	HasMore   bool      `json:"hasMore"`
	SongCount int       `json:"songCount"`
}

// SearchHot 热搜词
type SearchHot struct {
	First  string `json:"first"`
	Second int    `json:"second"`
}

// CheckResult 歌曲是否可用
type CheckResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// MusicURL 歌曲播放地址
type MusicURL struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
	BR  int    `json:"br,omitempty"`
}

// Lyric 歌词，Lrc 为原文，Tlyric 为翻译
type Lyric struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
	Tlyric struct {
		Lyric string `json:"lyric"`
	} `json:"tlyric"`
}

// CommentUser 评论用户
type CommentUser struct {
	UserID    int64  `json:"userId"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// Comment 评论
type Comment struct {
	Content string      `json:"content"`
	Time    int64       `json:"time"`
	User    CommentUser `json:"user"`
}

// CommentResponse 评论列表
type CommentResponse struct {
	Comments    []Comment `json:"comments"`
	HotComments []Comment `json:"hotComments,omitempty"`
	Total       int       `json:"total"`
	More        bool      `json:"more"`
}
