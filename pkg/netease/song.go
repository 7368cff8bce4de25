package netease

import (
	"fmt"
	"strings"

	"player-core/pkg/tools"
)

// Song 格式化后供播放器使用的歌曲
type Song struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Singer   string  `json:"singer"`
	Album    string  `json:"album"`
	Image    string  `json:"image"`
	Duration float64 `json:"duration"` // 秒
	URL      string  `json:"url"`
}

// NewSong 把接口返回的歌曲格式化为 Song
func NewSong(raw RawSong) Song {
	album := raw.Album
	if album == nil {
		album = raw.Al
	}
	artists := raw.Ar
	if len(artists) == 0 {
		artists = raw.Artists
	}
	duration := raw.Duration
	if duration == 0 {
		duration = raw.Dt
	}

	song := Song{
		ID:       raw.ID,
		Name:     raw.Name,
		Singer:   joinSingers(artists),
		Duration: float64(duration) / 1000,
		URL:      fmt.Sprintf("https://music.163.com/song/media/outer/url?id=%d.mp3", raw.ID),
	}
	if album != nil {
		song.Album = album.Name
		song.Image = tools.ToHTTPS(album.PicURL)
	}
	return song
}

// FormatSongs 格式化歌曲列表，过滤掉没有 ID 的项
func FormatSongs(list []RawSong) []Song {
	songs := make([]Song, 0, len(list))
	for _, item := range list {
		if item.ID == 0 {
			continue
		}
		songs = append(songs, NewSong(item))
	}
	return songs
}

func joinSingers(artists []Artist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, "/")
}

// BestMatch 在搜索结果中找到标题和歌手都匹配的歌曲；
// 没有完全匹配时退回第一首标题匹配的歌曲，都不匹配返回 false
func BestMatch(songs []Song, title, artist string) (Song, bool) {
	for _, song := range songs {
		if !containsIgnoreCase(song.Name, title) {
			continue
		}
		// 多位歌手只要一位匹配即可
		for _, singer := range strings.Split(song.Singer, "/") {
			if containsIgnoreCase(singer, artist) {
				return song, true
			}
		}
	}

	if len(songs) > 0 && containsIgnoreCase(songs[0].Name, title) {
		return songs[0], true
	}
	return Song{}, false
}

// normalizeString 标准化字符串（转小写，去空格）
func normalizeString(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// containsIgnoreCase 忽略大小写和空格的双向包含检查
func containsIgnoreCase(s1, s2 string) bool {
	norm1, norm2 := normalizeString(s1), normalizeString(s2)
	if norm1 == "" || norm2 == "" {
		return norm1 == norm2
	}
	return strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1)
}
