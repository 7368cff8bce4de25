// Package resolver 把播放器给出的媒体标题解析为网易云歌曲。
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"player-core/pkg/ai"
	"player-core/pkg/netease"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "resolver").Logger()

// ErrNotSong 媒体标题不是歌曲（例如视频、播客）
var ErrNotSong = errors.New("media is not a song")

// SongInfo 从媒体标题中提取的歌曲信息
type SongInfo struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	IsSong bool   `json:"is_song"`
}

// Searcher 歌曲搜索，*netease.Client 实现了该接口
type Searcher interface {
	Search(ctx context.Context, keywords string, page, limit int) (*netease.SearchResult, error)
}

type Resolver struct {
	model      ai.TextModel
	searcher   Searcher
	maxRetries int
	retryDelay time.Duration
}

// New 创建解析器，model 为 nil 时只按 "歌手 - 标题" 拆分
func New(model ai.TextModel, searcher Searcher) *Resolver {
	return &Resolver{
		model:      model,
		searcher:   searcher,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

func formatQuerySong(title string) string {
	return fmt.Sprintf(`请精确地按照以下JSON格式提取歌曲信息: {"is_song": true, "title": "歌曲标题", "artist": "演唱者"}。  输入是一个媒体标题，如果标题中包含歌曲信息，请返回符合格式的JSON；否则，返回{"is_song": false}。 请注意，"title" 和 "artist" 必须准确，否则将被视为错误，切记不要任何markdown格式，并将繁体中文转换为简体。 媒体标题是：%s`, title)
}

// Identify 从媒体标题中提取歌曲信息。文本模型不可用或失败时按分隔符拆分。
func (r *Resolver) Identify(ctx context.Context, mediaTitle string) SongInfo {
	if r.model == nil {
		return splitIdentifier(mediaTitle)
	}

	var raw string
	var err error
	for i := 0; i < r.maxRetries; i++ {
		raw, err = r.model.HandleText(ctx, formatQuerySong(mediaTitle))
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", i+1).Str("model", r.model.Name()).Msg("Failed to query text model")
		if i == r.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return splitIdentifier(mediaTitle)
		case <-time.After(r.retryDelay):
		}
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Text model unavailable, splitting media title")
		return splitIdentifier(mediaTitle)
	}

	var info SongInfo
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &info); err != nil {
		logger.Warn().Err(err).Str("response", raw).Msg("Failed to parse text model response")
		return splitIdentifier(mediaTitle)
	}
	return info
}

// Resolve 解析媒体标题并在网易云中搜索最匹配的歌曲
func (r *Resolver) Resolve(ctx context.Context, mediaTitle string) (netease.Song, error) {
	info := r.Identify(ctx, mediaTitle)
	if !info.IsSong {
		return netease.Song{}, fmt.Errorf("'%s': %w", mediaTitle, ErrNotSong)
	}
	return r.Match(ctx, info)
}

// Match 在网易云中搜索与歌曲信息最匹配的歌曲
func (r *Resolver) Match(ctx context.Context, info SongInfo) (netease.Song, error) {
	logger.Info().Str("title", info.Title).Str("artist", info.Artist).Msg("Identified song")

	keywords := strings.TrimSpace(info.Title + " " + info.Artist)
	result, err := r.searcher.Search(ctx, keywords, 0, netease.DefaultLimit)
	if err != nil {
		return netease.Song{}, fmt.Errorf("failed to search '%s': %w", keywords, err)
	}

	song, ok := netease.BestMatch(netease.FormatSongs(result.Songs), info.Title, info.Artist)
	if !ok {
		return netease.Song{}, fmt.Errorf("no matching song found for '%s' by '%s'", info.Title, info.Artist)
	}
	logger.Info().Int64("song_id", song.ID).Str("name", song.Name).Str("singer", song.Singer).Msg("Found matching song")
	return song, nil
}

// splitIdentifier 按 playerctl 的 "{{artist}} - {{title}}" 格式拆分
func splitIdentifier(mediaTitle string) SongInfo {
	mediaTitle = strings.TrimSpace(mediaTitle)
	if mediaTitle == "" {
		return SongInfo{}
	}
	artist, title, found := strings.Cut(mediaTitle, " - ")
	if !found {
		return SongInfo{Title: mediaTitle, IsSong: true}
	}
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	if title == "" {
		return SongInfo{Title: artist, IsSong: artist != ""}
	}
	return SongInfo{Title: title, Artist: artist, IsSong: true}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
