package music

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "music-manager").Logger()

// Manager 按顺序尝试多个歌词来源
type Manager struct {
	sources []LyricSource
}

// NewManager 创建新的歌词来源管理器，sources 的顺序即优先级
func NewManager(sources ...LyricSource) *Manager {
	if len(sources) == 0 {
		logger.Warn().Msg("No lyric sources configured")
		return &Manager{}
	}

	logger.Info().
		Int("source_count", len(sources)).
		Str("primary_source", sources[0].Name()).
		Msg("Lyric manager initialized")

	return &Manager{sources: sources}
}

// FetchLyric 依次尝试各个来源，返回第一个非空歌词
func (m *Manager) FetchLyric(ctx context.Context, track Track) (string, error) {
	if len(m.sources) == 0 {
		return "", fmt.Errorf("no lyric sources available")
	}

	var lastErr error
	for i, source := range m.sources {
		logger.Info().
			Str("source", source.Name()).
			Int64("song_id", track.ID).
			Str("title", track.Title).
			Int("attempt", i+1).
			Int("total_sources", len(m.sources)).
			Msg("Trying lyric source")

		lyric, err := source.FetchLyric(ctx, track)
		if err != nil {
			logger.Warn().Str("source", source.Name()).Err(err).Msg("Lyric source failed")
			lastErr = err
			continue
		}
		if strings.TrimSpace(lyric) == "" {
			logger.Warn().Str("source", source.Name()).Msg("Lyric source returned empty lyric")
			lastErr = fmt.Errorf("%s returned empty lyric", source.Name())
			continue
		}

		logger.Info().Str("source", source.Name()).Msg("Successfully got lyrics")
		return lyric, nil
	}

	return "", fmt.Errorf("all lyric sources failed for '%s - %s', last error: %w", track.Title, track.Artist, lastErr)
}

// Name 管理器名称（实现 LyricSource 接口）
func (m *Manager) Name() string {
	if len(m.sources) > 0 {
		return fmt.Sprintf("Manager[Primary: %s]", m.sources[0].Name())
	}
	return "Manager[No Sources]"
}

// SourceNames 获取所有来源名称
func (m *Manager) SourceNames() []string {
	names := make([]string, len(m.sources))
	for i, source := range m.sources {
		names[i] = source.Name()
	}
	return names
}
