package music

import (
	"context"
)

// Track 获取歌词所需的歌曲信息
type Track struct {
	ID       int64   // 网易云歌曲 ID，0 表示未知
	Title    string  // 歌曲标题
	Artist   string  // 演唱者
	Duration float64 // 歌曲时长（秒）
}

// LyricSource 歌词来源
type LyricSource interface {
	// FetchLyric 获取 LRC 格式的歌词
	FetchLyric(ctx context.Context, track Track) (string, error)

	// Name 来源名称
	Name() string
}
