package music

import (
	"context"
	"fmt"

	"player-core/pkg/lrclib"
	"player-core/pkg/netease"
)

// SourceName 歌词来源类型
type SourceName string

const (
	// SourceNetEase 网易云音乐
	SourceNetEase SourceName = "netease"
	// SourceLRCLib LRCLib歌词库
	SourceLRCLib SourceName = "lrclib"
)

// neteaseSource 按歌曲 ID 从网易云获取歌词
type neteaseSource struct {
	client *netease.Client
}

// NewNetEaseSource 包装网易云客户端
func NewNetEaseSource(client *netease.Client) LyricSource {
	return &neteaseSource{client: client}
}

func (s *neteaseSource) Name() string { return s.client.GetProviderName() }

func (s *neteaseSource) FetchLyric(ctx context.Context, track Track) (string, error) {
	if track.ID == 0 {
		return "", fmt.Errorf("netease lyric requires a song id")
	}
	lyric, err := s.client.Lyric(ctx, track.ID)
	if err != nil {
		return "", err
	}
	return lyric.Lrc.Lyric, nil
}

// lrclibSource 按标题和歌手从 LRCLib 获取歌词
type lrclibSource struct {
	client *lrclib.Client
}

// NewLRCLibSource 包装 LRCLib 客户端
func NewLRCLibSource(client *lrclib.Client) LyricSource {
	return &lrclibSource{client: client}
}

func (s *lrclibSource) Name() string { return s.client.GetProviderName() }

func (s *lrclibSource) FetchLyric(ctx context.Context, track Track) (string, error) {
	if track.Title == "" {
		return "", fmt.Errorf("lrclib lyric requires a title")
	}
	return s.client.GetLyricsByInfo(ctx, track.Title, track.Artist, track.Duration)
}

// GetSourceByName 根据名称获取来源类型
func GetSourceByName(name string) (SourceName, error) {
	switch name {
	case "netease", "网易云", "163":
		return SourceNetEase, nil
	case "lrclib":
		return SourceLRCLib, nil
	default:
		return "", fmt.Errorf("unknown lyric source name: %s", name)
	}
}
