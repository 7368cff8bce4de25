package ai

import "context"

// TextModel 文本模型，用于从媒体标题中提取歌曲信息
type TextModel interface {
	Name() string
	HandleText(ctx context.Context, msg string) (string, error)
}
