// Package translate 翻译歌词文本。
package translate

import "context"

// Translator 批量翻译，返回结果与输入一一对应
type Translator interface {
	Translate(ctx context.Context, texts []string) ([]string, error)
}
