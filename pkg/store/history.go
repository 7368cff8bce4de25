// Package store 持久化播放器状态：播放历史和几个标量设置。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"player-core/pkg/kv"

	"github.com/rs/zerolog/log"
)

const (
	HistoryKey = "__Player_historyList__"
	HistoryMax = 200
)

var logger = log.With().Str("component", "store").Logger()

// History 最近播放列表：按 ID 去重，最新的在前，最多 HistoryMax 条
type History struct {
	kv kv.Store
	mu sync.Mutex
}

func NewHistory(s kv.Store) *History {
	return &History{kv: s}
}

// List 返回当前历史，存储缺失或损坏时返回空列表
func (h *History) List(ctx context.Context) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Record 把 entry 放到列表首位并持久化。
// entry 已在首位时不写入；写入失败时仍返回修改后的列表。
func (h *History) Record(ctx context.Context, entry Entry) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.load(ctx)
	index := indexOf(list, entry.ID)
	if index == 0 {
		return list, nil
	}
	if index > 0 {
		list = append(list[:index], list[index+1:]...)
	}

	list = append([]Entry{entry}, list...)
	if len(list) > HistoryMax {
		list = list[:HistoryMax]
	}

	return list, h.save(ctx, list)
}

// Remove 删除所有 ID 与 entry 相同的记录
func (h *History) Remove(ctx context.Context, entry Entry) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.load(ctx)
	updated := make([]Entry, 0, len(list))
	for _, item := range list {
		if item.ID != entry.ID {
			updated = append(updated, item)
		}
	}
	return updated, h.save(ctx, updated)
}

// Clear 删除持久化的历史
func (h *History) Clear(ctx context.Context) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.kv.Delete(ctx, HistoryKey); err != nil {
		return []Entry{}, fmt.Errorf("failed to clear history: %w", err)
	}
	return []Entry{}, nil
}

func (h *History) load(ctx context.Context) []Entry {
	raw, err := h.kv.Get(ctx, HistoryKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn().Err(err).Msg("Failed to read history, using empty list")
		}
		return []Entry{}
	}

	var list []Entry
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warn().Err(err).Msg("Corrupt history, using empty list")
		return []Entry{}
	}
	if list == nil {
		return []Entry{}
	}
	return list
}

func (h *History) save(ctx context.Context, list []Entry) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func indexOf(list []Entry, id int64) int {
	for i, item := range list {
		if item.ID == id {
			return i
		}
	}
	return -1
}
