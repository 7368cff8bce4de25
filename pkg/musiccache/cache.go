// Package musiccache 缓存媒体标题到网易云歌曲的匹配结果，重复播放时跳过文本模型和搜索。
package musiccache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"player-core/pkg/kv"
	"player-core/pkg/netease"
)

// KeyPrefix 存储键前缀，后接媒体标题
const KeyPrefix = "__Player_match__:"

type Cache struct {
	kv    kv.Store
	cache sync.Map
}

func New(s kv.Store) *Cache {
	return &Cache{kv: s}
}

// Get 先查内存，再查持久化存储；存储不可用或数据损坏时视为未命中
func (c *Cache) Get(ctx context.Context, mediaTitle string) (netease.Song, bool) {
	if v, ok := c.cache.Load(mediaTitle); ok {
		return v.(netease.Song), true
	}

	raw, err := c.kv.Get(ctx, KeyPrefix+mediaTitle)
	if err != nil {
		return netease.Song{}, false
	}
	var song netease.Song
	if err := json.Unmarshal([]byte(raw), &song); err != nil || song.ID == 0 {
		return netease.Song{}, false
	}
	c.cache.Store(mediaTitle, song)
	return song, true
}

// Add 保存匹配结果，已缓存的标题不会被覆盖
func (c *Cache) Add(ctx context.Context, mediaTitle string, song netease.Song) error {
	if song.ID == 0 {
		return errors.New("cannot cache a song without id")
	}
	if _, loaded := c.cache.LoadOrStore(mediaTitle, song); loaded {
		return nil
	}
	data, err := json.Marshal(song)
	if err != nil {
		return fmt.Errorf("failed to encode match: %w", err)
	}
	if err := c.kv.Set(ctx, KeyPrefix+mediaTitle, string(data)); err != nil {
		return fmt.Errorf("failed to persist match for '%s': %w", mediaTitle, err)
	}
	return nil
}

// Remove 删除匹配结果，用于纠正错误的匹配
func (c *Cache) Remove(ctx context.Context, mediaTitle string) error {
	c.cache.Delete(mediaTitle)
	if err := c.kv.Delete(ctx, KeyPrefix+mediaTitle); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return nil
}
