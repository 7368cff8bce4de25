package musiccache

import (
	"context"
	"testing"

	"player-core/pkg/kv"
	"player-core/pkg/netease"

	"github.com/stretchr/testify/require"
)

var sunny = netease.Song{ID: 186016, Name: "晴天", Singer: "周杰伦", Duration: 269}

func TestCache(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	c := New(s)

	_, ok := c.Get(ctx, "周杰伦 - 晴天")
	require.False(t, ok)

	require.NoError(t, c.Add(ctx, "周杰伦 - 晴天", sunny))
	got, ok := c.Get(ctx, "周杰伦 - 晴天")
	require.True(t, ok)
	require.Equal(t, sunny, got)

	// 已缓存的标题不会被覆盖
	require.NoError(t, c.Add(ctx, "周杰伦 - 晴天", netease.Song{ID: 1}))
	got, _ = c.Get(ctx, "周杰伦 - 晴天")
	require.Equal(t, int64(186016), got.ID)

	// 新实例从存储中读取
	got, ok = New(s).Get(ctx, "周杰伦 - 晴天")
	require.True(t, ok)
	require.Equal(t, sunny, got)

	require.NoError(t, c.Remove(ctx, "周杰伦 - 晴天"))
	_, ok = New(s).Get(ctx, "周杰伦 - 晴天")
	require.False(t, ok)
	require.NoError(t, c.Remove(ctx, "never cached"))
}

func TestCacheRejectsEmptySong(t *testing.T) {
	require.Error(t, New(kv.NewMemory()).Add(context.Background(), "title", netease.Song{}))
}

func TestCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	require.NoError(t, s.Set(ctx, KeyPrefix+"title", "{broken"))

	_, ok := New(s).Get(ctx, "title")
	require.False(t, ok)
}
