package store

import (
	"context"
	"errors"
	"testing"

	"player-core/pkg/kv"

	"github.com/stretchr/testify/require"
)

// failingStore 模拟不可用的存储
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage unavailable")
}
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("storage unavailable") }

func ids(list []Entry) []int64 {
	out := make([]int64, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func TestHistory_Record(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemory())

	require.Empty(t, h.List(ctx), "new history should be empty")

	list, err := h.Record(ctx, Entry{ID: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids(list))

	list, err = h.Record(ctx, Entry{ID: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, ids(list))

	list, err = h.Record(ctx, Entry{ID: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids(list), "re-recorded song should move to the head")

	require.Equal(t, []int64{1, 2}, ids(h.List(ctx)), "list should be persisted")
}

func TestHistory_RecordHeadIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	h := NewHistory(mem)

	_, err := h.Record(ctx, NewEntry(7, map[string]any{"name": "first"}))
	require.NoError(t, err)
	before, err := mem.Get(ctx, HistoryKey)
	require.NoError(t, err)

	list, err := h.Record(ctx, NewEntry(7, map[string]any{"name": "second"}))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "first", list[0].Extra["name"], "head entry should be returned unchanged")

	after, err := mem.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.Equal(t, before, after, "recording the head again should not write")
}

func TestHistory_Cap(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemory())

	for i := int64(1); i <= HistoryMax+25; i++ {
		list, err := h.Record(ctx, Entry{ID: i})
		require.NoError(t, err)
		require.LessOrEqual(t, len(list), HistoryMax)
	}

	list := h.List(ctx)
	require.Len(t, list, HistoryMax)
	require.Equal(t, int64(HistoryMax+25), list[0].ID, "newest entry should be first")
	require.Equal(t, int64(26), list[HistoryMax-1].ID, "oldest entries should be evicted")
}

func TestHistory_Remove(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemory())

	for _, id := range []int64{1, 2, 3} {
		_, err := h.Record(ctx, Entry{ID: id})
		require.NoError(t, err)
	}

	list, err := h.Remove(ctx, Entry{ID: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1}, ids(list))
	require.Equal(t, []int64{3, 1}, ids(h.List(ctx)))

	list, err = h.Remove(ctx, Entry{ID: 42})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1}, ids(list), "removing an absent id leaves the list unchanged")
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	h := NewHistory(mem)

	_, err := h.Record(ctx, Entry{ID: 1})
	require.NoError(t, err)

	list, err := h.Clear(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Empty(t, h.List(ctx))

	_, err = mem.Get(ctx, HistoryKey)
	require.ErrorIs(t, err, kv.ErrNotFound, "clear should delete the key")
}

func TestHistory_CorruptStorage(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, HistoryKey, "{not json"))

	h := NewHistory(mem)
	require.Empty(t, h.List(ctx), "corrupt value should fall back to an empty list")

	list, err := h.Record(ctx, Entry{ID: 5})
	require.NoError(t, err)
	require.Equal(t, []int64{5}, ids(list), "recording should replace the corrupt value")
}

func TestHistory_UnavailableStorage(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(failingStore{})

	require.Empty(t, h.List(ctx))

	list, err := h.Record(ctx, Entry{ID: 1})
	require.Error(t, err, "write failure should be reported")
	require.Equal(t, []int64{1}, ids(list), "the updated list is still returned")
}

func TestHistory_ExtraFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	h := NewHistory(mem)

	entry := NewEntry(99, map[string]any{
		"id":       123, // ignored, ID wins
		"name":     "晴天",
		"singer":   "周杰伦",
		"duration": 269.0,
	})
	_, err := h.Record(ctx, entry)
	require.NoError(t, err)

	raw, err := mem.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":99,"name":"晴天","singer":"周杰伦","duration":269}]`, raw)

	list := h.List(ctx)
	require.Len(t, list, 1)
	require.Equal(t, int64(99), list[0].ID)
	require.Equal(t, "周杰伦", list[0].Extra["singer"])
	require.Equal(t, 269.0, list[0].Extra["duration"])
}
