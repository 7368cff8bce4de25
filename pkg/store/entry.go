package store

import (
	"encoding/json"
	"fmt"
)

// Entry 播放历史中的一首歌。ID 唯一，其余字段原样保存在 Extra 中。
type Entry struct {
	ID    int64
	Extra map[string]any
}

// NewEntry 创建历史记录项，fields 中的 "id" 会被忽略
func NewEntry(id int64, fields map[string]any) Entry {
	extra := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		extra[k] = v
	}
	return Entry{ID: id, Extra: extra}
}

// MarshalJSON 输出扁平对象：{"id": ..., 其他字段...}
func (e Entry) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		obj[k] = v
	}
	obj["id"] = e.ID
	return json.Marshal(obj)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	rawID, ok := obj["id"]
	if !ok {
		return fmt.Errorf("history entry without id")
	}
	if err := json.Unmarshal(rawID, &e.ID); err != nil {
		return fmt.Errorf("invalid history entry id: %w", err)
	}
	delete(obj, "id")

	e.Extra = make(map[string]any, len(obj))
	for k, raw := range obj {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		e.Extra[k] = v
	}
	return nil
}
