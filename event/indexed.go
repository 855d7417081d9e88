package event

import (
	"encoding/json"
	"time"

	"github.com/tidemark/tidemark/bucket"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
)

// IndexedEvent is an observation over a calendar or fixed bucket,
// identified by its index string.
//
// The event takes ownership of the data map passed to NewIndexed;
// callers must not modify it afterwards.
type IndexedEvent struct {
	idx  bucket.Index
	data map[string]any
}

var _ Event = IndexedEvent{}

// NewIndexed creates an indexed event over idx carrying data.
func NewIndexed(idx bucket.Index, data map[string]any) IndexedEvent {
	return IndexedEvent{idx: idx, data: data}
}

func (e IndexedEvent) Kind() format.Kind { return format.KindIndex }

// Key returns the index string.
func (e IndexedEvent) Key() string { return e.idx.String() }

// Index returns the bucket index.
func (e IndexedEvent) Index() bucket.Index { return e.idx }

func (e IndexedEvent) Timestamp() time.Time { return e.idx.Begin() }
func (e IndexedEvent) Begin() time.Time     { return e.idx.Begin() }
func (e IndexedEvent) End() time.Time       { return e.idx.End() }

func (e IndexedEvent) Data() map[string]any { return e.data }
func (e IndexedEvent) Get(path string) any  { return field.Get(e.data, path) }
func (e IndexedEvent) Has(path string) bool { return field.Has(e.data, path) }

func (e IndexedEvent) Set(path string, v any) Event {
	return IndexedEvent{idx: e.idx, data: field.Set(e.data, path, v)}
}

func (e IndexedEvent) SetData(data map[string]any) Event {
	return IndexedEvent{idx: e.idx, data: data}
}

func (e IndexedEvent) Select(paths ...string) Event {
	return IndexedEvent{idx: e.idx, data: selectData(e.data, paths)}
}

func (e IndexedEvent) Collapse(paths []string, name string, fn reducer.Func, keep bool) Event {
	return IndexedEvent{idx: e.idx, data: collapseData(e.data, paths, name, fn, keep)}
}

func (e IndexedEvent) ToPoint(columns []string) []any {
	return pointRow(e.idx.String(), e.data, columns)
}

// MarshalJSON renders {"index": "<index>", "data": {...}}.
func (e IndexedEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index string         `json:"index"`
		Data  map[string]any `json:"data"`
	}{e.idx.String(), e.data})
}

func (e IndexedEvent) sealed() {}
