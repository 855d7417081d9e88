package event

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
)

// PointEvent is an observation at a single instant.
//
// The event takes ownership of the data map passed to NewPoint; callers
// must not modify it afterwards.
type PointEvent struct {
	t    time.Time
	data map[string]any
}

var _ Event = PointEvent{}

// NewPoint creates a point event at t carrying data.
func NewPoint(t time.Time, data map[string]any) PointEvent {
	return PointEvent{t: t, data: data}
}

func (e PointEvent) Kind() format.Kind { return format.KindTime }

// Key returns the event time as epoch milliseconds.
func (e PointEvent) Key() string {
	return strconv.FormatInt(e.t.UnixMilli(), 10)
}

func (e PointEvent) Timestamp() time.Time { return e.t }
func (e PointEvent) Begin() time.Time     { return e.t }
func (e PointEvent) End() time.Time       { return e.t }

func (e PointEvent) Data() map[string]any { return e.data }
func (e PointEvent) Get(path string) any  { return field.Get(e.data, path) }
func (e PointEvent) Has(path string) bool { return field.Has(e.data, path) }

func (e PointEvent) Set(path string, v any) Event {
	return PointEvent{t: e.t, data: field.Set(e.data, path, v)}
}

func (e PointEvent) SetData(data map[string]any) Event {
	return PointEvent{t: e.t, data: data}
}

func (e PointEvent) Select(paths ...string) Event {
	return PointEvent{t: e.t, data: selectData(e.data, paths)}
}

func (e PointEvent) Collapse(paths []string, name string, fn reducer.Func, keep bool) Event {
	return PointEvent{t: e.t, data: collapseData(e.data, paths, name, fn, keep)}
}

func (e PointEvent) ToPoint(columns []string) []any {
	return pointRow(e.t.UnixMilli(), e.data, columns)
}

// MarshalJSON renders {"time": <epoch ms>, "data": {...}}.
func (e PointEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time int64          `json:"time"`
		Data map[string]any `json:"data"`
	}{e.t.UnixMilli(), e.data})
}

func (e PointEvent) sealed() {}
