package event

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
	"github.com/tidemark/tidemark/timerange"
)

// RangeEvent is an observation over a closed [begin, end] interval.
//
// The event takes ownership of the data map passed to NewRange; callers
// must not modify it afterwards.
type RangeEvent struct {
	r    timerange.TimeRange
	data map[string]any
}

var _ Event = RangeEvent{}

// NewRange creates a range event over r carrying data.
func NewRange(r timerange.TimeRange, data map[string]any) RangeEvent {
	return RangeEvent{r: r, data: data}
}

func (e RangeEvent) Kind() format.Kind { return format.KindTimeRange }

// Key returns "beginMs,endMs".
func (e RangeEvent) Key() string {
	return strconv.FormatInt(e.r.Begin().UnixMilli(), 10) + "," +
		strconv.FormatInt(e.r.End().UnixMilli(), 10)
}

// Range returns the covered interval.
func (e RangeEvent) Range() timerange.TimeRange { return e.r }

func (e RangeEvent) Timestamp() time.Time { return e.r.Begin() }
func (e RangeEvent) Begin() time.Time     { return e.r.Begin() }
func (e RangeEvent) End() time.Time       { return e.r.End() }

func (e RangeEvent) Data() map[string]any { return e.data }
func (e RangeEvent) Get(path string) any  { return field.Get(e.data, path) }
func (e RangeEvent) Has(path string) bool { return field.Has(e.data, path) }

func (e RangeEvent) Set(path string, v any) Event {
	return RangeEvent{r: e.r, data: field.Set(e.data, path, v)}
}

func (e RangeEvent) SetData(data map[string]any) Event {
	return RangeEvent{r: e.r, data: data}
}

func (e RangeEvent) Select(paths ...string) Event {
	return RangeEvent{r: e.r, data: selectData(e.data, paths)}
}

func (e RangeEvent) Collapse(paths []string, name string, fn reducer.Func, keep bool) Event {
	return RangeEvent{r: e.r, data: collapseData(e.data, paths, name, fn, keep)}
}

func (e RangeEvent) ToPoint(columns []string) []any {
	key := []int64{e.r.Begin().UnixMilli(), e.r.End().UnixMilli()}
	return pointRow(key, e.data, columns)
}

// MarshalJSON renders {"timerange": [beginMs, endMs], "data": {...}}.
func (e RangeEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TimeRange [2]int64       `json:"timerange"`
		Data      map[string]any `json:"data"`
	}{[2]int64{e.r.Begin().UnixMilli(), e.r.End().UnixMilli()}, e.data})
}

func (e RangeEvent) sealed() {}
