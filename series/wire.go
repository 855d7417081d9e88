package series

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidemark/tidemark/bucket"
	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/timerange"
)

// Wire is the tabular JSON form of a series. The first column selects
// the event kind; the remaining columns name the data fields each
// point row carries, in declared order. Keys are epoch milliseconds
// for time points, [beginMs, endMs] pairs for ranges and index strings
// for indexed events.
type Wire struct {
	Name    string   `json:"name,omitempty"`
	UTC     bool     `json:"utc,omitempty"`
	Index   string   `json:"index,omitempty"`
	Columns []string `json:"columns"`
	Points  [][]any  `json:"points"`
}

// FromWire builds a series from its tabular form. Construction is
// strict: the leading column must name a known kind, every point row
// must match the column arity, and rows must already be chronological.
func FromWire(w Wire) (TimeSeries, error) {
	if len(w.Columns) == 0 {
		return TimeSeries{}, fmt.Errorf("%w: no columns", errs.ErrColumnMismatch)
	}

	kind, ok := format.KindFromColumn(w.Columns[0])
	if !ok {
		return TimeSeries{}, fmt.Errorf("%w: leading column %q", errs.ErrUnknownKind, w.Columns[0])
	}

	if w.Index != "" {
		if _, err := bucket.ParseIndex(w.Index); err != nil {
			return TimeSeries{}, err
		}
	}

	fields := w.Columns[1:]
	events := make([]event.Event, 0, len(w.Points))
	for i, row := range w.Points {
		if len(row) != len(w.Columns) {
			return TimeSeries{}, fmt.Errorf("%w: point %d has %d values, want %d",
				errs.ErrColumnMismatch, i, len(row), len(w.Columns))
		}

		data := make(map[string]any, len(fields))
		for j, name := range fields {
			data = field.Set(data, name, row[j+1])
		}

		e, err := eventFromKey(kind, row[0], data)
		if err != nil {
			return TimeSeries{}, fmt.Errorf("point %d: %w", i, err)
		}
		events = append(events, e)
	}

	c, err := collection.New(events...)
	if err != nil {
		return TimeSeries{}, err
	}

	return TimeSeries{c: c, meta: Meta{Name: w.Name, UTC: w.UTC, Index: w.Index}}, nil
}

// FromJSON parses the tabular JSON form.
func FromJSON(data []byte) (TimeSeries, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return TimeSeries{}, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}

	return FromWire(w)
}

// Wire returns the series' tabular form.
func (ts TimeSeries) Wire() Wire {
	columns := ts.Columns()
	w := Wire{
		Name:    ts.meta.Name,
		UTC:     ts.meta.UTC,
		Index:   ts.meta.Index,
		Columns: columns,
		Points:  make([][]any, ts.c.Len()),
	}
	if len(columns) == 0 {
		return w
	}

	for i, e := range ts.c.Events() {
		w.Points[i] = e.ToPoint(columns[1:])
	}

	return w
}

// MarshalJSON emits the tabular JSON form.
func (ts TimeSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Wire())
}

// eventFromKey constructs one event of the given kind from its wire
// key and payload.
func eventFromKey(kind format.Kind, key any, data map[string]any) (event.Event, error) {
	switch kind {
	case format.KindTime:
		ms, ok := toMillis(key)
		if !ok {
			return nil, fmt.Errorf("%w: time key %v", errs.ErrColumnMismatch, key)
		}

		return event.NewPoint(time.UnixMilli(ms).UTC(), data), nil

	case format.KindTimeRange:
		begin, end, ok := toMillisPair(key)
		if !ok {
			return nil, fmt.Errorf("%w: timerange key %v", errs.ErrColumnMismatch, key)
		}

		return event.NewRange(timerange.FromMillis(begin, end), data), nil

	case format.KindIndex:
		s, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: index key %v", errs.ErrColumnMismatch, key)
		}
		idx, err := bucket.ParseIndex(s)
		if err != nil {
			return nil, err
		}

		return event.NewIndexed(idx, data), nil

	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownKind, kind)
	}
}

// toMillis accepts the numeric shapes epoch-ms keys arrive in: native
// ints from in-process construction, float64 and json.Number from the
// JSON decoder.
func toMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		ms, err := n.Int64()
		return ms, err == nil
	default:
		return 0, false
	}
}

func toMillisPair(v any) (int64, int64, bool) {
	switch pair := v.(type) {
	case []any:
		if len(pair) != 2 {
			return 0, 0, false
		}
		begin, ok1 := toMillis(pair[0])
		end, ok2 := toMillis(pair[1])

		return begin, end, ok1 && ok2
	case []int64:
		if len(pair) != 2 {
			return 0, 0, false
		}

		return pair[0], pair[1], true
	default:
		return 0, 0, false
	}
}
