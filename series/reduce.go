package series

import (
	"fmt"

	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
)

// ReduceSeries combines multiple series into one by grouping events
// that share the same key across the inputs and reducing each group's
// values per field path. The gathered events carry no cross-series
// ordering guarantee, so the result is re-sorted to chronological
// order; the first input's metadata is kept.
func ReduceSeries(list []TimeSeries, paths []string, fn reducer.Func) (TimeSeries, error) {
	if len(list) == 0 {
		return TimeSeries{}, errs.ErrEmptySeriesList
	}
	if fn == nil {
		return TimeSeries{}, fmt.Errorf("%w: series reduce", errs.ErrMissingReducer)
	}
	if len(paths) == 0 {
		return TimeSeries{}, fmt.Errorf("%w: series reduce needs a field spec", errs.ErrMissingAggregation)
	}

	keys, grouped := gatherByKey(list)

	out := make([]event.Event, 0, len(keys))
	for _, key := range keys {
		group := grouped[key]
		data := make(map[string]any, len(paths))
		for _, path := range paths {
			values := make([]float64, 0, len(group))
			for _, e := range group {
				if v, ok := event.Value(e, path); ok {
					values = append(values, v)
				}
			}
			if v, ok := fn(values); ok {
				data = field.Set(data, path, v)
			} else {
				data = field.Set(data, path, nil)
			}
		}
		out = append(out, group[0].SetData(data))
	}

	return wrapSorted(out, list[0].meta)
}

// MergeSeries combines multiple series into one by unioning, per
// shared key, the top-level columns of every matching event. The first
// non-nil value seen for a column wins, in input order. Like
// ReduceSeries, the result is re-sorted to chronological order and
// keeps the first input's metadata.
func MergeSeries(list []TimeSeries) (TimeSeries, error) {
	if len(list) == 0 {
		return TimeSeries{}, errs.ErrEmptySeriesList
	}

	keys, grouped := gatherByKey(list)

	out := make([]event.Event, 0, len(keys))
	for _, key := range keys {
		group := grouped[key]
		merged := make(map[string]any)
		for _, e := range group {
			for k, v := range e.Data() {
				if existing, ok := merged[k]; !ok || existing == nil {
					merged[k] = v
				}
			}
		}
		out = append(out, group[0].SetData(merged))
	}

	return wrapSorted(out, list[0].meta)
}

// gatherByKey flattens every input series and groups events by their
// key, remembering first-seen key order.
func gatherByKey(list []TimeSeries) ([]string, map[string][]event.Event) {
	var keys []string
	grouped := make(map[string][]event.Event)
	for _, ts := range list {
		for _, e := range ts.c.Events() {
			key := e.Key()
			if _, seen := grouped[key]; !seen {
				keys = append(keys, key)
			}
			grouped[key] = append(grouped[key], e)
		}
	}

	return keys, grouped
}

func wrapSorted(events []event.Event, meta Meta) (TimeSeries, error) {
	c, err := collection.NewSorted(events...)
	if err != nil {
		return TimeSeries{}, err
	}

	return TimeSeries{c: c, meta: meta}, nil
}
