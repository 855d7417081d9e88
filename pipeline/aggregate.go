package pipeline

import (
	"fmt"
	"sort"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/reducer"
	"github.com/tidemark/tidemark/timerange"
)

// Aggregation names an input column and the reducer applied to it.
type Aggregation struct {
	// Field is the input field path the values are extracted from.
	Field string
	// Fn reduces the extracted values to one scalar.
	Fn reducer.Func
}

// AggregationSpec maps each output field to the input column and reducer
// producing it.
type AggregationSpec map[string]Aggregation

// Aggregate reduces every pending group to exactly one output event
// whose payload holds, for each entry of spec, the reduction of that
// column across the group's events.
//
// Window groups produce an indexed event on the window's bucket; the
// ungrouped "all" batch produces a range event spanning the input.
func (p Pipeline) Aggregate(spec AggregationSpec) Pipeline {
	if len(spec) == 0 {
		return p.fail(fmt.Errorf("%w: empty spec", errs.ErrMissingAggregation))
	}
	for out, agg := range spec {
		if agg.Fn == nil {
			return p.fail(fmt.Errorf("%w: output field %q", errs.ErrMissingReducer, out))
		}
		if agg.Field == "" {
			return p.fail(fmt.Errorf("%w: output field %q has no input column", errs.ErrMissingAggregation, out))
		}
	}

	return p.append(aggregateStage{spec: spec})
}

// AsTimeEvents converts indexed aggregation output into point events at
// each window's begin instant.
func (p Pipeline) AsTimeEvents() Pipeline {
	return p.append(asTimeStage{})
}

type aggregateStage struct {
	spec AggregationSpec
}

func (s aggregateStage) apply(g *groups) (*groups, error) {
	out := newGroups()
	for _, key := range g.keys {
		events := g.events[key]
		if len(events) == 0 {
			continue
		}

		data := make(map[string]any)
		for _, outField := range sortedOutputFields(s.spec) {
			agg := s.spec[outField]
			values := columnValues(events, agg.Field)
			if v, ok := agg.Fn(values); ok {
				data = field.Set(data, outField, v)
			} else {
				data = field.Set(data, outField, nil)
			}
		}

		if idx, windowed := g.index[key]; windowed {
			out.add(key, event.NewIndexed(idx, data))
			out.index[key] = idx
			continue
		}

		r := timerange.New(events[0].Begin(), events[0].End())
		for _, e := range events[1:] {
			r = r.Extend(timerange.New(e.Begin(), e.End()))
		}
		out.add(key, event.NewRange(r, data))
	}

	return out, nil
}

type asTimeStage struct{}

func (asTimeStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		out := make([]event.Event, len(events))
		for i, e := range events {
			out[i] = event.NewPoint(e.Begin(), e.Data())
		}

		return out, nil
	})
}

// columnValues extracts the valid numeric values at path across events,
// in arrival order.
func columnValues(events []event.Event, path string) []float64 {
	values := make([]float64, 0, len(events))
	for _, e := range events {
		if v, ok := event.Value(e, path); ok {
			values = append(values, v)
		}
	}

	return values
}

// sortedOutputFields fixes the payload construction order so aggregation
// output is deterministic.
func sortedOutputFields(spec AggregationSpec) []string {
	fields := make([]string, 0, len(spec))
	for f := range spec {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return fields
}

func sortEventsByTime(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp().Before(events[j].Timestamp())
	})
}
