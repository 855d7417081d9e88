// Package series provides TimeSeries, the named wrapper around one
// chronological collection, plus its tabular wire form, rollups and
// cross-series combination.
//
// A TimeSeries is an immutable value. Every mutator returns a new
// TimeSeries sharing the untouched parts with its receiver; the
// underlying collection is chronological at every construction exit
// point.
package series

import (
	"sort"
	"time"

	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/reducer"
	"github.com/tidemark/tidemark/timerange"
)

// Meta carries the series metadata. Index is the optional bucket index
// string this series was rolled up on, empty otherwise.
type Meta struct {
	Name  string
	UTC   bool
	Index string
}

// TimeSeries couples one chronological collection with its metadata.
type TimeSeries struct {
	c    collection.Collection
	meta Meta
}

// New wraps an already validated collection.
func New(c collection.Collection, meta Meta) TimeSeries {
	return TimeSeries{c: c, meta: meta}
}

// FromEvents builds a series from events in chronological order. It
// fails like collection.New on out-of-order or mixed-kind input.
func FromEvents(meta Meta, events ...event.Event) (TimeSeries, error) {
	c, err := collection.New(events...)
	if err != nil {
		return TimeSeries{}, err
	}

	return TimeSeries{c: c, meta: meta}, nil
}

// Collection returns the underlying collection.
func (ts TimeSeries) Collection() collection.Collection { return ts.c }

// Meta returns the series metadata.
func (ts TimeSeries) Meta() Meta { return ts.meta }

// Name returns the series name.
func (ts TimeSeries) Name() string { return ts.meta.Name }

// UTC reports whether calendar operations on this series use UTC.
func (ts TimeSeries) UTC() bool { return ts.meta.UTC }

// SetMeta returns a copy of the series with new metadata.
func (ts TimeSeries) SetMeta(meta Meta) TimeSeries {
	return TimeSeries{c: ts.c, meta: meta}
}

// SetName returns a copy of the series with a new name.
func (ts TimeSeries) SetName(name string) TimeSeries {
	meta := ts.meta
	meta.Name = name

	return TimeSeries{c: ts.c, meta: meta}
}

// SetCollection returns a copy of the series wrapping a different
// collection.
func (ts TimeSeries) SetCollection(c collection.Collection) TimeSeries {
	return TimeSeries{c: c, meta: ts.meta}
}

// Kind returns the event kind, or 0 for an empty series.
func (ts TimeSeries) Kind() format.Kind { return ts.c.Kind() }

// Len returns the number of events.
func (ts TimeSeries) Len() int { return ts.c.Len() }

// At returns the i-th event.
func (ts TimeSeries) At(i int) event.Event { return ts.c.At(i) }

// Bisect delegates to the collection's positional search.
func (ts TimeSeries) Bisect(t time.Time, startHint ...int) (int, bool) {
	return ts.c.Bisect(t, startHint...)
}

// Crop returns a copy of the series restricted to the time range.
func (ts TimeSeries) Crop(tr timerange.TimeRange) TimeSeries {
	return ts.SetCollection(ts.c.Crop(tr))
}

// Slice returns a copy of the series over the half-open event index
// range [i, j).
func (ts TimeSeries) Slice(i, j int) TimeSeries {
	return ts.SetCollection(ts.c.Slice(i, j))
}

// Clean returns a copy of the series without events that carry an
// invalid value at any of the given paths.
func (ts TimeSeries) Clean(paths ...string) TimeSeries {
	return ts.SetCollection(ts.c.Clean(paths...))
}

// Range returns the extended time range covered by the series.
func (ts TimeSeries) Range() (timerange.TimeRange, bool) { return ts.c.Range() }

// Sum reduces the values at path. See collection.Collection.Sum.
func (ts TimeSeries) Sum(path string, filters ...collection.FilterFunc) (float64, bool) {
	return ts.c.Sum(path, filters...)
}

// Avg reduces the values at path. See collection.Collection.Avg.
func (ts TimeSeries) Avg(path string, filters ...collection.FilterFunc) (float64, bool) {
	return ts.c.Avg(path, filters...)
}

// Min reduces the values at path. See collection.Collection.Min.
func (ts TimeSeries) Min(path string, filters ...collection.FilterFunc) (float64, bool) {
	return ts.c.Min(path, filters...)
}

// Max reduces the values at path. See collection.Collection.Max.
func (ts TimeSeries) Max(path string, filters ...collection.FilterFunc) (float64, bool) {
	return ts.c.Max(path, filters...)
}

// Percentile computes the q-th percentile of the values at path.
func (ts TimeSeries) Percentile(q float64, path string, interp reducer.Interp, filters ...collection.FilterFunc) (float64, bool, error) {
	return ts.c.Percentile(q, path, interp, filters...)
}

// Aggregate reduces the values at path with an arbitrary reducer.
func (ts TimeSeries) Aggregate(fn reducer.Func, path string, filters ...collection.FilterFunc) (float64, bool) {
	return ts.c.Aggregate(fn, path, filters...)
}

// Columns returns the series' declared column set: the kind's key
// column followed by the union of top-level data keys in sorted order,
// so the wire forms derived from it are reproducible. Empty for an
// empty series.
func (ts TimeSeries) Columns() []string {
	if ts.c.Len() == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var dataCols []string
	for _, e := range ts.c.Events() {
		for k := range e.Data() {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				dataCols = append(dataCols, k)
			}
		}
	}
	sort.Strings(dataCols)

	return append([]string{ts.c.Kind().String()}, dataCols...)
}

// Equal reports whether two series carry the same metadata and
// event-wise equal collections.
func Equal(a, b TimeSeries) bool {
	if a.meta != b.meta || a.c.Len() != b.c.Len() {
		return false
	}
	for i := 0; i < a.c.Len(); i++ {
		if !event.Equal(a.c.At(i), b.c.At(i)) {
			return false
		}
	}

	return true
}
