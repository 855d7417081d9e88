// Package tidemark provides an embeddable engine for transforming,
// aggregating and exchanging in-memory time series.
//
// A series is a named, chronological collection of events in one of
// three kinds: instant-keyed points, interval-keyed ranges and
// bucket-indexed events. Transformations never mutate their input;
// every operation returns a new value sharing untouched substructure,
// so series can be read concurrently without coordination.
//
// # Basic Usage
//
// Building a series and rolling it up by day:
//
//	import "github.com/tidemark/tidemark"
//
//	ts, _ := tidemark.NewSeries("cpu", true,
//	    tidemark.Point(time.Now(), map[string]any{"value": 0.42}),
//	)
//	daily, _ := ts.DailyRollup(pipeline.AggregationSpec{
//	    "value": {Field: "value", Fn: reducer.Avg},
//	})
//
// Exchanging a series in the binary format:
//
//	buf, _ := tidemark.Encode(ts)
//	back, _ := tidemark.Decode(buf)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// series, pipeline and codec packages, covering the most common use
// cases. For fine-grained control, use those packages directly:
//
//   - series: TimeSeries construction, rollups, cross-series combination
//   - pipeline: chainable transform stages (fill, align, rate, window)
//   - collection: ordered event storage, search and statistics
//   - codec: the binary interchange format
//   - bucket: span and index grammar for time buckets
package tidemark

import (
	"time"

	"github.com/tidemark/tidemark/codec"
	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/pipeline"
	"github.com/tidemark/tidemark/series"
	"github.com/tidemark/tidemark/timerange"
)

// Point creates an instant-keyed event.
func Point(t time.Time, data map[string]any) event.Event {
	return event.NewPoint(t, data)
}

// Range creates an interval-keyed event over [begin, end].
func Range(begin, end time.Time, data map[string]any) event.Event {
	return event.NewRange(timerange.New(begin, end), data)
}

// NewSeries builds a series from events already in chronological
// order. utc controls whether calendar rollups use UTC or local day
// boundaries.
func NewSeries(name string, utc bool, events ...event.Event) (series.TimeSeries, error) {
	return series.FromEvents(series.Meta{Name: name, UTC: utc}, events...)
}

// NewCollection builds a collection from events already in
// chronological order.
func NewCollection(events ...event.Event) (collection.Collection, error) {
	return collection.New(events...)
}

// Transform starts a pipeline over a series' collection.
func Transform(ts series.TimeSeries) pipeline.Pipeline {
	return pipeline.From(ts.Collection())
}

// FromJSON parses the tabular JSON wire form of a series.
func FromJSON(data []byte) (series.TimeSeries, error) {
	return series.FromJSON(data)
}

// Encode serializes a series into the binary interchange format.
func Encode(ts series.TimeSeries, opts ...codec.Option) ([]byte, error) {
	return codec.Encode(ts, opts...)
}

// Decode deserializes a buffer produced by Encode.
func Decode(data []byte) (series.TimeSeries, error) {
	return codec.Decode(data)
}

// DecodeAll decodes a set of encoded buffers, ordered by range begin.
func DecodeAll(buffers [][]byte) ([]series.TimeSeries, error) {
	return codec.DecodeAll(buffers)
}
