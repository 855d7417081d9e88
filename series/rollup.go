package series

import (
	"time"

	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/internal/options"
	"github.com/tidemark/tidemark/pipeline"
)

type rollupConfig struct {
	asPoints bool
}

// RollupOption adjusts how rollup output is shaped.
type RollupOption = options.Option[*rollupConfig]

// AsPointEvents makes a rollup emit point events at each window's
// begin instant instead of indexed events.
func AsPointEvents() RollupOption {
	return options.NoError(func(cfg *rollupConfig) {
		cfg.asPoints = true
	})
}

// FixedWindowRollup buckets the series into fixed UTC-aligned windows
// of the given span ("30s", "5m", "1h", "1d") and reduces each window
// per spec. The result carries one event per non-empty window, in
// chronological order, under the receiver's metadata.
func (ts TimeSeries) FixedWindowRollup(span string, spec pipeline.AggregationSpec, opts ...RollupOption) (TimeSeries, error) {
	return ts.rollup(pipeline.From(ts.c).WindowBy(span), spec, opts)
}

// HourlyRollup is FixedWindowRollup with a one hour span.
func (ts TimeSeries) HourlyRollup(spec pipeline.AggregationSpec, opts ...RollupOption) (TimeSeries, error) {
	return ts.FixedWindowRollup("1h", spec, opts...)
}

// DailyRollup buckets by calendar day. The series' UTC flag decides
// whether day boundaries follow UTC or the local timezone.
func (ts TimeSeries) DailyRollup(spec pipeline.AggregationSpec, opts ...RollupOption) (TimeSeries, error) {
	return ts.calendarRollup(pipeline.WindowDaily, spec, opts)
}

// MonthlyRollup buckets by calendar month, honoring the UTC flag.
func (ts TimeSeries) MonthlyRollup(spec pipeline.AggregationSpec, opts ...RollupOption) (TimeSeries, error) {
	return ts.calendarRollup(pipeline.WindowMonthly, spec, opts)
}

// YearlyRollup buckets by calendar year, honoring the UTC flag.
func (ts TimeSeries) YearlyRollup(spec pipeline.AggregationSpec, opts ...RollupOption) (TimeSeries, error) {
	return ts.calendarRollup(pipeline.WindowYearly, spec, opts)
}

func (ts TimeSeries) calendarRollup(unit string, spec pipeline.AggregationSpec, opts []RollupOption) (TimeSeries, error) {
	loc := time.UTC
	if !ts.meta.UTC {
		loc = time.Local
	}

	return ts.rollup(pipeline.From(ts.c).WindowByIn(unit, loc), spec, opts)
}

func (ts TimeSeries) rollup(p pipeline.Pipeline, spec pipeline.AggregationSpec, opts []RollupOption) (TimeSeries, error) {
	cfg := &rollupConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return TimeSeries{}, err
	}

	p = p.EmitOn(pipeline.EmitDiscard).Aggregate(spec)
	if cfg.asPoints {
		p = p.AsTimeEvents()
	}

	events, err := p.Events()
	if err != nil {
		return TimeSeries{}, err
	}

	c, err := collection.New(events...)
	if err != nil {
		return TimeSeries{}, err
	}

	return TimeSeries{c: c, meta: ts.meta}, nil
}
