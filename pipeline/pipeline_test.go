package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/reducer"
)

func ts(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func pointsAt(step int64, values ...any) collection.Collection {
	events := make([]event.Event, len(values))
	for i, v := range values {
		events[i] = event.NewPoint(ts(int64(i)*step), map[string]any{"value": v})
	}
	c, err := collection.New(events...)
	if err != nil {
		panic(err)
	}

	return c
}

func allEvents(t *testing.T, p Pipeline) []event.Event {
	t.Helper()
	keyed, err := p.ToKeyedCollections()
	require.NoError(t, err)
	require.Contains(t, keyed, GroupAll)

	return keyed[GroupAll].Events()
}

func TestChainIsImmutable(t *testing.T) {
	base := From(pointsAt(1000, 1.0, 2.0)).Select("value")
	a := base.Collapse([]string{"value"}, "total", reducer.Sum, false)
	b := base.Map(func(e event.Event) (event.Event, error) { return e, nil })

	require.Len(t, base.stages, 1)
	require.Len(t, a.stages, 2)
	require.Len(t, b.stages, 2)
}

func TestMapSelectCollapse(t *testing.T) {
	src, err := collection.New(
		event.NewPoint(ts(0), map[string]any{"in": 1.0, "out": 2.0, "status": "ok"}),
		event.NewPoint(ts(1000), map[string]any{"in": 3.0, "out": 4.0, "status": "ok"}),
	)
	require.NoError(t, err)

	t.Run("map transforms every event", func(t *testing.T) {
		events := allEvents(t, From(src).Map(func(e event.Event) (event.Event, error) {
			v, _ := event.Value(e, "in")
			return e.Set("in", v*10), nil
		}))
		require.Equal(t, 10.0, events[0].Get("in"))
		require.Equal(t, 30.0, events[1].Get("in"))
	})

	t.Run("map errors become pipeline failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := From(src).Map(func(event.Event) (event.Event, error) {
			return nil, boom
		}).ToKeyedCollections()
		require.ErrorIs(t, err, boom)
	})

	t.Run("select projects columns", func(t *testing.T) {
		events := allEvents(t, From(src).Select("in"))
		require.True(t, events[0].Has("in"))
		require.False(t, events[0].Has("out"))
		require.False(t, events[0].Has("status"))
	})

	t.Run("collapse sums columns per event", func(t *testing.T) {
		events := allEvents(t, From(src).Collapse([]string{"in", "out"}, "total", reducer.Sum, true))
		require.Equal(t, 3.0, events[0].Get("total"))
		require.Equal(t, 7.0, events[1].Get("total"))
		require.Equal(t, 1.0, events[0].Get("in"))
	})
}

func TestFill(t *testing.T) {
	t.Run("zero leaves no invalid value", func(t *testing.T) {
		events := allEvents(t, From(pointsAt(1000, 1.0, nil, nil, 4.0)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: FillZero}))
		require.Equal(t, []any{1.0, 0.0, 0.0, 4.0}, columnOf(events, "value"))
	})

	t.Run("zero with limit one repairs one run member", func(t *testing.T) {
		events := allEvents(t, From(pointsAt(1000, 1.0, nil, nil, nil, 5.0, nil)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: FillZero, Limit: 1}))
		require.Equal(t, []any{1.0, 0.0, nil, nil, 5.0, 0.0}, columnOf(events, "value"))
	})

	t.Run("pad carries last valid forward", func(t *testing.T) {
		events := allEvents(t, From(pointsAt(1000, nil, 2.0, nil, nil)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: FillPad}))
		require.Equal(t, []any{nil, 2.0, 2.0, 2.0}, columnOf(events, "value"))
	})

	t.Run("linear interpolates on the time axis", func(t *testing.T) {
		events := allEvents(t, From(pointsAt(1000, 0.0, nil, nil, 9.0)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: FillLinear}))
		require.Equal(t, []any{0.0, 3.0, 6.0, 9.0}, columnOf(events, "value"))
	})

	t.Run("linear leaves trailing run untouched", func(t *testing.T) {
		events := allEvents(t, From(pointsAt(1000, 1.0, nil)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: FillLinear}))
		require.Equal(t, []any{1.0, nil}, columnOf(events, "value"))
	})

	t.Run("unknown method fails before work", func(t *testing.T) {
		_, err := From(pointsAt(1000, 1.0)).
			Fill(FillOptions{FieldSpec: []string{"value"}, Method: "cubic"}).
			ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrInvalidFillMethod)
	})
}

func TestAlign(t *testing.T) {
	src, err := collection.New(
		event.NewPoint(ts(500), map[string]any{"value": 0.0}),
		event.NewPoint(ts(2500), map[string]any{"value": 2.0}),
	)
	require.NoError(t, err)

	t.Run("linear boundaries", func(t *testing.T) {
		events := allEvents(t, From(src).Align(AlignOptions{
			FieldSpec: []string{"value"}, Period: "1s",
		}))
		require.Len(t, events, 2)
		require.Equal(t, ts(1000), events[0].Timestamp())
		require.Equal(t, ts(2000), events[1].Timestamp())
		require.InDelta(t, 0.5, events[0].Get("value").(float64), 1e-12)
		require.InDelta(t, 1.5, events[1].Get("value").(float64), 1e-12)
	})

	t.Run("pad repeats the earlier value", func(t *testing.T) {
		events := allEvents(t, From(src).Align(AlignOptions{
			FieldSpec: []string{"value"}, Period: "1s", Method: AlignPad,
		}))
		require.Equal(t, 0.0, events[0].Get("value"))
		require.Equal(t, 0.0, events[1].Get("value"))
	})

	t.Run("limit emits nil beyond the cap", func(t *testing.T) {
		events := allEvents(t, From(src).Align(AlignOptions{
			FieldSpec: []string{"value"}, Period: "1s", Limit: 1,
		}))
		require.Len(t, events, 2)
		require.Nil(t, events[0].Get("value"))
		require.Nil(t, events[1].Get("value"))
	})

	t.Run("exact boundary event is used as is", func(t *testing.T) {
		aligned, err := collection.New(
			event.NewPoint(ts(0), map[string]any{"value": 0.0}),
			event.NewPoint(ts(1000), map[string]any{"value": 10.0}),
		)
		require.NoError(t, err)
		events := allEvents(t, From(aligned).Align(AlignOptions{
			FieldSpec: []string{"value"}, Period: "1s",
		}))
		require.Len(t, events, 1)
		require.Equal(t, ts(1000), events[0].Timestamp())
		require.Equal(t, 10.0, events[0].Get("value"))
	})

	t.Run("bad period fails eagerly", func(t *testing.T) {
		_, err := From(src).Align(AlignOptions{
			FieldSpec: []string{"value"}, Period: "1x",
		}).ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrInvalidSpan)
	})
}

func TestRate(t *testing.T) {
	src, err := collection.New(
		event.NewPoint(ts(0), map[string]any{"value": 10.0}),
		event.NewPoint(ts(10_000), map[string]any{"value": 5.0}),
	)
	require.NoError(t, err)

	t.Run("negative rate suppressed by default", func(t *testing.T) {
		events := allEvents(t, From(src).Rate(RateOptions{FieldSpec: []string{"value"}}))
		require.Len(t, events, 1)
		require.Equal(t, format.KindTimeRange, events[0].Kind())
		require.Nil(t, events[0].Get("value_rate"))
	})

	t.Run("negative rate allowed when configured", func(t *testing.T) {
		events := allEvents(t, From(src).Rate(RateOptions{
			FieldSpec: []string{"value"}, AllowNegative: true,
		}))
		require.InDelta(t, -0.5, events[0].Get("value_rate").(float64), 1e-12)
	})

	t.Run("range spans the input pair", func(t *testing.T) {
		events := allEvents(t, From(src).Rate(RateOptions{
			FieldSpec: []string{"value"}, AllowNegative: true,
		}))
		require.Equal(t, ts(0), events[0].Begin())
		require.Equal(t, ts(10_000), events[0].End())
	})
}

func TestWindowAggregate(t *testing.T) {
	t.Run("one utc day window regardless of local offset", func(t *testing.T) {
		loc := time.FixedZone("UTC-8", -8*3600)
		base := time.Date(2014, 9, 1, 1, 0, 0, 0, time.UTC)
		src, err := collection.New(
			event.NewPoint(base.In(loc), map[string]any{"value": 3.0}),
			event.NewPoint(base.Add(12*time.Hour).In(loc), map[string]any{"value": 4.0}),
		)
		require.NoError(t, err)

		keyed, err := From(src).
			WindowBy("1d").
			EmitOn(EmitDiscard).
			Aggregate(AggregationSpec{"value": {Field: "value", Fn: reducer.Sum}}).
			ToKeyedCollections()
		require.NoError(t, err)
		require.Len(t, keyed, 1)

		c, ok := keyed["1d-16314"]
		require.True(t, ok, "both events share the UTC day bucket")
		require.Equal(t, 1, c.Len())
		require.Equal(t, 7.0, c.At(0).Get("value"))
		require.Equal(t, format.KindIndex, c.Kind())
	})

	t.Run("fixed windows split on boundaries", func(t *testing.T) {
		src, err := collection.New(
			event.NewPoint(ts(0), map[string]any{"value": 1.0}),
			event.NewPoint(ts(30_000), map[string]any{"value": 2.0}),
			event.NewPoint(ts(60_000), map[string]any{"value": 4.0}),
		)
		require.NoError(t, err)

		keyed, err := From(src).
			WindowBy("1m").
			Aggregate(AggregationSpec{"total": {Field: "value", Fn: reducer.Sum}}).
			ToKeyedCollections()
		require.NoError(t, err)
		require.Len(t, keyed, 2)

		first := keyed["1m-0"]
		second := keyed["1m-1"]
		require.Equal(t, 3.0, first.At(0).Get("total"))
		require.Equal(t, 4.0, second.At(0).Get("total"))
	})

	t.Run("as time events converts output", func(t *testing.T) {
		src := pointsAt(30_000, 1.0, 2.0)
		events, err := From(src).
			WindowBy("1m").
			Aggregate(AggregationSpec{"avg": {Field: "value", Fn: reducer.Avg}}).
			AsTimeEvents().
			Events()
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, format.KindTime, events[0].Kind())
		require.Equal(t, ts(0), events[0].Timestamp())
		require.Equal(t, 1.5, events[0].Get("avg"))
	})

	t.Run("calendar windows honor the configured location", func(t *testing.T) {
		loc := time.FixedZone("UTC+12", 12*3600)
		late := time.Date(2015, 6, 20, 23, 0, 0, 0, time.UTC)
		src, err := collection.New(event.NewPoint(late, map[string]any{"value": 1.0}))
		require.NoError(t, err)

		keyed, err := From(src).
			WindowByIn(WindowDaily, loc).
			Aggregate(AggregationSpec{"value": {Field: "value", Fn: reducer.Sum}}).
			ToKeyedCollections()
		require.NoError(t, err)
		_, ok := keyed["2015-06-21"]
		require.True(t, ok, "23:00 UTC is already the 21st at UTC+12")
	})

	t.Run("aggregate without window spans the input", func(t *testing.T) {
		src := pointsAt(1000, 1.0, 2.0, 3.0)
		keyed, err := From(src).
			Aggregate(AggregationSpec{"max": {Field: "value", Fn: reducer.Max}}).
			ToKeyedCollections()
		require.NoError(t, err)

		c := keyed[GroupAll]
		require.Equal(t, 1, c.Len())
		require.Equal(t, format.KindTimeRange, c.Kind())
		require.Equal(t, 3.0, c.At(0).Get("max"))
		require.Equal(t, ts(0), c.At(0).Begin())
		require.Equal(t, ts(2000), c.At(0).End())
	})

	t.Run("configuration errors are eager", func(t *testing.T) {
		src := pointsAt(1000, 1.0)

		_, err := From(src).WindowBy("").ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrMissingWindow)

		_, err = From(src).Aggregate(AggregationSpec{}).ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrMissingAggregation)

		_, err = From(src).Aggregate(AggregationSpec{"v": {Field: "value"}}).ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrMissingReducer)

		_, err = From(src).EmitOn("streaming").ToKeyedCollections()
		require.ErrorIs(t, err, errs.ErrInvalidEmitPolicy)
	})
}

func columnOf(events []event.Event, path string) []any {
	out := make([]any, len(events))
	for i, e := range events {
		out[i] = e.Get(path)
	}

	return out
}
