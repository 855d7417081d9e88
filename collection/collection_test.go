package collection

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/reducer"
	"github.com/tidemark/tidemark/timerange"
)

func ts(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func points(values ...float64) []event.Event {
	events := make([]event.Event, len(values))
	for i, v := range values {
		events[i] = event.NewPoint(ts(int64(i+1)*100), map[string]any{"value": v})
	}

	return events
}

func TestNew(t *testing.T) {
	t.Run("chronological input", func(t *testing.T) {
		c, err := New(points(1, 2, 3)...)
		require.NoError(t, err)
		require.Equal(t, 3, c.Len())
		require.Equal(t, format.KindTime, c.Kind())
		require.True(t, c.IsChronological())
	})

	t.Run("rejects out of order input", func(t *testing.T) {
		_, err := New(
			event.NewPoint(ts(200), nil),
			event.NewPoint(ts(100), nil),
		)
		require.ErrorIs(t, err, errs.ErrNonChronological)
	})

	t.Run("rejects mixed kinds", func(t *testing.T) {
		_, err := New(
			event.NewPoint(ts(100), nil),
			event.NewRange(timerange.FromMillis(200, 300), nil),
		)
		require.ErrorIs(t, err, errs.ErrMixedKinds)
	})

	t.Run("empty is fine", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		require.Zero(t, c.Len())
		_, ok := c.AtFirst()
		require.False(t, ok)
	})

	t.Run("sorted construction is explicit", func(t *testing.T) {
		c, err := NewSorted(
			event.NewPoint(ts(300), map[string]any{"value": 3.0}),
			event.NewPoint(ts(100), map[string]any{"value": 1.0}),
		)
		require.NoError(t, err)
		require.True(t, c.IsChronological())
		first, _ := c.AtFirst()
		require.Equal(t, 1.0, first.Get("value"))
	})
}

func TestBisect(t *testing.T) {
	c, err := New(
		event.NewPoint(ts(100), nil),
		event.NewPoint(ts(200), nil),
		event.NewPoint(ts(300), nil),
	)
	require.NoError(t, err)

	tests := []struct {
		at   int64
		want int
	}{
		{150, 0},
		{200, 1}, // exact match returns that index
		{50, 0},  // clamped low
		{400, 2}, // clamped high
		{300, 2},
		{100, 0},
	}
	for _, tt := range tests {
		got, ok := c.Bisect(ts(tt.at))
		require.True(t, ok)
		require.Equal(t, tt.want, got, "bisect(%d)", tt.at)
	}

	t.Run("hint amortizes forward scans", func(t *testing.T) {
		got, ok := c.Bisect(ts(300), 1)
		require.True(t, ok)
		require.Equal(t, 2, got)
	})

	t.Run("hint past the answer walks back", func(t *testing.T) {
		got, ok := c.Bisect(ts(150), 2)
		require.True(t, ok)
		require.Equal(t, 0, got)
	})

	t.Run("empty collection", func(t *testing.T) {
		empty := Collection{}
		_, ok := empty.Bisect(ts(100))
		require.False(t, ok)
	})
}

func TestSliceAndCrop(t *testing.T) {
	c, err := New(points(1, 2, 3, 4, 5)...) // at 100..500
	require.NoError(t, err)

	t.Run("slice is half open", func(t *testing.T) {
		s := c.Slice(1, 3)
		require.Equal(t, 2, s.Len())
		require.Equal(t, 2.0, s.At(0).Get("value"))
		require.Equal(t, 3.0, s.At(1).Get("value"))
	})

	t.Run("slice clamps bounds", func(t *testing.T) {
		require.Equal(t, 5, c.Slice(-3, 99).Len())
		require.Zero(t, c.Slice(4, 2).Len())
	})

	t.Run("crop keeps in-range events", func(t *testing.T) {
		got := c.Crop(timerange.FromMillis(200, 400))
		require.Equal(t, 3, got.Len())
		require.Equal(t, 2.0, got.At(0).Get("value"))
		require.Equal(t, 4.0, got.At(2).Get("value"))
	})

	t.Run("crop beyond either side", func(t *testing.T) {
		require.Zero(t, c.Crop(timerange.FromMillis(600, 900)).Len())
		require.Zero(t, c.Crop(timerange.FromMillis(0, 50)).Len())
		require.Equal(t, 5, c.Crop(timerange.FromMillis(0, 900)).Len())
	})
}

func TestCleanAndFilter(t *testing.T) {
	c, err := New(
		event.NewPoint(ts(100), map[string]any{"value": 1.0}),
		event.NewPoint(ts(200), map[string]any{"value": nil}),
		event.NewPoint(ts(300), map[string]any{"value": math.NaN()}),
		event.NewPoint(ts(400), map[string]any{"other": 9.0}),
		event.NewPoint(ts(500), map[string]any{"value": 5.0}),
	)
	require.NoError(t, err)

	cleaned := c.Clean("value")
	require.Equal(t, 2, cleaned.Len())
	require.Equal(t, 1.0, cleaned.At(0).Get("value"))
	require.Equal(t, 5.0, cleaned.At(1).Get("value"))

	odd := c.Filter(func(e event.Event) bool {
		v, ok := event.Value(e, "value")
		return ok && v > 1
	})
	require.Equal(t, 1, odd.Len())
}

func TestRange(t *testing.T) {
	c, err := New(
		event.NewRange(timerange.FromMillis(100, 250), nil),
		event.NewRange(timerange.FromMillis(200, 600), nil),
	)
	require.NoError(t, err)

	r, ok := c.Range()
	require.True(t, ok)
	require.True(t, r.Equal(timerange.FromMillis(100, 600)))

	_, ok = Collection{}.Range()
	require.False(t, ok)
}

func TestStats(t *testing.T) {
	c, err := New(
		event.NewPoint(ts(100), map[string]any{"in": 1.0, "out": 4.0}),
		event.NewPoint(ts(200), map[string]any{"in": 2.0, "out": nil}),
		event.NewPoint(ts(300), map[string]any{"in": 3.0}),
		event.NewPoint(ts(400), map[string]any{"in": 4.0, "out": 8.0}),
		event.NewPoint(ts(500), map[string]any{"in": 5.0, "out": math.NaN()}),
	)
	require.NoError(t, err)

	t.Run("aggregates skip invalid values", func(t *testing.T) {
		sum, ok := c.Sum("in")
		require.True(t, ok)
		require.Equal(t, 15.0, sum)

		outSum, ok := c.Sum("out")
		require.True(t, ok)
		require.Equal(t, 12.0, outSum)

		avg, ok := c.Avg("in")
		require.True(t, ok)
		require.Equal(t, 3.0, avg)

		med, ok := c.Median("in")
		require.True(t, ok)
		require.Equal(t, 3.0, med)

		lo, _ := c.Min("in")
		hi, _ := c.Max("in")
		require.Equal(t, 1.0, lo)
		require.Equal(t, 5.0, hi)

		sd, ok := c.Stdev("in")
		require.True(t, ok)
		require.InDelta(t, math.Sqrt(2), sd, 1e-12)

		require.Equal(t, 5, c.Count("in"))
		require.Equal(t, 2, c.Count("out"))

		first, ok := c.First("out")
		require.True(t, ok)
		require.Equal(t, 4.0, first)

		last, ok := c.Last("out")
		require.True(t, ok)
		require.Equal(t, 8.0, last)
	})

	t.Run("no valid values yields no result", func(t *testing.T) {
		_, ok := c.Sum("missing")
		require.False(t, ok)
	})

	t.Run("filter narrows values before reduction", func(t *testing.T) {
		over2 := func(values []float64) []float64 {
			out := values[:0]
			for _, v := range values {
				if v > 2 {
					out = append(out, v)
				}
			}
			return out
		}
		sum, ok := c.Sum("in", over2)
		require.True(t, ok)
		require.Equal(t, 12.0, sum)
	})

	t.Run("percentile and quantile", func(t *testing.T) {
		p, ok, err := c.Percentile(50, "in", reducer.InterpLinear)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 3.0, p)

		_, _, err = c.Percentile(150, "in", reducer.InterpLinear)
		require.ErrorIs(t, err, errs.ErrInvalidPercentile)

		_, ok, err = c.Percentile(50, "missing", reducer.InterpLinear)
		require.NoError(t, err)
		require.False(t, ok)

		cuts, err := c.Quantile(4, "in", reducer.InterpLinear)
		require.NoError(t, err)
		require.Equal(t, []float64{2, 3, 4}, cuts)

		empty, err := c.Quantile(4, "missing", reducer.InterpLinear)
		require.NoError(t, err)
		require.Nil(t, empty)
	})

	t.Run("custom reducer", func(t *testing.T) {
		spread := func(values []float64) (float64, bool) {
			hi, ok := reducer.Max(values)
			if !ok {
				return 0, false
			}
			lo, _ := reducer.Min(values)
			return hi - lo, true
		}
		got, ok := c.Aggregate(spread, "in")
		require.True(t, ok)
		require.Equal(t, 4.0, got)
	})
}
