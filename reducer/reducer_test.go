package reducer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidemark/tidemark/errs"
)

func TestBasicReducers(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		fn   Func
		want float64
	}{
		{"sum", Sum, 15},
		{"min", Min, 1},
		{"max", Max, 5},
		{"avg", Avg, 3},
		{"mean", Mean, 3},
		{"median", Median, 3},
		{"first", First, 1},
		{"last", Last, 5},
		{"count", Count, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(values)
			require.True(t, ok)
			require.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestReducersOnEmptyInput(t *testing.T) {
	for _, fn := range []Func{Sum, Min, Max, Avg, Median, Stdev, First, Last} {
		_, ok := fn(nil)
		require.False(t, ok)
	}

	// Count is the one reducer defined on empty input.
	n, ok := Count(nil)
	require.True(t, ok)
	require.Zero(t, n)
}

func TestStdev(t *testing.T) {
	got, ok := Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	require.InDelta(t, 2.0, got, 1e-12)
}

func TestPercentileOf(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	t.Run("interpolation modes", func(t *testing.T) {
		tests := []struct {
			interp Interp
			q      float64
			want   float64
		}{
			{InterpLinear, 30, 23.0},
			{InterpLower, 30, 20},
			{InterpHigher, 30, 35},
			{InterpNearest, 30, 20},
			{InterpMidpoint, 30, 27.5},
			{InterpLinear, 0, 15},
			{InterpLinear, 100, 50},
		}
		for _, tt := range tests {
			got, err := PercentileOf(values, tt.q, tt.interp)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-12, "q=%v interp=%s", tt.q, tt.interp)
		}
	})

	t.Run("input is not reordered", func(t *testing.T) {
		in := []float64{3, 1, 2}
		_, err := PercentileOf(in, 50, InterpLinear)
		require.NoError(t, err)
		require.Equal(t, []float64{3, 1, 2}, in)
	})

	t.Run("configuration errors", func(t *testing.T) {
		_, err := PercentileOf(values, -1, InterpLinear)
		require.ErrorIs(t, err, errs.ErrInvalidPercentile)

		_, err = PercentileOf(values, 101, InterpLinear)
		require.ErrorIs(t, err, errs.ErrInvalidPercentile)

		_, err = PercentileOf(values, 50, "cubic")
		require.ErrorIs(t, err, errs.ErrInvalidInterp)

		_, err = Percentile(50, "cubic")
		require.ErrorIs(t, err, errs.ErrInvalidInterp)

		_, err = PercentileOf(nil, 50, InterpLinear)
		require.Error(t, err)
	})
}

func TestPercentileReducer(t *testing.T) {
	p90, err := Percentile(90, InterpLinear)
	require.NoError(t, err)

	got, ok := p90([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.True(t, ok)
	require.InDelta(t, 9.1, got, 1e-12)

	_, ok = p90(nil)
	require.False(t, ok)
}

func TestQuantiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	cuts, err := Quantiles(values, 4, InterpLinear)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 3, 4}, cuts)

	_, err = Quantiles(values, 1, InterpLinear)
	require.ErrorIs(t, err, errs.ErrInvalidPercentile)
}
