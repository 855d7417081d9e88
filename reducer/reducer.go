// Package reducer provides first-class reduction functions over numeric
// field values.
//
// Reducers are plain function values passed explicitly through
// collection statistics, pipeline aggregation and cross-series reduce
// configuration. A reducer receives the valid numeric values extracted
// from a column and reports (0, false) when no value can be produced;
// an empty input is a normal outcome, never an error.
package reducer

import (
	"math"
	"sort"
)

// Func reduces a list of field values to one scalar. The boolean result
// is false when the input holds no usable values.
type Func func(values []float64) (float64, bool)

// Sum adds all values.
func Sum(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	total := 0.0
	for _, v := range values {
		total += v
	}

	return total, true
}

// Min returns the smallest value.
func Min(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	low := values[0]
	for _, v := range values[1:] {
		if v < low {
			low = v
		}
	}

	return low, true
}

// Max returns the largest value.
func Max(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	high := values[0]
	for _, v := range values[1:] {
		if v > high {
			high = v
		}
	}

	return high, true
}

// Avg returns the arithmetic mean.
func Avg(values []float64) (float64, bool) {
	total, ok := Sum(values)
	if !ok {
		return 0, false
	}

	return total / float64(len(values)), true
}

// Mean is an alias for Avg.
func Mean(values []float64) (float64, bool) {
	return Avg(values)
}

// Median returns the 50th percentile with linear interpolation.
func Median(values []float64) (float64, bool) {
	v, err := PercentileOf(values, 50, InterpLinear)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Stdev returns the population standard deviation.
func Stdev(values []float64) (float64, bool) {
	mean, ok := Avg(values)
	if !ok {
		return 0, false
	}

	sumsq := 0.0
	for _, v := range values {
		d := v - mean
		sumsq += d * d
	}

	return math.Sqrt(sumsq / float64(len(values))), true
}

// First returns the earliest value in arrival order.
func First(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	return values[0], true
}

// Last returns the latest value in arrival order.
func Last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	return values[len(values)-1], true
}

// Count returns the number of values. It succeeds on empty input with a
// count of zero.
func Count(values []float64) (float64, bool) {
	return float64(len(values)), true
}

// Percentile builds a reducer for the q-th percentile with the given
// interpolation mode. Configuration errors (q outside [0, 100], unknown
// mode) surface here, before the reducer is ever applied.
func Percentile(q float64, interp Interp) (Func, error) {
	if err := validate(q, interp); err != nil {
		return nil, err
	}

	return func(values []float64) (float64, bool) {
		v, err := PercentileOf(values, q, interp)
		if err != nil {
			return 0, false
		}

		return v, true
	}, nil
}

// sortedCopy returns an ascending copy, leaving the input untouched.
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)

	return out
}
