package collection

import (
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/reducer"
)

// FilterFunc narrows the valid numeric values of a column before a
// reducer is applied, e.g. to drop outliers.
type FilterFunc func(values []float64) []float64

// FieldValues extracts the valid numeric values at path in event order,
// applying the optional filters in sequence.
func (c Collection) FieldValues(path string, filters ...FilterFunc) []float64 {
	values := make([]float64, 0, len(c.events))
	for _, e := range c.events {
		if v, ok := event.Value(e, path); ok {
			values = append(values, v)
		}
	}
	for _, f := range filters {
		values = f(values)
	}

	return values
}

// Aggregate applies fn to the valid numeric values at path. The boolean
// result is false when no value can be produced; an empty or
// invalid-only column is a normal outcome, not an error.
func (c Collection) Aggregate(fn reducer.Func, path string, filters ...FilterFunc) (float64, bool) {
	return fn(c.FieldValues(path, filters...))
}

// Sum returns the sum of the valid values at path.
func (c Collection) Sum(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Sum, path, filters...)
}

// Min returns the smallest valid value at path.
func (c Collection) Min(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Min, path, filters...)
}

// Max returns the largest valid value at path.
func (c Collection) Max(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Max, path, filters...)
}

// Avg returns the arithmetic mean of the valid values at path.
func (c Collection) Avg(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Avg, path, filters...)
}

// Mean is an alias for Avg.
func (c Collection) Mean(path string, filters ...FilterFunc) (float64, bool) {
	return c.Avg(path, filters...)
}

// Median returns the 50th percentile of the valid values at path.
func (c Collection) Median(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Median, path, filters...)
}

// Stdev returns the population standard deviation at path.
func (c Collection) Stdev(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Stdev, path, filters...)
}

// Count returns the number of valid values at path.
func (c Collection) Count(path string) int {
	return len(c.FieldValues(path))
}

// First returns the earliest valid value at path.
func (c Collection) First(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.First, path, filters...)
}

// Last returns the latest valid value at path.
func (c Collection) Last(path string, filters ...FilterFunc) (float64, bool) {
	return c.Aggregate(reducer.Last, path, filters...)
}

// Percentile returns the q-th percentile (q in [0, 100]) of the valid
// values at path. Configuration errors (q out of range, unknown interp)
// return an error; an empty column returns ok=false with a nil error.
func (c Collection) Percentile(q float64, path string, interp reducer.Interp, filters ...FilterFunc) (float64, bool, error) {
	fn, err := reducer.Percentile(q, interp)
	if err != nil {
		return 0, false, err
	}

	v, ok := c.Aggregate(fn, path, filters...)

	return v, ok, nil
}

// Quantile returns the n-1 interior cut points of an n-way split of the
// valid values at path, via repeated percentiles at 100*i/n.
func (c Collection) Quantile(n int, path string, interp reducer.Interp) ([]float64, error) {
	values := c.FieldValues(path)
	if len(values) == 0 {
		return nil, nil
	}

	return reducer.Quantiles(values, n, interp)
}
