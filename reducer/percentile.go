package reducer

import (
	"fmt"
	"math"

	"github.com/tidemark/tidemark/errs"
)

// Interp selects how a percentile lying between two order statistics is
// resolved.
type Interp string

const (
	// InterpLinear interpolates proportionally between the bracketing
	// values.
	InterpLinear Interp = "linear"
	// InterpLower takes the lower bracketing value.
	InterpLower Interp = "lower"
	// InterpHigher takes the higher bracketing value.
	InterpHigher Interp = "higher"
	// InterpNearest takes whichever bracketing value is closest.
	InterpNearest Interp = "nearest"
	// InterpMidpoint averages the bracketing values.
	InterpMidpoint Interp = "midpoint"
)

func validate(q float64, interp Interp) error {
	if q < 0 || q > 100 || math.IsNaN(q) {
		return fmt.Errorf("%w: q=%v", errs.ErrInvalidPercentile, q)
	}
	switch interp {
	case InterpLinear, InterpLower, InterpHigher, InterpNearest, InterpMidpoint:
		return nil
	default:
		return fmt.Errorf("%w: %q", errs.ErrInvalidInterp, interp)
	}
}

// PercentileOf computes the q-th percentile (q in [0, 100]) of values
// using the given interpolation mode. The input is not modified. An
// empty input or invalid configuration returns an error.
func PercentileOf(values []float64, q float64, interp Interp) (float64, error) {
	if err := validate(q, interp); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no values", errs.ErrInvalidPercentile)
	}

	sorted := sortedCopy(values)
	if len(sorted) == 1 {
		return sorted[0], nil
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}

	frac := rank - float64(lo)
	switch interp {
	case InterpLower:
		return sorted[lo], nil
	case InterpHigher:
		return sorted[hi], nil
	case InterpNearest:
		if frac < 0.5 {
			return sorted[lo], nil
		}
		return sorted[hi], nil
	case InterpMidpoint:
		return (sorted[lo] + sorted[hi]) / 2, nil
	default: // InterpLinear
		return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
	}
}

// Quantiles returns the n-1 interior cut points of an n-way split,
// computed as percentiles at 100*i/n for i in 1..n-1.
func Quantiles(values []float64, n int, interp Interp) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: quantile split n=%d", errs.ErrInvalidPercentile, n)
	}

	cuts := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		v, err := PercentileOf(values, 100*float64(i)/float64(n), interp)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, v)
	}

	return cuts, nil
}
