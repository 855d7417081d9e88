// Package bucket maps instants onto canonical fixed-size or calendar
// windows.
//
// A Span is a parsed window size such as "30s", "5m", "1h" or "1d". The
// position of an instant within a span is floor(epoch_ms / span_ms),
// computed in UTC regardless of the instant's location. Day-sized
// buckets are therefore UTC-midnight aligned; this is a deliberate
// policy so that bucket keys are identical no matter where they are
// produced.
package bucket

import (
	"fmt"
	"time"

	"github.com/tidemark/tidemark/errs"
)

// unitSeconds is the process-wide unit table for the span grammar.
var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
}

// Span is a parsed fixed window size.
type Span struct {
	spec  string
	count int64
	unit  byte
}

// ParseSpan parses a window size matching /^[0-9]+[smhd]$/ with a
// positive count. It fails with errs.ErrInvalidSpan otherwise.
func ParseSpan(spec string) (Span, error) {
	if len(spec) < 2 {
		return Span{}, fmt.Errorf("%w: %q", errs.ErrInvalidSpan, spec)
	}

	unit := spec[len(spec)-1]
	if _, ok := unitSeconds[unit]; !ok {
		return Span{}, fmt.Errorf("%w: %q has unknown unit %q", errs.ErrInvalidSpan, spec, string(unit))
	}

	var count int64
	for i := 0; i < len(spec)-1; i++ {
		c := spec[i]
		if c < '0' || c > '9' {
			return Span{}, fmt.Errorf("%w: %q", errs.ErrInvalidSpan, spec)
		}
		count = count*10 + int64(c-'0')
	}
	if count == 0 {
		return Span{}, fmt.Errorf("%w: %q has zero length", errs.ErrInvalidSpan, spec)
	}

	return Span{spec: spec, count: count, unit: unit}, nil
}

// MustParseSpan is ParseSpan for known-good literals; it panics on error.
func MustParseSpan(spec string) Span {
	s, err := ParseSpan(spec)
	if err != nil {
		panic(err)
	}

	return s
}

// String returns the original size specifier.
func (s Span) String() string { return s.spec }

// Duration returns the span length.
func (s Span) Duration() time.Duration {
	return time.Duration(s.count*unitSeconds[s.unit]) * time.Second
}

// Millis returns the span length in milliseconds.
func (s Span) Millis() int64 {
	return s.count * unitSeconds[s.unit] * 1000
}

// Position returns the bucket position covering t: floor(epoch_ms /
// span_ms). Floored division keeps pre-epoch instants in the bucket that
// actually covers them.
func (s Span) Position(t time.Time) int64 {
	return floorDiv(t.UnixMilli(), s.Millis())
}

// Index returns the canonical bucket index covering t, e.g. "5m-4754344".
func (s Span) Index(t time.Time) Index {
	return fixedIndex(s, s.Position(t))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}
