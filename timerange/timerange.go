// Package timerange provides an immutable closed interval over instants.
//
// A TimeRange is a value: every operation returns a new range and the
// zero value is a valid (empty, epoch-anchored) range. Ordering and
// equality are by (begin, end).
package timerange

import (
	"fmt"
	"time"
)

// TimeRange is a closed interval [begin, end] with begin <= end.
type TimeRange struct {
	begin time.Time
	end   time.Time
}

// New creates a TimeRange from two instants, swapping them if needed so
// the begin <= end invariant always holds.
func New(begin, end time.Time) TimeRange {
	if end.Before(begin) {
		begin, end = end, begin
	}

	return TimeRange{begin: begin, end: end}
}

// FromMillis creates a TimeRange from epoch-millisecond bounds in UTC.
func FromMillis(beginMs, endMs int64) TimeRange {
	return New(time.UnixMilli(beginMs).UTC(), time.UnixMilli(endMs).UTC())
}

// Begin returns the start instant.
func (tr TimeRange) Begin() time.Time { return tr.begin }

// End returns the end instant.
func (tr TimeRange) End() time.Time { return tr.end }

// Duration returns end - begin.
func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.begin)
}

// Contains reports whether t lies within the closed interval.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.begin) && !t.After(tr.end)
}

// ContainsRange reports whether other lies entirely within tr.
func (tr TimeRange) ContainsRange(other TimeRange) bool {
	return tr.Contains(other.begin) && tr.Contains(other.end)
}

// Overlaps reports whether the two ranges share any instant.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return !tr.begin.After(other.end) && !other.begin.After(tr.end)
}

// Intersection returns the overlapping interval of two ranges. The
// boolean result is false when the ranges are disjoint.
func (tr TimeRange) Intersection(other TimeRange) (TimeRange, bool) {
	if !tr.Overlaps(other) {
		return TimeRange{}, false
	}

	begin := tr.begin
	if other.begin.After(begin) {
		begin = other.begin
	}
	end := tr.end
	if other.end.Before(end) {
		end = other.end
	}

	return TimeRange{begin: begin, end: end}, true
}

// Extend returns the smallest range covering both tr and other.
func (tr TimeRange) Extend(other TimeRange) TimeRange {
	begin := tr.begin
	if other.begin.Before(begin) {
		begin = other.begin
	}
	end := tr.end
	if other.end.After(end) {
		end = other.end
	}

	return TimeRange{begin: begin, end: end}
}

// Equal reports whether both bounds match to the instant.
func (tr TimeRange) Equal(other TimeRange) bool {
	return tr.begin.Equal(other.begin) && tr.end.Equal(other.end)
}

// Less orders ranges by begin, then end.
func (tr TimeRange) Less(other TimeRange) bool {
	if !tr.begin.Equal(other.begin) {
		return tr.begin.Before(other.begin)
	}

	return tr.end.Before(other.end)
}

// String renders the range as "[begin, end]" in RFC 3339 UTC.
func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s, %s]",
		tr.begin.UTC().Format(time.RFC3339Nano),
		tr.end.UTC().Format(time.RFC3339Nano))
}
