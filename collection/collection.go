// Package collection provides the ordered, immutable event sequence at
// the heart of the engine.
//
// A Collection holds events of exactly one kind in chronological order.
// Chronology is checked on the strict construction path and trusted
// everywhere else: every transform returns a new Collection built from
// an already-ordered source, so order is never rechecked per operation.
// Sorting is explicit opt-in via NewSorted, never implicit.
package collection

import (
	"fmt"
	"sort"
	"time"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/timerange"
)

// Collection is an ordered sequence of same-kind events. The zero value
// is a valid empty collection.
type Collection struct {
	kind   format.Kind
	events []event.Event
}

// New creates a Collection from events already in chronological order.
// It fails with errs.ErrNonChronological when events are out of order
// and errs.ErrMixedKinds when more than one event kind is present. The
// collection takes ownership of the slice.
func New(events ...event.Event) (Collection, error) {
	c, err := fromEvents(events)
	if err != nil {
		return Collection{}, err
	}
	if !c.IsChronological() {
		return Collection{}, fmt.Errorf("%w: %d events", errs.ErrNonChronological, len(events))
	}

	return c, nil
}

// NewSorted creates a Collection from events in any order, stably
// sorting them by timestamp first. Mixed kinds still fail.
func NewSorted(events ...event.Event) (Collection, error) {
	c, err := fromEvents(events)
	if err != nil {
		return Collection{}, err
	}

	return c.SortByTime(), nil
}

func fromEvents(events []event.Event) (Collection, error) {
	if len(events) == 0 {
		return Collection{}, nil
	}

	kind := events[0].Kind()
	for _, e := range events[1:] {
		if e.Kind() != kind {
			return Collection{}, fmt.Errorf("%w: %s and %s", errs.ErrMixedKinds, kind, e.Kind())
		}
	}

	return Collection{kind: kind, events: events}, nil
}

// trusted builds a collection from events whose kind and order are
// already guaranteed by the caller.
func trusted(kind format.Kind, events []event.Event) Collection {
	return Collection{kind: kind, events: events}
}

// Kind returns the event kind, or 0 for an empty collection.
func (c Collection) Kind() format.Kind { return c.kind }

// Len returns the number of events.
func (c Collection) Len() int { return len(c.events) }

// Events returns the underlying event slice. Callers must treat it as
// read-only.
func (c Collection) Events() []event.Event { return c.events }

// At returns the event at position i. It panics when i is out of range,
// matching slice indexing.
func (c Collection) At(i int) event.Event { return c.events[i] }

// AtFirst returns the first event. The boolean result is false on an
// empty collection.
func (c Collection) AtFirst() (event.Event, bool) {
	if len(c.events) == 0 {
		return nil, false
	}

	return c.events[0], true
}

// AtLast returns the last event. The boolean result is false on an
// empty collection.
func (c Collection) AtLast() (event.Event, bool) {
	if len(c.events) == 0 {
		return nil, false
	}

	return c.events[len(c.events)-1], true
}

// Bisect returns the greatest index i such that the event timestamp at i
// is at or before t. It clamps to 0 when t precedes all events and to
// the last index when t follows all events; the boolean result is false
// on an empty collection.
//
// The scan is linear from startHint; callers repeating bisection over
// increasing instants (Crop does this) pass the prior result to
// amortize the walk.
func (c Collection) Bisect(t time.Time, startHint ...int) (int, bool) {
	n := len(c.events)
	if n == 0 {
		return 0, false
	}

	pos := 0
	if len(startHint) > 0 {
		pos = startHint[0]
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= n {
		pos = n - 1
	}

	for pos > 0 && c.events[pos].Timestamp().After(t) {
		pos--
	}
	for pos+1 < n && !c.events[pos+1].Timestamp().After(t) {
		pos++
	}

	return pos, true
}

// Slice returns the half-open positional range [i, j). Bounds are
// clamped to the collection.
func (c Collection) Slice(i, j int) Collection {
	n := len(c.events)
	if i < 0 {
		i = 0
	}
	if j > n {
		j = n
	}
	if i >= j {
		return trusted(c.kind, nil)
	}

	return trusted(c.kind, c.events[i:j])
}

// Crop returns the events whose timestamps fall within tr.
func (c Collection) Crop(tr timerange.TimeRange) Collection {
	lo, ok := c.Bisect(tr.Begin())
	if !ok {
		return Collection{kind: c.kind}
	}
	if c.events[lo].Timestamp().Before(tr.Begin()) {
		lo++
	}
	if lo >= len(c.events) {
		return trusted(c.kind, nil)
	}

	hi, _ := c.Bisect(tr.End(), lo)
	if c.events[hi].Timestamp().After(tr.End()) {
		return trusted(c.kind, nil)
	}

	return c.Slice(lo, hi+1)
}

// Filter returns the events for which pred holds, preserving order.
func (c Collection) Filter(pred func(event.Event) bool) Collection {
	out := make([]event.Event, 0, len(c.events))
	for _, e := range c.events {
		if pred(e) {
			out = append(out, e)
		}
	}

	return trusted(c.kind, out)
}

// Clean removes events whose value at any of the given field paths is
// missing, nil or NaN, preserving order.
func (c Collection) Clean(paths ...string) Collection {
	return c.Filter(func(e event.Event) bool {
		for _, p := range paths {
			if !event.IsValid(e.Get(p)) {
				return false
			}
		}

		return true
	})
}

// Map returns a new collection with fn applied to every event. The
// mapper must preserve the event kind and must not reorder timestamps.
func (c Collection) Map(fn func(event.Event) event.Event) Collection {
	out := make([]event.Event, len(c.events))
	for i, e := range c.events {
		out[i] = fn(e)
	}

	return trusted(c.kind, out)
}

// SortByTime returns a chronologically ordered copy. The sort is stable,
// so co-timed events keep their arrival order.
func (c Collection) SortByTime() Collection {
	out := make([]event.Event, len(c.events))
	copy(out, c.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp().Before(out[j].Timestamp())
	})

	return trusted(c.kind, out)
}

// IsChronological reports whether timestamps are non-decreasing.
func (c Collection) IsChronological() bool {
	for i := 1; i < len(c.events); i++ {
		if c.events[i].Timestamp().Before(c.events[i-1].Timestamp()) {
			return false
		}
	}

	return true
}

// Range returns the interval from the earliest begin to the latest end
// across all events. The boolean result is false on an empty collection.
func (c Collection) Range() (timerange.TimeRange, bool) {
	if len(c.events) == 0 {
		return timerange.TimeRange{}, false
	}

	r := timerange.New(c.events[0].Begin(), c.events[0].End())
	for _, e := range c.events[1:] {
		r = r.Extend(timerange.New(e.Begin(), e.End()))
	}

	return r, true
}
