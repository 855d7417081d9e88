// Package event defines the closed polymorphic event family: point
// events, time-range events and indexed events.
//
// All kinds share one capability set: a canonical grouping key, begin
// and end instants, a data payload addressable by dotted field paths,
// and a tabular point form. Events are immutable; setters return a new
// event of the same kind with structural sharing of untouched data
// subtrees.
//
// The Event interface is closed: only the three kinds in this package
// implement it, which keeps serialization dispatch exhaustive.
package event

import (
	"time"

	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/reducer"
)

// Event is one observation tied to a point, range or indexed interval
// of time.
type Event interface {
	// Kind identifies the time representation.
	Kind() format.Kind

	// Key returns the kind-specific canonical grouping key: epoch
	// milliseconds for point events, "beginMs,endMs" for range events,
	// the index string for indexed events. Events across series with
	// equal keys describe the same instant/interval.
	Key() string

	// Timestamp returns the representative instant: the event time for
	// point events, the range begin otherwise.
	Timestamp() time.Time

	// Begin returns the earliest instant the event covers.
	Begin() time.Time

	// End returns the latest instant the event covers.
	End() time.Time

	// Data returns the payload mapping. Callers must treat it as
	// read-only; use Set to derive modified events.
	Data() map[string]any

	// Get resolves a dotted field path, returning nil when absent.
	Get(path string) any

	// Has reports whether the dotted field path is present.
	Has(path string) bool

	// Set returns a new event of the same kind with the path set.
	Set(path string, v any) Event

	// SetData returns a new event of the same kind carrying data.
	SetData(data map[string]any) Event

	// Select returns a new event whose payload is projected down to the
	// named paths; missing paths are dropped silently.
	Select(paths ...string) Event

	// Collapse reduces the values at paths into a single new field
	// named name. When keep is true the original fields are retained,
	// otherwise the new field replaces the whole payload.
	Collapse(paths []string, name string, fn reducer.Func, keep bool) Event

	// ToPoint renders the event as a tabular point row: the kind key
	// followed by the values of the given columns in order.
	ToPoint(columns []string) []any

	// sealed closes the interface to the kinds in this package.
	sealed()
}

// Equal reports whether two events have the same kind, key and payload.
func Equal(a, b Event) bool {
	if a.Kind() != b.Kind() || a.Key() != b.Key() {
		return false
	}

	return dataEqual(a.Data(), b.Data())
}

func dataEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !valueEqual(av, bv) {
			return false
		}
	}

	return true
}

func valueEqual(a, b any) bool {
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		return ok && dataEqual(am, bm)
	}
	if af, ok := ToFloat(a); ok {
		bf, ok := ToFloat(b)
		return ok && af == bf
	}

	return a == b
}
