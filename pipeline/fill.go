package pipeline

import (
	"fmt"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
)

// FillMethod selects how invalid values are replaced by Fill.
type FillMethod string

const (
	// FillZero replaces invalid values with 0.
	FillZero FillMethod = "zero"
	// FillPad carries the last valid value forward.
	FillPad FillMethod = "pad"
	// FillLinear interpolates between the nearest valid neighbors on the
	// time axis. Leading and trailing invalid runs have no neighbor pair
	// and are left untouched.
	FillLinear FillMethod = "linear"
)

// FillOptions configures a Fill stage.
type FillOptions struct {
	// FieldSpec lists the field paths to fill. Empty means every
	// top-level column observed in the input. Each path is filled
	// independently.
	FieldSpec []string

	// Method is one of zero, pad or linear. Default: zero.
	Method FillMethod

	// Limit caps the number of consecutive invalid points repaired per
	// run; once exceeded, the remaining invalid points of that run are
	// left untouched. Zero means no limit.
	Limit int
}

// Fill repairs missing or invalid values at the configured field paths.
func (p Pipeline) Fill(opts FillOptions) Pipeline {
	if opts.Method == "" {
		opts.Method = FillZero
	}
	switch opts.Method {
	case FillZero, FillPad, FillLinear:
	default:
		return p.fail(fmt.Errorf("%w: %q", errs.ErrInvalidFillMethod, opts.Method))
	}
	if opts.Limit < 0 {
		return p.fail(fmt.Errorf("%w: negative fill limit", errs.ErrInvalidFillMethod))
	}

	return p.append(fillStage{opts: opts})
}

type fillStage struct {
	opts FillOptions
}

func (s fillStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		return fillEvents(events, s.opts), nil
	})
}

func fillEvents(events []event.Event, opts FillOptions) []event.Event {
	if len(events) == 0 {
		return events
	}

	paths := opts.FieldSpec
	if len(paths) == 0 {
		paths = topLevelColumns(events)
	}

	out := make([]event.Event, len(events))
	copy(out, events)
	for _, path := range paths {
		fillPath(out, path, opts.Method, opts.Limit)
	}

	return out
}

// fillPath repairs one field path in place over the working slice.
func fillPath(events []event.Event, path string, method FillMethod, limit int) {
	run := 0 // consecutive invalid points seen in the current gap

	for i, e := range events {
		if event.IsValid(e.Get(path)) {
			run = 0
			continue
		}
		run++
		if limit > 0 && run > limit {
			continue
		}

		switch method {
		case FillZero:
			events[i] = e.Set(path, 0.0)
		case FillPad:
			if i == 0 {
				continue // nothing to carry forward yet
			}
			if prev := events[i-1].Get(path); event.IsValid(prev) {
				events[i] = e.Set(path, prev)
			}
		case FillLinear:
			filled, ok := interpolate(events, i, path)
			if ok {
				events[i] = e.Set(path, filled)
			}
		}
	}
}

// interpolate resolves events[i]'s value at path linearly on the time
// axis between the nearest valid neighbors. The previous neighbor is
// read from the working slice, so earlier fills in the same run chain
// correctly.
func interpolate(events []event.Event, i int, path string) (float64, bool) {
	if i == 0 {
		return 0, false
	}
	prev, ok := event.Value(events[i-1], path)
	if !ok {
		return 0, false
	}

	for j := i + 1; j < len(events); j++ {
		next, ok := event.Value(events[j], path)
		if !ok {
			continue
		}

		t0 := events[i-1].Timestamp().UnixMilli()
		t1 := events[j].Timestamp().UnixMilli()
		t := events[i].Timestamp().UnixMilli()
		if t1 == t0 {
			return prev, true
		}

		frac := float64(t-t0) / float64(t1-t0)

		return prev + frac*(next-prev), true
	}

	return 0, false // trailing run, no next valid neighbor
}

// topLevelColumns returns the union of top-level payload keys across
// events, in first-seen order.
func topLevelColumns(events []event.Event) []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, e := range events {
		for k := range e.Data() {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}

	return cols
}
