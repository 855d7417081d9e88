package pipeline

import (
	"fmt"
	"time"

	"github.com/tidemark/tidemark/bucket"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/internal/field"
)

// AlignMethod selects how boundary values are synthesized by Align.
type AlignMethod string

const (
	// AlignLinear interpolates proportionally between the bracketing
	// observations.
	AlignLinear AlignMethod = "linear"
	// AlignPad repeats the earlier observation's value.
	AlignPad AlignMethod = "pad"
)

// AlignOptions configures an Align stage.
type AlignOptions struct {
	// FieldSpec lists the field paths carried onto the synthesized
	// boundary events.
	FieldSpec []string

	// Period is the boundary spacing in the window span grammar
	// ("30s", "5m", "1h", "1d").
	Period string

	// Method is linear or pad. Default: linear.
	Method AlignMethod

	// Limit caps how many consecutive boundaries may be synthesized
	// from one input gap. A gap spanning more boundaries than Limit
	// emits nil values instead of interpolations. Zero means no limit.
	Limit int
}

// Align resamples point events onto exact period boundaries. For every
// boundary crossed between consecutive input events, one new event is
// emitted exactly on the boundary with a value synthesized by the
// configured method. Original off-boundary events are not passed
// through.
func (p Pipeline) Align(opts AlignOptions) Pipeline {
	span, err := bucket.ParseSpan(opts.Period)
	if err != nil {
		return p.fail(err)
	}
	if opts.Method == "" {
		opts.Method = AlignLinear
	}
	switch opts.Method {
	case AlignLinear, AlignPad:
	default:
		return p.fail(fmt.Errorf("%w: %q", errs.ErrInvalidAlignMethod, opts.Method))
	}
	if len(opts.FieldSpec) == 0 {
		return p.fail(fmt.Errorf("%w: align needs a field spec", errs.ErrMissingAggregation))
	}

	return p.append(alignStage{opts: opts, span: span})
}

type alignStage struct {
	opts AlignOptions
	span bucket.Span
}

func (s alignStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		return s.alignEvents(events), nil
	})
}

func (s alignStage) alignEvents(events []event.Event) []event.Event {
	var out []event.Event

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		boundaries := s.boundariesBetween(prev.Timestamp(), cur.Timestamp())
		if len(boundaries) == 0 {
			continue
		}

		interpolatable := s.opts.Limit == 0 || len(boundaries) <= s.opts.Limit
		for _, b := range boundaries {
			data := make(map[string]any)
			for _, path := range s.opts.FieldSpec {
				if !interpolatable {
					data = field.Set(data, path, nil)
					continue
				}
				data = field.Set(data, path, s.valueAt(prev, cur, b, path))
			}
			out = append(out, event.NewPoint(b, data))
		}
	}

	return out
}

// boundariesBetween returns the period boundaries in (t0, t1].
func (s alignStage) boundariesBetween(t0, t1 time.Time) []time.Time {
	periodMs := s.span.Millis()
	first := (s.span.Position(t0) + 1) * periodMs

	var out []time.Time
	for ms := first; ms <= t1.UnixMilli(); ms += periodMs {
		out = append(out, time.UnixMilli(ms).UTC())
	}

	return out
}

func (s alignStage) valueAt(prev, cur event.Event, boundary time.Time, path string) any {
	prevVal, prevOK := event.Value(prev, path)
	if s.opts.Method == AlignPad {
		if !prevOK {
			return nil
		}
		return prevVal
	}

	curVal, curOK := event.Value(cur, path)
	if !prevOK || !curOK {
		return nil
	}

	t0 := prev.Timestamp().UnixMilli()
	t1 := cur.Timestamp().UnixMilli()
	if t1 == t0 {
		return prevVal
	}

	frac := float64(boundary.UnixMilli()-t0) / float64(t1-t0)

	return prevVal + frac*(curVal-prevVal)
}
