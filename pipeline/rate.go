package pipeline

import (
	"fmt"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/internal/field"
	"github.com/tidemark/tidemark/timerange"
)

// RateOptions configures a Rate stage.
type RateOptions struct {
	// FieldSpec lists the field paths to derive. Each input path p
	// produces an output column named p + "_rate".
	FieldSpec []string

	// AllowNegative keeps negative rates. When false a negative rate is
	// emitted as nil instead, which tolerates counter resets.
	AllowNegative bool
}

// Rate emits one range event per consecutive input pair carrying the
// per-second rate of change of each configured field across that pair.
func (p Pipeline) Rate(opts RateOptions) Pipeline {
	if len(opts.FieldSpec) == 0 {
		return p.fail(fmt.Errorf("%w: rate needs a field spec", errs.ErrMissingAggregation))
	}

	return p.append(rateStage{opts: opts})
}

type rateStage struct {
	opts RateOptions
}

func (s rateStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		return s.rateEvents(events), nil
	})
}

func (s rateStage) rateEvents(events []event.Event) []event.Event {
	out := make([]event.Event, 0, max(len(events)-1, 0))

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		seconds := cur.Timestamp().Sub(prev.Timestamp()).Seconds()

		data := make(map[string]any)
		for _, path := range s.opts.FieldSpec {
			data = field.Set(data, path+"_rate", s.rateOf(prev, cur, path, seconds))
		}

		r := timerange.New(prev.Timestamp(), cur.Timestamp())
		out = append(out, event.NewRange(r, data))
	}

	return out
}

func (s rateStage) rateOf(prev, cur event.Event, path string, seconds float64) any {
	prevVal, prevOK := event.Value(prev, path)
	curVal, curOK := event.Value(cur, path)
	if !prevOK || !curOK || seconds <= 0 {
		return nil
	}

	rate := (curVal - prevVal) / seconds
	if rate < 0 && !s.opts.AllowNegative {
		return nil
	}

	return rate
}
