package pipeline

import (
	"fmt"
	"time"

	"github.com/tidemark/tidemark/bucket"
	"github.com/tidemark/tidemark/errs"
)

// Calendar window units accepted by WindowBy alongside the fixed span
// grammar.
const (
	WindowGlobal  = "global"
	WindowDaily   = "daily"
	WindowMonthly = "monthly"
	WindowYearly  = "yearly"
)

// WindowBy groups events by bucket. spec is either a fixed span
// ("30s", "5m", "1h", "1d"), a calendar unit (daily, monthly, yearly)
// or "global" to keep everything in one group. Fixed buckets are
// UTC-aligned; calendar buckets follow the location configured with
// InLocation.
func (p Pipeline) WindowBy(spec string) Pipeline {
	if spec == "" {
		return p.fail(fmt.Errorf("%w: empty window", errs.ErrMissingWindow))
	}
	if spec == WindowGlobal {
		return p
	}

	switch spec {
	case WindowDaily, WindowMonthly, WindowYearly:
		return p.append(windowStage{calendar: spec, loc: time.UTC})
	}

	span, err := bucket.ParseSpan(spec)
	if err != nil {
		return p.fail(err)
	}

	return p.append(windowStage{span: span, loc: time.UTC})
}

// WindowByIn is WindowBy with calendar buckets resolved in loc rather
// than UTC. Fixed spans remain UTC-aligned regardless.
func (p Pipeline) WindowByIn(spec string, loc *time.Location) Pipeline {
	next := p.WindowBy(spec)
	if loc == nil {
		return next
	}
	if len(next.stages) > len(p.stages) {
		if ws, ok := next.stages[len(next.stages)-1].(windowStage); ok {
			ws.loc = loc
			next.stages[len(next.stages)-1] = ws
		}
	}

	return next
}

type windowStage struct {
	span     bucket.Span
	calendar string
	loc      *time.Location
}

func (s windowStage) apply(g *groups) (*groups, error) {
	out := newGroups()
	for _, key := range g.keys {
		for _, e := range g.events[key] {
			idx := s.indexOf(e.Timestamp())
			out.add(idx.String(), e)
			out.index[idx.String()] = idx
		}
	}

	return out, nil
}

func (s windowStage) indexOf(t time.Time) bucket.Index {
	switch s.calendar {
	case WindowDaily:
		return bucket.DailyIndex(t.In(s.loc))
	case WindowMonthly:
		return bucket.MonthlyIndex(t.In(s.loc))
	case WindowYearly:
		return bucket.YearlyIndex(t.In(s.loc))
	default:
		return s.span.Index(t)
	}
}
