// Package pipeline provides the chainable transform stages that turn
// collections into new, keyed collections.
//
// A Pipeline is a declarative chain. Configuring a stage returns a new
// Pipeline value; the caller's pipeline is never mutated, so partial
// chains can be shared and extended independently. Nothing runs until a
// terminal call (ToKeyedCollections, Events): the engine is fully batch,
// a deterministic function of the configured stages and the input
// collection.
//
// Configuration is validated when the stage is appended. The first
// configuration error is carried by the chain and returned from the
// terminal before any event is processed.
package pipeline

import (
	"fmt"

	"github.com/tidemark/tidemark/bucket"
	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/event"
	"github.com/tidemark/tidemark/reducer"
)

// GroupAll is the output key used when no windowing stage is active.
const GroupAll = "all"

// EmitPolicy controls when windowed groups are finalized. The engine is
// batch-only: groups are emitted once all input has been consumed.
type EmitPolicy string

// EmitDiscard finalizes and emits windows only after the whole input is
// consumed. It is the only policy this engine supports.
const EmitDiscard EmitPolicy = "discard"

// stage transforms one keyed batch of events into the next.
type stage interface {
	apply(g *groups) (*groups, error)
}

// Pipeline is an immutable chain of transform stages over one input
// collection.
type Pipeline struct {
	source collection.Collection
	stages []stage
	err    error
}

// From starts a pipeline over the given collection.
func From(c collection.Collection) Pipeline {
	return Pipeline{source: c}
}

// append returns a new pipeline with one more stage, preserving value
// semantics for the receiver.
func (p Pipeline) append(s stage) Pipeline {
	stages := make([]stage, len(p.stages)+1)
	copy(stages, p.stages)
	stages[len(p.stages)] = s

	return Pipeline{source: p.source, stages: stages, err: p.err}
}

// fail records the first configuration error; the chain stays usable but
// the terminal will surface the error before processing anything.
func (p Pipeline) fail(err error) Pipeline {
	failed := Pipeline{source: p.source, stages: p.stages, err: p.err}
	if failed.err == nil {
		failed.err = err
	}

	return failed
}

// Map replaces every event with the mapper's result. The mapper must
// keep the event kind; errors propagate as pipeline failure.
func (p Pipeline) Map(fn func(event.Event) (event.Event, error)) Pipeline {
	if fn == nil {
		return p.fail(fmt.Errorf("%w: map function", errs.ErrMissingReducer))
	}

	return p.append(mapStage{fn: fn})
}

// Select projects every event's payload down to the named field paths.
func (p Pipeline) Select(paths ...string) Pipeline {
	return p.append(selectStage{paths: paths})
}

// Collapse reduces, per event, the values at paths into one new field
// named name. keep retains the original fields alongside the new one.
func (p Pipeline) Collapse(paths []string, name string, fn reducer.Func, keep bool) Pipeline {
	if fn == nil {
		return p.fail(fmt.Errorf("%w: collapse of %q", errs.ErrMissingReducer, name))
	}

	return p.append(collapseStage{paths: paths, name: name, fn: fn, keep: keep})
}

// EmitOn sets the window emit policy. Only EmitDiscard exists: windows
// are finalized once all input is consumed. Anything else fails the
// chain eagerly.
func (p Pipeline) EmitOn(policy EmitPolicy) Pipeline {
	if policy != EmitDiscard {
		return p.fail(fmt.Errorf("%w: %q", errs.ErrInvalidEmitPolicy, policy))
	}

	return p
}

// ToKeyedCollections runs the chain and materializes every pending group
// into a keyed collection. The sentinel key "all" is used when no
// windowing stage was applied. Within one group, output order mirrors
// input arrival order.
func (p Pipeline) ToKeyedCollections() (map[string]collection.Collection, error) {
	g, err := p.run()
	if err != nil {
		return nil, err
	}

	out := make(map[string]collection.Collection, len(g.keys))
	for _, key := range g.keys {
		c, err := collection.New(g.events[key]...)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", key, err)
		}
		out[key] = c
	}

	return out, nil
}

// Events runs the chain and returns every output event across all
// groups in chronological order. It is the flattening terminal used by
// rollups.
func (p Pipeline) Events() ([]event.Event, error) {
	g, err := p.run()
	if err != nil {
		return nil, err
	}

	var out []event.Event
	for _, key := range g.keys {
		out = append(out, g.events[key]...)
	}
	sortEventsByTime(out)

	return out, nil
}

func (p Pipeline) run() (*groups, error) {
	if p.err != nil {
		return nil, p.err
	}

	g := newGroups()
	g.set(GroupAll, p.source.Events())

	for _, s := range p.stages {
		next, err := s.apply(g)
		if err != nil {
			return nil, err
		}
		g = next
	}

	return g, nil
}

// groups is an ordered keyed batch: keys remember first-seen order so
// results are deterministic.
type groups struct {
	keys   []string
	events map[string][]event.Event
	// index carries the bucket behind each window group key; absent for
	// the ungrouped "all" batch.
	index map[string]bucket.Index
}

func newGroups() *groups {
	return &groups{
		events: make(map[string][]event.Event),
		index:  make(map[string]bucket.Index),
	}
}

func (g *groups) set(key string, events []event.Event) {
	if _, seen := g.events[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.events[key] = events
}

func (g *groups) add(key string, e event.Event) {
	if _, seen := g.events[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.events[key] = append(g.events[key], e)
}

// mapGroups applies fn to each group's event list, keeping key order.
func (g *groups) mapGroups(fn func(events []event.Event) ([]event.Event, error)) (*groups, error) {
	out := newGroups()
	for _, key := range g.keys {
		mapped, err := fn(g.events[key])
		if err != nil {
			return nil, err
		}
		out.set(key, mapped)
		if idx, ok := g.index[key]; ok {
			out.index[key] = idx
		}
	}

	return out, nil
}

type mapStage struct {
	fn func(event.Event) (event.Event, error)
}

func (s mapStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		out := make([]event.Event, len(events))
		for i, e := range events {
			mapped, err := s.fn(e)
			if err != nil {
				return nil, fmt.Errorf("map stage: %w", err)
			}
			out[i] = mapped
		}

		return out, nil
	})
}

type selectStage struct {
	paths []string
}

func (s selectStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		out := make([]event.Event, len(events))
		for i, e := range events {
			out[i] = e.Select(s.paths...)
		}

		return out, nil
	})
}

type collapseStage struct {
	paths []string
	name  string
	fn    reducer.Func
	keep  bool
}

func (s collapseStage) apply(g *groups) (*groups, error) {
	return g.mapGroups(func(events []event.Event) ([]event.Event, error) {
		out := make([]event.Event, len(events))
		for i, e := range events {
			out[i] = e.Collapse(s.paths, s.name, s.fn, s.keep)
		}

		return out, nil
	})
}
