// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"
)

// Graph is the frozen, executable form of a Builder.
//
// It owns the declared passes in declaration order, the resource
// transitions scheduled before each pass, and the execution cursor: the
// queue of pass identities not yet begun. Passes execute in exactly the
// order they were declared; the graph never reorders.
//
// State machine:
//
//	Idle     -> BeginPass(next id)  -> PassOpen
//	PassOpen -> EndPass             -> Idle
//	Idle + empty cursor             -> fully executed
//
// Graph is NOT safe for concurrent use. Callers sharing a graph between
// goroutines must serialize each BeginPass/EndPass pair.
type Graph struct {
	device Device
	label  string

	passes      []PassDescriptor
	transitions [][]Transition
	lifetimes   []Lifetime

	// first maps an identity to the index of its first pass.
	first map[PassID]int

	// exec is kept apart from Graph so a runtime cleanup can inspect it
	// after the Graph itself became unreachable.
	exec    *execState
	cleanup runtime.Cleanup
}

// NewGraph builds a graph from b and consumes the builder.
//
// Declaration order becomes execution order. NewGraph derives the state
// transitions each pass needs from the passes before it; no GPU work is
// issued.
//
// Returns ErrPassIdentityCollision if two passes with different content
// share an identity. The builder is left untouched in that case so the
// caller may inspect it. Returns ErrBuilderConsumed if b was already used.
func NewGraph(b *Builder) (*Graph, error) {
	if b == nil {
		return nil, ErrNilBuilder
	}
	if b.consumed {
		return nil, ErrBuilderConsumed
	}

	first, err := checkIdentities(b.passes, b.ids)
	if err != nil {
		return nil, err
	}

	passes, ids := b.consume()
	transitions, lifetimes := planTransitions(passes)

	names := make([]string, len(passes))
	for i := range passes {
		names[i] = passes[i].Name
	}

	g := &Graph{
		device:      b.device,
		label:       b.opts.label,
		passes:      passes,
		transitions: transitions,
		lifetimes:   lifetimes,
		first:       first,
		exec: &execState{
			label: b.opts.label,
			ids:   ids,
			names: names,
			open:  -1,
		},
	}
	g.cleanup = runtime.AddCleanup(g, reportLeak, g.exec)

	count := 0
	for _, ts := range transitions {
		count += len(ts)
	}
	Logger().Debug("rdg: graph built",
		"label", g.label,
		"passes", len(passes),
		"resources", len(lifetimes),
		"transitions", count)

	return g, nil
}

// checkIdentities returns the first pass index of every identity, or
// ErrPassIdentityCollision if an identity is shared by different content.
func checkIdentities(passes []PassDescriptor, ids []PassID) (map[PassID]int, error) {
	first := make(map[PassID]int, len(ids))
	for i, id := range ids {
		j, ok := first[id]
		if !ok {
			first[id] = i
			continue
		}
		if !passes[j].Equal(passes[i]) {
			return nil, fmt.Errorf("%w: pass %d %q and pass %d %q share identity %s",
				ErrPassIdentityCollision, j, passes[j].Name, i, passes[i].Name, id)
		}
	}
	return first, nil
}

// planTransitions walks the passes in order, tracking the last state of
// every resource. A transition is scheduled before a pass whenever the
// state it needs differs from a state set by an earlier pass. First uses
// schedule nothing: the host owns the initial layout. Consecutive writes
// keep the same state and schedule nothing either; write-after-write
// ordering within a state is left to the host.
func planTransitions(passes []PassDescriptor) ([][]Transition, []Lifetime) {
	transitions := make([][]Transition, len(passes))
	states := make(map[Resource]ResourceState)
	spans := make(map[Resource]int)
	var lifetimes []Lifetime

	for i := range passes {
		p := &passes[i]
		seen := make(map[Resource]struct{}, len(p.Inputs)+len(p.Outputs)+1)
		var ts []Transition

		use := func(r Resource, want ResourceState) {
			if _, dup := seen[r]; dup {
				return
			}
			seen[r] = struct{}{}

			k, ok := spans[r]
			if !ok {
				k = len(lifetimes)
				spans[r] = k
				lifetimes = append(lifetimes, Lifetime{Resource: r, First: i, Producer: -1})
			}
			lifetimes[k].Last = i
			if want.IsWrite() {
				lifetimes[k].Producer = i
			}

			if prev := states[r]; prev != StateUndefined && prev != want {
				ts = append(ts, Transition{Resource: r, From: prev, To: want})
			}
			states[r] = want
		}

		for _, r := range p.Inputs {
			use(r, StateRead)
		}
		for _, r := range p.Outputs {
			use(r, StateWrite)
		}
		if p.DepthTarget != nil {
			use(*p.DepthTarget, StateDepthStencil)
		}
		transitions[i] = ts
	}

	slices.SortStableFunc(lifetimes, func(a, b Lifetime) int {
		return cmp.Or(
			cmp.Compare(a.First, b.First),
			cmp.Compare(a.Resource.Kind, b.Resource.Kind),
			cmp.Compare(a.Resource.ID, b.Resource.ID),
		)
	})
	return transitions, lifetimes
}

// Label returns the label configured with WithLabel.
func (g *Graph) Label() string { return g.label }

// Device returns the device the graph records transitions with.
func (g *Graph) Device() Device { return g.device }

// Len returns the number of passes in the graph.
func (g *Graph) Len() int { return len(g.passes) }

// IDs returns the pass identities in execution order.
func (g *Graph) IDs() []PassID { return slices.Clone(g.exec.ids) }

// Passes returns a copy of the passes in execution order.
func (g *Graph) Passes() []PassDescriptor {
	out := make([]PassDescriptor, len(g.passes))
	for i := range g.passes {
		out[i] = g.passes[i].Clone()
	}
	return out
}

// Pass returns the descriptor of the first pass with the given identity.
func (g *Graph) Pass(id PassID) (PassDescriptor, bool) {
	i, ok := g.first[id]
	if !ok {
		return PassDescriptor{}, false
	}
	return g.passes[i].Clone(), true
}

// TransitionsAt returns the transitions scheduled before the pass at
// index i. It panics if i is out of range.
func (g *Graph) TransitionsAt(i int) []Transition {
	return slices.Clone(g.transitions[i])
}

// Transitions returns the transitions scheduled before the first pass
// with the given identity.
func (g *Graph) Transitions(id PassID) ([]Transition, bool) {
	i, ok := g.first[id]
	if !ok {
		return nil, false
	}
	return g.TransitionsAt(i), true
}

// Lifetimes returns the span of passes using each resource, ordered by
// first use.
func (g *Graph) Lifetimes() []Lifetime { return slices.Clone(g.lifetimes) }

// Pending returns the identities not yet begun, in execution order.
func (g *Graph) Pending() []PassID {
	return slices.Clone(g.exec.ids[g.exec.next:])
}

// Remaining returns the number of passes not yet begun.
func (g *Graph) Remaining() int { return g.exec.remaining() }

// Done reports whether every pass has been begun and ended.
func (g *Graph) Done() bool { return g.exec.remaining() == 0 && g.exec.open < 0 }
