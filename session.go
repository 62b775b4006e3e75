// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import (
	"fmt"
	"slices"
)

// execState is the mutable execution cursor of a Graph.
type execState struct {
	label string
	ids   []PassID
	names []string

	// next is the index of the front of the cursor.
	next int

	// open is the index of the open pass, or -1 when idle.
	open int

	closed bool
}

func (s *execState) remaining() int { return len(s.ids) - s.next }

// unexecuted reports the pending passes, or nil when everything ran.
func (s *execState) unexecuted() *UnexecutedPassesError {
	if s.remaining() == 0 && s.open < 0 {
		return nil
	}
	e := &UnexecutedPassesError{
		Label:   s.label,
		Pending: slices.Clone(s.ids[s.next:]),
		Names:   slices.Clone(s.names[s.next:]),
	}
	if s.open >= 0 {
		e.PassOpen = true
		e.OpenID = s.ids[s.open]
		e.Open = s.names[s.open]
	}
	return e
}

// reportLeak runs when a Graph is garbage collected without Close.
func reportLeak(s *execState) {
	if s.closed {
		return
	}
	if e := s.unexecuted(); e != nil {
		Logger().Warn("rdg: graph discarded with unexecuted passes",
			"label", s.label,
			"pending", e.Names,
			"open", e.Open)
	}
}

// BeginPass opens the pass with the given identity.
//
// The identity must be the front of the cursor, i.e. the next pass in
// declaration order. On success the transitions scheduled for the pass
// are recorded into cmd, the cursor advances, and the pass is open until
// EndPass. The caller records the pass body on cmd in between.
//
// Returns:
//   - ErrPassAlreadyOpen if another pass has not been ended
//   - ErrGraphExhausted if every pass has already been begun
//   - ErrOutOfOrderExecution if id is not the next declared pass
//   - the wrapped device error if recording the transitions fails
//
// On error the cursor is not advanced. After ErrOutOfOrderExecution or a
// device error, cmd is in an undefined partial state and should be
// discarded.
func (g *Graph) BeginPass(id PassID, cmd CommandBuffer) error {
	s := g.exec
	if s.closed {
		return ErrGraphClosed
	}
	if s.open >= 0 {
		return fmt.Errorf("begin pass %s: %w: %q", id, ErrPassAlreadyOpen, s.names[s.open])
	}
	if s.remaining() == 0 {
		return fmt.Errorf("begin pass %s: %w: all %d passes executed", id, ErrGraphExhausted, len(s.ids))
	}

	i := s.next
	if want := s.ids[i]; want != id {
		got := "undeclared pass"
		if j, ok := g.first[id]; ok {
			got = fmt.Sprintf("pass %d %q", j, s.names[j])
		}
		return fmt.Errorf("begin pass %s: %w: expected pass %d %q (%s), got %s",
			id, ErrOutOfOrderExecution, i, s.names[i], want, got)
	}

	if ts := g.transitions[i]; len(ts) > 0 {
		if err := g.device.ApplyTransitions(cmd, slices.Clone(ts)); err != nil {
			return fmt.Errorf("begin pass %q: apply transitions: %w", s.names[i], err)
		}
		Logger().Debug("rdg: transitions recorded",
			"label", s.label,
			"pass", s.names[i],
			"count", len(ts))
	}
	if m, ok := g.device.(PassMarker); ok {
		m.BeginPassMarker(cmd, s.names[i])
	}

	s.next++
	s.open = i
	return nil
}

// EndPass closes the open pass.
// Returns ErrNoPassOpen if no pass is open.
func (g *Graph) EndPass(cmd CommandBuffer) error {
	s := g.exec
	if s.closed {
		return ErrGraphClosed
	}
	if s.open < 0 {
		return ErrNoPassOpen
	}
	if m, ok := g.device.(PassMarker); ok {
		m.EndPassMarker(cmd)
	}
	s.open = -1
	return nil
}

// Current returns the identity of the open pass, if any.
func (g *Graph) Current() (PassID, bool) {
	if g.exec.open < 0 {
		return PassID{}, false
	}
	return g.exec.ids[g.exec.open], true
}

// Close ends the graph's execution.
//
// If some passes were never begun, or a pass is still open, Close logs a
// warning and returns an *UnexecutedPassesError matching
// ErrUnexecutedPasses. The error is advisory; the graph holds no GPU
// state that needs releasing.
//
// Close is idempotent; subsequent calls return nil.
func (g *Graph) Close() error {
	s := g.exec
	if s.closed {
		return nil
	}
	s.closed = true
	g.cleanup.Stop()

	e := s.unexecuted()
	if e == nil {
		return nil
	}
	Logger().Warn("rdg: graph closed with unexecuted passes",
		"label", s.label,
		"pending", e.Names,
		"open", e.Open)
	return e
}
