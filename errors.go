// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import (
	"errors"
	"fmt"
	"strings"
)

// Declaration errors.
var (
	// ErrInvalidPassDescriptor is returned by AddPass when a resource
	// appears in more than one role (input, output, depth) of one pass.
	ErrInvalidPassDescriptor = errors.New("rdg: invalid pass descriptor")

	// ErrBuilderConsumed is returned when a builder is used after a graph
	// was built from it.
	ErrBuilderConsumed = errors.New("rdg: builder already consumed by a graph")

	// ErrNilBuilder is returned when NewGraph is called with a nil builder.
	ErrNilBuilder = errors.New("rdg: builder is nil")

	// ErrPassIdentityCollision is returned by NewGraph when two passes with
	// different content share the same identity.
	ErrPassIdentityCollision = errors.New("rdg: pass identity collision")
)

// Execution errors.
var (
	// ErrGraphExhausted is returned by BeginPass when every declared pass
	// has already been begun.
	ErrGraphExhausted = errors.New("rdg: graph exhausted")

	// ErrOutOfOrderExecution is returned by BeginPass when the requested
	// pass is not the next declared one. The command buffer is left in an
	// undefined partial state and should be discarded.
	ErrOutOfOrderExecution = errors.New("rdg: pass executed out of declaration order")

	// ErrPassAlreadyOpen is returned by BeginPass while another pass is open.
	ErrPassAlreadyOpen = errors.New("rdg: a pass is already open")

	// ErrNoPassOpen is returned by EndPass when no pass is open.
	ErrNoPassOpen = errors.New("rdg: no pass is open")

	// ErrGraphClosed is returned when executing on a closed graph.
	ErrGraphClosed = errors.New("rdg: graph is closed")

	// ErrUnexecutedPasses is an advisory error reported when a graph is
	// closed before all declared passes were executed.
	ErrUnexecutedPasses = errors.New("rdg: graph closed with unexecuted passes")
)

// UnexecutedPassesError lists the passes still pending when a graph was
// closed. It matches ErrUnexecutedPasses with errors.Is.
type UnexecutedPassesError struct {
	// Label is the graph label, if one was configured.
	Label string

	// Pending holds the identities left in the cursor, in declaration order.
	Pending []PassID

	// Names holds the pass names matching Pending.
	Names []string

	// PassOpen reports whether a pass was begun but never ended.
	// OpenID and Open identify it; Open may be empty for unnamed passes.
	PassOpen bool
	OpenID   PassID
	Open     string
}

func (e *UnexecutedPassesError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUnexecutedPasses.Error())
	if e.Label != "" {
		fmt.Fprintf(&b, " (graph %q)", e.Label)
	}
	if len(e.Names) > 0 {
		fmt.Fprintf(&b, ": %d pending [%s]", len(e.Names), strings.Join(e.Names, ", "))
	}
	if e.PassOpen {
		fmt.Fprintf(&b, "; pass %q (%s) left open", e.Open, e.OpenID)
	}
	return b.String()
}

func (e *UnexecutedPassesError) Unwrap() error { return ErrUnexecutedPasses }
