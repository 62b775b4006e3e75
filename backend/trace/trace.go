// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package trace provides an rdg.Device that records barriers and pass
// markers as text instead of issuing GPU commands.
//
// It is used by the rdgplan tool to print the barrier plan of a graph and
// by tests that need to observe what a graph records.
//
//	dev := trace.NewDevice()
//	b := rdg.NewBuilder(dev)
//	// ... declare passes, build, execute with trace.NewCommandBuffer("frame")
//	fmt.Print(cmd)
package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/rdg"
	"github.com/gogpu/rdg/backend"
)

func init() {
	backend.Register(backend.Trace, func() rdg.Device { return NewDevice() })
}

// ErrUnsupportedCommandBuffer is returned when the command buffer passed
// to the device is not a *CommandBuffer.
var ErrUnsupportedCommandBuffer = errors.New("trace: command buffer is not a *trace.CommandBuffer")

// EventKind identifies a recorded event.
type EventKind uint8

const (
	// EventBarrier is a resource state transition.
	EventBarrier EventKind = iota

	// EventBeginPass marks the start of a pass body.
	EventBeginPass

	// EventEndPass marks the end of a pass body.
	EventEndPass
)

// Event is one recorded command.
type Event struct {
	Kind EventKind

	// Pass is the pass name for begin/end events.
	Pass string

	// Transition is set for barrier events.
	Transition rdg.Transition

	// Resource is the display name of the transitioned resource.
	Resource string
}

// String renders the event as one line of the trace.
func (e Event) String() string {
	switch e.Kind {
	case EventBarrier:
		return fmt.Sprintf("barrier %s: %s -> %s", e.Resource, e.Transition.From, e.Transition.To)
	case EventBeginPass:
		return "begin " + e.Pass
	case EventEndPass:
		return "end " + e.Pass
	default:
		return fmt.Sprintf("event(%d)", e.Kind)
	}
}

// CommandBuffer collects events in recording order.
// It is NOT safe for concurrent use.
type CommandBuffer struct {
	label  string
	events []Event
	open   []string
}

// NewCommandBuffer creates an empty command buffer.
func NewCommandBuffer(label string) *CommandBuffer {
	return &CommandBuffer{label: label}
}

// Label returns the command buffer label.
func (c *CommandBuffer) Label() string { return c.label }

// Events returns a copy of the recorded events.
func (c *CommandBuffer) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Barriers returns the recorded transitions in order.
func (c *CommandBuffer) Barriers() []rdg.Transition {
	var out []rdg.Transition
	for _, e := range c.events {
		if e.Kind == EventBarrier {
			out = append(out, e.Transition)
		}
	}
	return out
}

// Reset discards all recorded events.
func (c *CommandBuffer) Reset() {
	c.events = c.events[:0]
	c.open = c.open[:0]
}

// String renders one event per line.
func (c *CommandBuffer) String() string {
	var b strings.Builder
	for _, e := range c.events {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Device records into *CommandBuffer values.
type Device struct {
	names map[rdg.Resource]string
}

// NewDevice creates a trace device.
func NewDevice() *Device {
	return &Device{names: make(map[rdg.Resource]string)}
}

// Name sets the display name of a resource in recorded barriers.
// Unnamed resources are shown as "texture#1".
func (d *Device) Name(r rdg.Resource, name string) {
	d.names[r] = name
}

func (d *Device) display(r rdg.Resource) string {
	if name, ok := d.names[r]; ok {
		return name
	}
	return r.String()
}

// ApplyTransitions records one barrier event per transition.
func (d *Device) ApplyTransitions(cmd rdg.CommandBuffer, transitions []rdg.Transition) error {
	c, ok := cmd.(*CommandBuffer)
	if !ok || c == nil {
		return fmt.Errorf("%w: got %T", ErrUnsupportedCommandBuffer, cmd)
	}
	for _, t := range transitions {
		c.events = append(c.events, Event{
			Kind:       EventBarrier,
			Transition: t,
			Resource:   d.display(t.Resource),
		})
	}
	return nil
}

// BeginPassMarker records the start of a pass body.
func (d *Device) BeginPassMarker(cmd rdg.CommandBuffer, name string) {
	c, ok := cmd.(*CommandBuffer)
	if !ok || c == nil {
		return
	}
	c.open = append(c.open, name)
	c.events = append(c.events, Event{Kind: EventBeginPass, Pass: name})
}

// EndPassMarker records the end of the innermost open pass body.
func (d *Device) EndPassMarker(cmd rdg.CommandBuffer) {
	c, ok := cmd.(*CommandBuffer)
	if !ok || c == nil {
		return
	}
	var name string
	if n := len(c.open); n > 0 {
		name = c.open[n-1]
		c.open = c.open[:n-1]
	}
	c.events = append(c.events, Event{Kind: EventEndPass, Pass: name})
}

// Ensure Device implements rdg.Device and rdg.PassMarker.
var (
	_ rdg.Device     = (*Device)(nil)
	_ rdg.PassMarker = (*Device)(nil)
)
