// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import "fmt"

// Builder records pass declarations in order and assigns their identities.
//
// A Builder is write-only from the client's point of view: passes go in
// through AddPass and come out only when NewGraph consumes the builder.
// After that every mutating call fails with ErrBuilderConsumed, and the
// resulting Graph offers no way to declare further passes.
//
// Builder is NOT safe for concurrent use.
type Builder struct {
	device   Device
	opts     options
	passes   []PassDescriptor
	ids      []PassID
	consumed bool
}

// NewBuilder creates an empty builder bound to the host device.
// The device is passed through unmodified to the graph. A nil device is
// replaced by NullDevice.
func NewBuilder(device Device, opts ...Option) *Builder {
	if device == nil {
		device = NullDevice{}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		device: device,
		opts:   o,
	}
}

// AddPass declares a pass and returns its identity.
//
// inputs may be empty for source passes and depth may be nil for passes
// without a depth/stencil attachment. The slices are copied.
//
// Returns ErrInvalidPassDescriptor if a resource is used in two roles of
// the pass; the pass is not added in that case.
func (b *Builder) AddPass(name string, inputs, outputs []Resource, depth *Resource) (PassID, error) {
	return b.Add(PassDescriptor{
		Name:        name,
		Inputs:      inputs,
		Outputs:     outputs,
		DepthTarget: depth,
	})
}

// Add declares a pass from a ready descriptor. See AddPass.
func (b *Builder) Add(desc PassDescriptor) (PassID, error) {
	if b.consumed {
		return PassID{}, ErrBuilderConsumed
	}
	if err := desc.Validate(); err != nil {
		return PassID{}, fmt.Errorf("add pass %d: %w", len(b.passes), err)
	}

	desc = desc.Clone()
	id := b.opts.identity(desc)
	b.passes = append(b.passes, desc)
	b.ids = append(b.ids, id)
	return id, nil
}

// Len returns the number of declared passes.
func (b *Builder) Len() int { return len(b.passes) }

// Passes returns a copy of the declared passes in declaration order.
// Useful for inspecting a builder whose graph construction failed.
func (b *Builder) Passes() []PassDescriptor {
	out := make([]PassDescriptor, len(b.passes))
	for i := range b.passes {
		out[i] = b.passes[i].Clone()
	}
	return out
}

// Device returns the device the builder is bound to.
func (b *Builder) Device() Device { return b.device }

// Consumed reports whether a graph has been built from the builder.
func (b *Builder) Consumed() bool { return b.consumed }

// consume hands the declarations over to a graph and poisons the builder.
func (b *Builder) consume() ([]PassDescriptor, []PassID) {
	passes, ids := b.passes, b.ids
	b.passes, b.ids = nil, nil
	b.consumed = true
	return passes, ids
}
