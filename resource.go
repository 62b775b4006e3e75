// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import "fmt"

// ResourceKind identifies the class of GPU object a Resource refers to.
type ResourceKind uint8

const (
	// KindTexture is a texture or render attachment.
	KindTexture ResourceKind = iota + 1

	// KindBuffer is a GPU buffer.
	KindBuffer
)

// String returns the string representation of ResourceKind.
func (k ResourceKind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Resource is an opaque handle to a GPU resource owned by the host's
// resource system. The graph only stores and compares handles; it never
// creates, allocates, or destroys the underlying object.
//
// Resource is comparable and may be used as a map key.
type Resource struct {
	Kind ResourceKind
	ID   uint64
}

// Texture returns a texture handle with the given id.
func Texture(id uint64) Resource { return Resource{Kind: KindTexture, ID: id} }

// Buffer returns a buffer handle with the given id.
func Buffer(id uint64) Resource { return Resource{Kind: KindBuffer, ID: id} }

// IsZero reports whether r is the zero handle.
func (r Resource) IsZero() bool { return r == Resource{} }

// String renders the handle as "texture#7".
func (r Resource) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// ResourceState is the access state a pass requires for a resource.
type ResourceState uint8

const (
	// StateUndefined means no pass in the graph has used the resource yet.
	// Its real layout is owned by the host, so no transition is emitted
	// for a first use.
	StateUndefined ResourceState = iota

	// StateWrite is required by pass outputs (color attachment or storage write).
	StateWrite

	// StateDepthStencil is required by a pass depth/stencil attachment.
	StateDepthStencil

	// StateRead is required by pass inputs (sampled or read-only storage).
	StateRead
)

// String returns the string representation of ResourceState.
func (s ResourceState) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StateWrite:
		return "write"
	case StateDepthStencil:
		return "depth-stencil"
	case StateRead:
		return "read"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// IsWrite reports whether the state allows the pass to modify the resource.
func (s ResourceState) IsWrite() bool {
	return s == StateWrite || s == StateDepthStencil
}

// Transition is a state change that must be recorded before a pass runs.
type Transition struct {
	Resource Resource
	From     ResourceState
	To       ResourceState
}

// String renders the transition as "texture#1: write -> read".
func (t Transition) String() string {
	return fmt.Sprintf("%s: %s -> %s", t.Resource, t.From, t.To)
}

// Lifetime describes the span of passes that use a resource.
type Lifetime struct {
	Resource Resource

	// First and Last are the indices of the first and last pass that
	// reference the resource.
	First, Last int

	// Producer is the index of the last pass writing the resource,
	// or -1 if no pass in the graph writes it.
	Producer int
}
