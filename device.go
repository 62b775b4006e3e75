// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

// CommandBuffer is an opaque command-recording handle supplied by the
// caller. The graph never inspects it; it only hands it to the Device.
// Draw and dispatch calls are issued by the caller directly on its own
// command buffer between BeginPass and EndPass.
type CommandBuffer any

// Device is the host device/resource context a Builder is bound to.
//
// Key principle: the graph RECEIVES the device from the host, it does NOT
// create one. The only operation the graph needs is recording state
// transitions for the resources a pass is about to use. Implementations
// live in the backend packages (backend/wgpu, backend/vulkan,
// backend/trace).
type Device interface {
	// ApplyTransitions records the given barriers into cmd. It is called
	// by BeginPass before the pass body is recorded, and only when the
	// pass has at least one transition.
	ApplyTransitions(cmd CommandBuffer, transitions []Transition) error
}

// PassMarker is implemented by devices that can bracket pass bodies with
// debug markers. BeginPass calls BeginPassMarker after the pass
// transitions are recorded; EndPass calls EndPassMarker.
type PassMarker interface {
	BeginPassMarker(cmd CommandBuffer, name string)
	EndPassMarker(cmd CommandBuffer)
}

// NullDevice is a Device that records nothing.
// Used for planning graphs without a GPU.
type NullDevice struct{}

// ApplyTransitions discards the transitions.
func (NullDevice) ApplyTransitions(CommandBuffer, []Transition) error { return nil }

// Ensure NullDevice implements Device.
var _ Device = NullDevice{}
