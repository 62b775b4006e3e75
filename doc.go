// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rdg provides a render dependency graph for GPU frames.
//
// # Overview
//
// rdg separates describing a frame from recording it. Client code declares
// passes with the resources they read and write; rdg freezes the
// declaration order, derives the resource state transitions (barriers)
// each pass needs, and then validates that passes are recorded in exactly
// that order.
//
// # Quick Start
//
//	b := rdg.NewBuilder(device)
//
//	depth := rdg.Texture(4)
//	gbuffer, _ := b.AddPass("gbuffer", nil,
//	    []rdg.Resource{albedo, normal, material}, &depth)
//	lighting, _ := b.AddPass("lighting",
//	    []rdg.Resource{albedo, normal, material}, []rdg.Resource{hdr}, nil)
//
//	g, err := rdg.NewGraph(b) // b is consumed
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
//	_ = g.BeginPass(gbuffer, cmd)  // no transitions: first use
//	// ... record draws on cmd ...
//	_ = g.EndPass(cmd)
//
//	_ = g.BeginPass(lighting, cmd) // albedo, normal, material: write -> read
//	// ... record draws on cmd ...
//	_ = g.EndPass(cmd)
//
// # Pass Identity
//
// AddPass returns a PassID, a SHA-256 fingerprint of the pass content
// (name, inputs, outputs, depth target). Equal declarations produce equal
// identities; NewGraph rejects different declarations sharing one with
// ErrPassIdentityCollision.
//
// # Builder and Graph
//
// NewGraph consumes the Builder. The Graph type has no way to declare
// passes, so "declare after execution started" cannot be expressed; a
// consumed builder rejects further declarations with ErrBuilderConsumed.
//
// # Execution
//
// BeginPass must be called with the next declared identity, otherwise it
// fails with ErrOutOfOrderExecution. Passes cannot nest. Close reports
// passes that were declared but never executed (ErrUnexecutedPasses) and
// logs a warning through the logger configured with SetLogger.
//
// # Backends
//
// The Device interface is the only collaborator rdg calls. Adapters:
//
//   - backend/wgpu: gogpu/wgpu HAL texture barriers
//   - backend/vulkan: vkCmdPipelineBarrier (build tag "vulkan")
//   - backend/trace: records transitions as text, for tests and tooling
//
// Each adapter registers itself with package backend, which looks devices
// up by name.
//
// # Thread Safety
//
// Builder and Graph are NOT safe for concurrent use. SetLogger and Logger
// are.
package rdg
