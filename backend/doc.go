// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend is a registry of rdg.Device implementations.
//
// Device packages register themselves from init() functions, so importing
// a backend for side effects makes it available by name:
//
//	import _ "github.com/gogpu/rdg/backend/trace"
//
//	dev := backend.Get(backend.Trace)
//
// # Available Backends
//
// - "trace": records barriers as text (always available)
// - "wgpu": texture barriers through the gogpu/wgpu HAL
// - "vulkan": vkCmdPipelineBarrier through vulkan-go (build tag "vulkan")
//
// Devices created by the registry are not bound to any host resources;
// backends that need registered resources (wgpu, vulkan) expect the host
// to register them on the returned device before building a graph.
package backend
