// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides an rdg.Device that records resource transitions
// with the gogpu/wgpu HAL.
//
// The host registers the hal.Texture objects it owns and hands the
// returned rdg.Resource handles to rdg.Builder.AddPass. At execution time
// the graph passes a hal.CommandEncoder as the command buffer, and the
// device records one TransitionTextures batch per pass:
//
//	write          -> the texture's write usage (RenderAttachment by default)
//	depth-stencil  -> RenderAttachment
//	read           -> TextureBinding
//
// Transitions whose old and new usage are equal are dropped. Buffers are
// not supported by this backend.
//
// Example:
//
//	dev := wgpu.NewDevice(provider)
//	albedo, err := dev.RegisterTexture(albedoTex, 0)
//	b := rdg.NewBuilder(dev)
//	// ...
//	encoder, _ := halDevice.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "frame"})
//	_ = g.BeginPass(lighting, encoder)
package wgpu
