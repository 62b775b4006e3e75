// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rdg"
	"github.com/gogpu/rdg/backend"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	backend.Register(backend.WGPU, func() rdg.Device { return NewDevice(nil) })
}

// Device errors.
var (
	// ErrUnsupportedCommandBuffer is returned when the command buffer cannot
	// record texture barriers.
	ErrUnsupportedCommandBuffer = errors.New("wgpu: command buffer does not support texture transitions")

	// ErrUnknownResource is returned for handles that were not registered.
	ErrUnknownResource = errors.New("wgpu: resource not registered")

	// ErrUnsupportedResource is returned for resource kinds the backend
	// cannot transition.
	ErrUnsupportedResource = errors.New("wgpu: unsupported resource kind")

	// ErrUnsupportedState is returned for states without a texture usage.
	ErrUnsupportedState = errors.New("wgpu: unsupported resource state")

	// ErrNilTexture is returned when registering a nil texture.
	ErrNilTexture = errors.New("wgpu: texture is nil")
)

// TextureTransitioner records texture usage transitions.
// hal.CommandEncoder implements it.
type TextureTransitioner interface {
	TransitionTextures(barriers []hal.TextureBarrier)
}

// textureEntry is a registered texture.
type textureEntry struct {
	texture hal.Texture
	write   gputypes.TextureUsage
}

// usage maps a graph state to the HAL usage of the texture.
func (e textureEntry) usage(s rdg.ResourceState) (gputypes.TextureUsage, error) {
	switch s {
	case rdg.StateWrite:
		return e.write, nil
	case rdg.StateDepthStencil:
		return gputypes.TextureUsageRenderAttachment, nil
	case rdg.StateRead:
		return gputypes.TextureUsageTextureBinding, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedState, s)
	}
}

// Device records rdg transitions as HAL texture barriers.
//
// Device is NOT safe for concurrent use; registration and recording must
// happen on the goroutine driving the graph.
type Device struct {
	provider gpucontext.DeviceProvider
	textures map[rdg.Resource]textureEntry
	nextID   uint64
}

// NewDevice creates a device bound to the host's GPU context.
// The provider is passed through unmodified; a nil provider is replaced by
// a provider returning nil objects, for planning without a GPU.
func NewDevice(provider gpucontext.DeviceProvider) *Device {
	if provider == nil {
		provider = nullProvider{}
	}
	return &Device{
		provider: provider,
		textures: make(map[rdg.Resource]textureEntry),
	}
}

// Provider returns the host GPU context.
func (d *Device) Provider() gpucontext.DeviceProvider { return d.provider }

// RegisterTexture makes tex usable in a graph and returns its handle.
//
// write is the usage the texture is in while a pass writes it, typically
// TextureUsageRenderAttachment for color targets or
// TextureUsageStorageBinding for compute outputs. Zero selects
// TextureUsageRenderAttachment.
func (d *Device) RegisterTexture(tex hal.Texture, write gputypes.TextureUsage) (rdg.Resource, error) {
	if tex == nil {
		return rdg.Resource{}, ErrNilTexture
	}
	if write == 0 {
		write = gputypes.TextureUsageRenderAttachment
	}
	d.nextID++
	r := rdg.Texture(d.nextID)
	d.textures[r] = textureEntry{texture: tex, write: write}
	return r, nil
}

// Unregister forgets a handle. The texture itself is not destroyed.
func (d *Device) Unregister(r rdg.Resource) {
	delete(d.textures, r)
}

// Texture returns the texture registered for r.
func (d *Device) Texture(r rdg.Resource) (hal.Texture, bool) {
	e, ok := d.textures[r]
	return e.texture, ok
}

// Barriers converts graph transitions to HAL texture barriers.
// Transitions between states mapping to the same usage are dropped.
func (d *Device) Barriers(transitions []rdg.Transition) ([]hal.TextureBarrier, error) {
	barriers := make([]hal.TextureBarrier, 0, len(transitions))
	for _, t := range transitions {
		if t.Resource.Kind != rdg.KindTexture {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedResource, t.Resource)
		}
		e, ok := d.textures[t.Resource]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownResource, t.Resource)
		}
		from, err := e.usage(t.From)
		if err != nil {
			return nil, fmt.Errorf("transition %s: %w", t, err)
		}
		to, err := e.usage(t.To)
		if err != nil {
			return nil, fmt.Errorf("transition %s: %w", t, err)
		}
		if from == to {
			continue
		}
		barriers = append(barriers, hal.TextureBarrier{
			Texture: e.texture,
			Usage: hal.TextureUsageTransition{
				OldUsage: from,
				NewUsage: to,
			},
		})
	}
	return barriers, nil
}

// ApplyTransitions records the transitions into cmd, which must implement
// TextureTransitioner (a hal.CommandEncoder does). This is a no-op on
// Metal, GLES, software, and noop HAL backends.
func (d *Device) ApplyTransitions(cmd rdg.CommandBuffer, transitions []rdg.Transition) error {
	enc, ok := cmd.(TextureTransitioner)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrUnsupportedCommandBuffer, cmd)
	}
	barriers, err := d.Barriers(transitions)
	if err != nil {
		return err
	}
	if len(barriers) == 0 {
		return nil
	}
	enc.TransitionTextures(barriers)
	rdg.Logger().Debug("wgpu: texture barriers recorded", "count", len(barriers))
	return nil
}

// nullProvider is a DeviceProvider that provides nil implementations.
type nullProvider struct{}

func (nullProvider) Device() gpucontext.Device   { return nil }
func (nullProvider) Queue() gpucontext.Queue     { return nil }
func (nullProvider) Adapter() gpucontext.Adapter { return nil }
func (nullProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure the adapters implement their interfaces.
var (
	_ rdg.Device                = (*Device)(nil)
	_ gpucontext.DeviceProvider = nullProvider{}
)
