// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build vulkan

// Package vulkan provides an rdg.Device that records transitions as a
// single vkCmdPipelineBarrier per pass using github.com/vulkan-go/vulkan.
//
// The package requires cgo and a Vulkan loader, so it is only built with
// the "vulkan" build tag:
//
//	go build -tags vulkan ./...
//
// The host initializes the loader (vk.SetDefaultGetInstanceProcAddr and
// vk.Init) and registers the images and buffers it owns. The command
// buffer passed to rdg.Graph.BeginPass must be a vk.CommandBuffer in the
// recording state.
package vulkan

import (
	"errors"
	"fmt"

	"github.com/gogpu/rdg"
	"github.com/gogpu/rdg/backend"
	vk "github.com/vulkan-go/vulkan"
)

func init() {
	backend.Register(backend.Vulkan, func() rdg.Device { return NewDevice() })
}

// Device errors.
var (
	// ErrUnsupportedCommandBuffer is returned when the command buffer is
	// not a vk.CommandBuffer.
	ErrUnsupportedCommandBuffer = errors.New("vulkan: command buffer is not a vk.CommandBuffer")

	// ErrUnknownResource is returned for handles that were not registered.
	ErrUnknownResource = errors.New("vulkan: resource not registered")

	// ErrUnsupportedState is returned for states a resource kind cannot be in.
	ErrUnsupportedState = errors.New("vulkan: unsupported resource state")
)

// WriteUsage selects how a pass writes an image.
type WriteUsage uint8

const (
	// WriteColorAttachment writes through a color attachment.
	WriteColorAttachment WriteUsage = iota

	// WriteStorage writes through a storage image in a compute shader.
	WriteStorage
)

// scope is one side of a barrier.
type scope struct {
	layout vk.ImageLayout
	access vk.AccessFlags
	stage  vk.PipelineStageFlags
}

const (
	shaderStages = vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit) |
		vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit)
	depthStages = vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit) |
		vk.PipelineStageFlags(vk.PipelineStageLateFragmentTestsBit)
)

func imageScope(s rdg.ResourceState, write WriteUsage) (scope, error) {
	switch s {
	case rdg.StateWrite:
		if write == WriteStorage {
			return scope{
				layout: vk.ImageLayoutGeneral,
				access: vk.AccessFlags(vk.AccessShaderWriteBit),
				stage:  vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
			}, nil
		}
		return scope{
			layout: vk.ImageLayoutColorAttachmentOptimal,
			access: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			stage:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}, nil
	case rdg.StateDepthStencil:
		return scope{
			layout: vk.ImageLayoutDepthStencilAttachmentOptimal,
			access: vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit) |
				vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit),
			stage: depthStages,
		}, nil
	case rdg.StateRead:
		return scope{
			layout: vk.ImageLayoutShaderReadOnlyOptimal,
			access: vk.AccessFlags(vk.AccessShaderReadBit),
			stage:  shaderStages,
		}, nil
	default:
		return scope{}, fmt.Errorf("%w: image %s", ErrUnsupportedState, s)
	}
}

func bufferScope(s rdg.ResourceState) (scope, error) {
	switch s {
	case rdg.StateWrite:
		return scope{access: vk.AccessFlags(vk.AccessShaderWriteBit), stage: shaderStages}, nil
	case rdg.StateRead:
		return scope{access: vk.AccessFlags(vk.AccessShaderReadBit), stage: shaderStages}, nil
	default:
		return scope{}, fmt.Errorf("%w: buffer %s", ErrUnsupportedState, s)
	}
}

type imageEntry struct {
	image  vk.Image
	aspect vk.ImageAspectFlags
	write  WriteUsage
}

// Batch is the content of one vkCmdPipelineBarrier call.
type Batch struct {
	SrcStage vk.PipelineStageFlags
	DstStage vk.PipelineStageFlags
	Buffers  []vk.BufferMemoryBarrier
	Images   []vk.ImageMemoryBarrier
}

// Empty reports whether the batch has no barriers.
func (b Batch) Empty() bool { return len(b.Buffers) == 0 && len(b.Images) == 0 }

// Device records rdg transitions as Vulkan pipeline barriers.
// It is NOT safe for concurrent use.
type Device struct {
	images  map[rdg.Resource]imageEntry
	buffers map[rdg.Resource]vk.Buffer
	next    [2]uint64

	record func(vk.CommandBuffer, Batch)
}

// NewDevice creates a Vulkan device adapter.
func NewDevice() *Device {
	return &Device{
		images:  make(map[rdg.Resource]imageEntry),
		buffers: make(map[rdg.Resource]vk.Buffer),
		record:  cmdPipelineBarrier,
	}
}

// RegisterImage makes img usable in a graph. aspect is the image aspect
// covered by barriers, e.g. vk.ImageAspectColorBit or
// vk.ImageAspectDepthBit. All mip levels and array layers are covered.
func (d *Device) RegisterImage(img vk.Image, aspect vk.ImageAspectFlags, write WriteUsage) rdg.Resource {
	d.next[0]++
	r := rdg.Texture(d.next[0])
	d.images[r] = imageEntry{image: img, aspect: aspect, write: write}
	return r
}

// RegisterBuffer makes buf usable in a graph. Barriers cover the whole
// buffer.
func (d *Device) RegisterBuffer(buf vk.Buffer) rdg.Resource {
	d.next[1]++
	r := rdg.Buffer(d.next[1])
	d.buffers[r] = buf
	return r
}

// Unregister forgets a handle. The Vulkan object is not destroyed.
func (d *Device) Unregister(r rdg.Resource) {
	delete(d.images, r)
	delete(d.buffers, r)
}

// Barriers converts graph transitions into one barrier batch. The stage
// masks are the union of all transitions in the batch.
func (d *Device) Barriers(transitions []rdg.Transition) (Batch, error) {
	var b Batch
	for _, t := range transitions {
		switch t.Resource.Kind {
		case rdg.KindTexture:
			e, ok := d.images[t.Resource]
			if !ok {
				return Batch{}, fmt.Errorf("%w: %s", ErrUnknownResource, t.Resource)
			}
			src, err := imageScope(t.From, e.write)
			if err != nil {
				return Batch{}, fmt.Errorf("transition %s: %w", t, err)
			}
			dst, err := imageScope(t.To, e.write)
			if err != nil {
				return Batch{}, fmt.Errorf("transition %s: %w", t, err)
			}
			b.SrcStage |= src.stage
			b.DstStage |= dst.stage
			b.Images = append(b.Images, vk.ImageMemoryBarrier{
				SType:               vk.StructureTypeImageMemoryBarrier,
				SrcAccessMask:       src.access,
				DstAccessMask:       dst.access,
				OldLayout:           src.layout,
				NewLayout:           dst.layout,
				SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
				DstQueueFamilyIndex: vk.QueueFamilyIgnored,
				Image:               e.image,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask:     e.aspect,
					BaseMipLevel:   0,
					LevelCount:     vk.RemainingMipLevels,
					BaseArrayLayer: 0,
					LayerCount:     vk.RemainingArrayLayers,
				},
			})
		case rdg.KindBuffer:
			buf, ok := d.buffers[t.Resource]
			if !ok {
				return Batch{}, fmt.Errorf("%w: %s", ErrUnknownResource, t.Resource)
			}
			src, err := bufferScope(t.From)
			if err != nil {
				return Batch{}, fmt.Errorf("transition %s: %w", t, err)
			}
			dst, err := bufferScope(t.To)
			if err != nil {
				return Batch{}, fmt.Errorf("transition %s: %w", t, err)
			}
			b.SrcStage |= src.stage
			b.DstStage |= dst.stage
			b.Buffers = append(b.Buffers, vk.BufferMemoryBarrier{
				SType:               vk.StructureTypeBufferMemoryBarrier,
				SrcAccessMask:       src.access,
				DstAccessMask:       dst.access,
				SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
				DstQueueFamilyIndex: vk.QueueFamilyIgnored,
				Buffer:              buf,
				Offset:              0,
				Size:                vk.DeviceSize(vk.WholeSize),
			})
		default:
			return Batch{}, fmt.Errorf("%w: %s", ErrUnknownResource, t.Resource)
		}
	}
	return b, nil
}

// ApplyTransitions records all transitions with one pipeline barrier.
func (d *Device) ApplyTransitions(cmd rdg.CommandBuffer, transitions []rdg.Transition) error {
	cb, ok := cmd.(vk.CommandBuffer)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrUnsupportedCommandBuffer, cmd)
	}
	b, err := d.Barriers(transitions)
	if err != nil {
		return err
	}
	if b.Empty() {
		return nil
	}
	d.record(cb, b)
	rdg.Logger().Debug("vulkan: pipeline barrier recorded",
		"images", len(b.Images), "buffers", len(b.Buffers))
	return nil
}

func cmdPipelineBarrier(cb vk.CommandBuffer, b Batch) {
	vk.CmdPipelineBarrier(cb, b.SrcStage, b.DstStage, 0,
		0, nil,
		uint32(len(b.Buffers)), b.Buffers,
		uint32(len(b.Images)), b.Images)
}

// Ensure Device implements rdg.Device.
var _ rdg.Device = (*Device)(nil)
