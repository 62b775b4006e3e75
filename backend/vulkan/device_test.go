// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build vulkan

package vulkan

import (
	"errors"
	"testing"

	"github.com/gogpu/rdg"
	vk "github.com/vulkan-go/vulkan"
)

func TestBarriers_Images(t *testing.T) {
	d := NewDevice()
	var img vk.Image
	color := d.RegisterImage(img, vk.ImageAspectFlags(vk.ImageAspectColorBit), WriteColorAttachment)
	storage := d.RegisterImage(img, vk.ImageAspectFlags(vk.ImageAspectColorBit), WriteStorage)
	depth := d.RegisterImage(img, vk.ImageAspectFlags(vk.ImageAspectDepthBit), WriteColorAttachment)

	tests := []struct {
		name     string
		in       rdg.Transition
		old, new vk.ImageLayout
		src, dst vk.AccessFlags
	}{
		{"color write to read", rdg.Transition{Resource: color, From: rdg.StateWrite, To: rdg.StateRead},
			vk.ImageLayoutColorAttachmentOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
			vk.AccessFlags(vk.AccessColorAttachmentWriteBit), vk.AccessFlags(vk.AccessShaderReadBit)},
		{"storage write to read", rdg.Transition{Resource: storage, From: rdg.StateWrite, To: rdg.StateRead},
			vk.ImageLayoutGeneral, vk.ImageLayoutShaderReadOnlyOptimal,
			vk.AccessFlags(vk.AccessShaderWriteBit), vk.AccessFlags(vk.AccessShaderReadBit)},
		{"depth to read", rdg.Transition{Resource: depth, From: rdg.StateDepthStencil, To: rdg.StateRead},
			vk.ImageLayoutDepthStencilAttachmentOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
			vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit) | vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit),
			vk.AccessFlags(vk.AccessShaderReadBit)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := d.Barriers([]rdg.Transition{tt.in})
			if err != nil {
				t.Fatalf("Barriers() = %v", err)
			}
			if len(b.Images) != 1 || len(b.Buffers) != 0 {
				t.Fatalf("Barriers() = %d images, %d buffers", len(b.Images), len(b.Buffers))
			}
			got := b.Images[0]
			if got.OldLayout != tt.old || got.NewLayout != tt.new {
				t.Errorf("layout = %v -> %v, want %v -> %v", got.OldLayout, got.NewLayout, tt.old, tt.new)
			}
			if got.SrcAccessMask != tt.src || got.DstAccessMask != tt.dst {
				t.Errorf("access = %v -> %v, want %v -> %v", got.SrcAccessMask, got.DstAccessMask, tt.src, tt.dst)
			}
			if got.SType != vk.StructureTypeImageMemoryBarrier {
				t.Errorf("SType = %v", got.SType)
			}
		})
	}
}

func TestBarriers_Buffer(t *testing.T) {
	d := NewDevice()
	var buf vk.Buffer
	r := d.RegisterBuffer(buf)

	b, err := d.Barriers([]rdg.Transition{{Resource: r, From: rdg.StateWrite, To: rdg.StateRead}})
	if err != nil {
		t.Fatalf("Barriers() = %v", err)
	}
	if len(b.Buffers) != 1 {
		t.Fatalf("Barriers() = %d buffers, want 1", len(b.Buffers))
	}
	if b.Buffers[0].Size != vk.DeviceSize(vk.WholeSize) {
		t.Errorf("Size = %v, want whole size", b.Buffers[0].Size)
	}

	_, err = d.Barriers([]rdg.Transition{{Resource: r, From: rdg.StateDepthStencil, To: rdg.StateRead}})
	if !errors.Is(err, ErrUnsupportedState) {
		t.Errorf("depth buffer transition = %v, want ErrUnsupportedState", err)
	}
}

func TestBarriers_Unknown(t *testing.T) {
	d := NewDevice()
	for _, r := range []rdg.Resource{rdg.Texture(1), rdg.Buffer(1), {}} {
		_, err := d.Barriers([]rdg.Transition{{Resource: r, From: rdg.StateWrite, To: rdg.StateRead}})
		if !errors.Is(err, ErrUnknownResource) {
			t.Errorf("Barriers(%v) = %v, want ErrUnknownResource", r, err)
		}
	}
}

func TestApplyTransitions_SingleBarrierPerPass(t *testing.T) {
	d := NewDevice()
	var batches []Batch
	d.record = func(_ vk.CommandBuffer, b Batch) { batches = append(batches, b) }

	var img vk.Image
	var buf vk.Buffer
	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	albedo := d.RegisterImage(img, aspect, WriteColorAttachment)
	normal := d.RegisterImage(img, aspect, WriteColorAttachment)
	lights := d.RegisterBuffer(buf)
	out := d.RegisterImage(img, aspect, WriteStorage)

	b := rdg.NewBuilder(d)
	gbuffer, _ := b.AddPass("gbuffer", nil, []rdg.Resource{albedo, normal}, nil)
	cull, _ := b.AddPass("cull", nil, []rdg.Resource{lights}, nil)
	shade, _ := b.AddPass("shade", []rdg.Resource{albedo, normal, lights}, []rdg.Resource{out}, nil)
	g, err := rdg.NewGraph(b)
	if err != nil {
		t.Fatalf("NewGraph() = %v", err)
	}

	var cmd vk.CommandBuffer
	for _, id := range []rdg.PassID{gbuffer, cull, shade} {
		if err := g.BeginPass(id, cmd); err != nil {
			t.Fatalf("BeginPass() = %v", err)
		}
		if err := g.EndPass(cmd); err != nil {
			t.Fatalf("EndPass() = %v", err)
		}
	}

	if len(batches) != 1 {
		t.Fatalf("recorded %d barrier calls, want 1", len(batches))
	}
	got := batches[0]
	if len(got.Images) != 2 || len(got.Buffers) != 1 {
		t.Errorf("batch = %d images, %d buffers, want 2 and 1", len(got.Images), len(got.Buffers))
	}
	wantSrc := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit) | shaderStages
	if got.SrcStage != wantSrc || got.DstStage != shaderStages {
		t.Errorf("stages = %v -> %v, want %v -> %v", got.SrcStage, got.DstStage, wantSrc, shaderStages)
	}

	if err := d.ApplyTransitions("cmd", nil); !errors.Is(err, ErrUnsupportedCommandBuffer) {
		t.Errorf("ApplyTransitions(string) = %v, want ErrUnsupportedCommandBuffer", err)
	}
}
