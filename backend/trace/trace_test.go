// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"errors"
	"testing"

	"github.com/gogpu/rdg"
	"github.com/gogpu/rdg/backend"
)

func TestDevice_RecordsFrame(t *testing.T) {
	dev := NewDevice()
	dev.Name(rdg.Texture(1), "albedo")

	b := rdg.NewBuilder(dev)
	depth := rdg.Texture(3)
	draw, err := b.AddPass("draw", nil, []rdg.Resource{rdg.Texture(1)}, &depth)
	if err != nil {
		t.Fatalf("AddPass(draw) = %v", err)
	}
	post, err := b.AddPass("post", []rdg.Resource{rdg.Texture(1), rdg.Texture(3)}, []rdg.Resource{rdg.Texture(2)}, nil)
	if err != nil {
		t.Fatalf("AddPass(post) = %v", err)
	}

	g, err := rdg.NewGraph(b)
	if err != nil {
		t.Fatalf("NewGraph() = %v", err)
	}
	cmd := NewCommandBuffer("frame")
	for _, id := range []rdg.PassID{draw, post} {
		if err := g.BeginPass(id, cmd); err != nil {
			t.Fatalf("BeginPass() = %v", err)
		}
		if err := g.EndPass(cmd); err != nil {
			t.Fatalf("EndPass() = %v", err)
		}
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	want := "begin draw\n" +
		"end draw\n" +
		"barrier albedo: write -> read\n" +
		"barrier texture#3: depth-stencil -> read\n" +
		"begin post\n" +
		"end post\n"
	if got := cmd.String(); got != want {
		t.Errorf("trace =\n%s\nwant\n%s", got, want)
	}

	barriers := cmd.Barriers()
	if len(barriers) != 2 || barriers[1].Resource != rdg.Texture(3) {
		t.Errorf("Barriers() = %v", barriers)
	}
	if cmd.Label() != "frame" {
		t.Errorf("Label() = %q", cmd.Label())
	}
}

func TestDevice_RejectsForeignCommandBuffer(t *testing.T) {
	dev := NewDevice()
	ts := []rdg.Transition{{Resource: rdg.Texture(1), From: rdg.StateWrite, To: rdg.StateRead}}

	for _, cmd := range []rdg.CommandBuffer{nil, "cmd", (*CommandBuffer)(nil)} {
		if err := dev.ApplyTransitions(cmd, ts); !errors.Is(err, ErrUnsupportedCommandBuffer) {
			t.Errorf("ApplyTransitions(%T) = %v, want ErrUnsupportedCommandBuffer", cmd, err)
		}
	}

	// Markers on foreign command buffers are ignored.
	dev.BeginPassMarker("cmd", "x")
	dev.EndPassMarker(nil)
}

func TestCommandBuffer_Reset(t *testing.T) {
	dev := NewDevice()
	cmd := NewCommandBuffer("")
	dev.BeginPassMarker(cmd, "a")
	dev.EndPassMarker(cmd)
	if len(cmd.Events()) != 2 {
		t.Fatalf("Events() = %v, want 2 events", cmd.Events())
	}

	cmd.Reset()
	if len(cmd.Events()) != 0 || cmd.String() != "" {
		t.Errorf("Reset() left events: %q", cmd.String())
	}

	// An unmatched end has no pass name.
	dev.EndPassMarker(cmd)
	if got := cmd.Events()[0].String(); got != "end " {
		t.Errorf("unmatched end = %q", got)
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := backend.Get(backend.Trace).(*Device); !ok {
		t.Errorf("backend.Get(%q) is not a *trace.Device", backend.Trace)
	}
}
