// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import (
	"errors"
	"testing"
)

func TestNewBuilder_NilDevice(t *testing.T) {
	b := NewBuilder(nil)
	if _, ok := b.Device().(NullDevice); !ok {
		t.Errorf("Device() = %T, want NullDevice", b.Device())
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestNewBuilder_PassesDeviceThrough(t *testing.T) {
	dev := &recordingDevice{}
	b := NewBuilder(dev)
	if b.Device() != dev {
		t.Error("Device() did not return the device given to NewBuilder")
	}
}

func TestBuilder_AddPassReturnsIdentity(t *testing.T) {
	b := NewBuilder(nil)
	depth := Texture(4)
	id, err := b.AddPass("gbuffer", nil, []Resource{Texture(1)}, &depth)
	if err != nil {
		t.Fatalf("AddPass() = %v", err)
	}

	want := Identity(PassDescriptor{Name: "gbuffer", Outputs: []Resource{Texture(1)}, DepthTarget: &depth})
	if id != want {
		t.Errorf("AddPass() = %s, want %s", id, want)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBuilder_AddPassRejectsAliasing(t *testing.T) {
	b := NewBuilder(nil)
	a := Texture(1)

	id, err := b.AddPass("inplace", []Resource{a}, []Resource{a}, nil)
	if !errors.Is(err, ErrInvalidPassDescriptor) {
		t.Fatalf("AddPass() = %v, want ErrInvalidPassDescriptor", err)
	}
	if !id.IsZero() {
		t.Errorf("AddPass() returned identity %s on error", id)
	}
	if b.Len() != 0 {
		t.Fatalf("rejected pass was added: Len() = %d", b.Len())
	}

	ok, err := b.AddPass("blur", []Resource{a}, []Resource{Texture(2)}, nil)
	if err != nil {
		t.Fatalf("AddPass(blur) = %v", err)
	}

	g, err := NewGraph(b)
	if err != nil {
		t.Fatalf("NewGraph() = %v", err)
	}
	defer g.Close()

	for _, p := range g.Passes() {
		if p.Name == "inplace" {
			t.Error("rejected pass is present in the built graph")
		}
	}
	if ids := g.IDs(); len(ids) != 1 || ids[0] != ok {
		t.Errorf("IDs() = %v, want [%s]", ids, ok)
	}
}

func TestBuilder_AddPassCopiesSlices(t *testing.T) {
	b := NewBuilder(nil)
	inputs := []Resource{Texture(1)}
	outputs := []Resource{Texture(2)}
	depth := Texture(3)

	if _, err := b.AddPass("blur", inputs, outputs, &depth); err != nil {
		t.Fatalf("AddPass() = %v", err)
	}
	inputs[0] = Texture(9)
	outputs[0] = Texture(9)
	depth = Texture(9)

	p := b.Passes()[0]
	if p.Inputs[0] != Texture(1) || p.Outputs[0] != Texture(2) || *p.DepthTarget != Texture(3) {
		t.Errorf("builder shares caller memory: %+v", p)
	}
}

func TestBuilder_DuplicateContent(t *testing.T) {
	b := NewBuilder(nil)
	first, err := b.AddPass("blur", []Resource{Texture(1)}, []Resource{Texture(2)}, nil)
	if err != nil {
		t.Fatalf("AddPass() = %v", err)
	}
	second, err := b.AddPass("blur", []Resource{Texture(1)}, []Resource{Texture(2)}, nil)
	if err != nil {
		t.Fatalf("AddPass() = %v", err)
	}
	if first != second {
		t.Errorf("duplicate content produced different identities: %s vs %s", first, second)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBuilder_ConsumedByGraph(t *testing.T) {
	b := NewBuilder(nil)
	deferredScenario(t, b)

	g, err := NewGraph(b)
	if err != nil {
		t.Fatalf("NewGraph() = %v", err)
	}
	defer g.Close()

	if !b.Consumed() {
		t.Error("Consumed() = false after NewGraph")
	}
	if b.Len() != 0 {
		t.Errorf("consumed builder still holds %d passes", b.Len())
	}
	if _, err := b.AddPass("late", nil, []Resource{Texture(7)}, nil); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("AddPass() after NewGraph = %v, want ErrBuilderConsumed", err)
	}
	if _, err := NewGraph(b); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("second NewGraph() = %v, want ErrBuilderConsumed", err)
	}
	if g.Len() != 2 {
		t.Errorf("graph Len() = %d, want 2", g.Len())
	}
}

func TestNewGraph_NilBuilder(t *testing.T) {
	if _, err := NewGraph(nil); !errors.Is(err, ErrNilBuilder) {
		t.Errorf("NewGraph(nil) = %v, want ErrNilBuilder", err)
	}
}
