// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.label != "" {
		t.Errorf("default label = %q, want empty", o.label)
	}
	d := PassDescriptor{Name: "x", Outputs: []Resource{Texture(1)}}
	if o.identity == nil || o.identity(d) != Identity(d) {
		t.Error("default identity function is not Identity")
	}
}

func TestWithIdentityFunc(t *testing.T) {
	calls := 0
	fn := func(d PassDescriptor) PassID {
		calls++
		var id PassID
		copy(id[:], d.Name)
		return id
	}
	b := NewBuilder(nil, WithIdentityFunc(fn))

	id, err := b.AddPass("x", nil, []Resource{Texture(1)}, nil)
	if err != nil {
		t.Fatalf("AddPass() = %v", err)
	}
	if calls != 1 || id[0] != 'x' {
		t.Errorf("custom identity not used: calls=%d id=%s", calls, id)
	}

	// nil restores the default fingerprint.
	b = NewBuilder(nil, WithIdentityFunc(fn), WithIdentityFunc(nil))
	id, err = b.AddPass("x", nil, []Resource{Texture(1)}, nil)
	if err != nil {
		t.Fatalf("AddPass() = %v", err)
	}
	if want := Identity(PassDescriptor{Name: "x", Outputs: []Resource{Texture(1)}}); id != want {
		t.Errorf("AddPass() = %s, want default identity %s", id, want)
	}
}

func TestWithLabel(t *testing.T) {
	b := NewBuilder(nil, WithLabel("frame"))
	g, err := NewGraph(b)
	if err != nil {
		t.Fatalf("NewGraph() = %v", err)
	}
	defer g.Close()

	if g.Label() != "frame" {
		t.Errorf("Label() = %q, want %q", g.Label(), "frame")
	}
}
