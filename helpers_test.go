// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import "testing"

// recordingDevice records every ApplyTransitions call.
type recordingDevice struct {
	calls [][]Transition
	cmds  []CommandBuffer
	err   error
}

func (d *recordingDevice) ApplyTransitions(cmd CommandBuffer, ts []Transition) error {
	if d.err != nil {
		return d.err
	}
	d.cmds = append(d.cmds, cmd)
	d.calls = append(d.calls, ts)
	return nil
}

// markingDevice additionally records pass markers.
type markingDevice struct {
	recordingDevice
	markers []string
}

func (d *markingDevice) BeginPassMarker(_ CommandBuffer, name string) {
	d.markers = append(d.markers, "begin "+name)
}

func (d *markingDevice) EndPassMarker(CommandBuffer) {
	d.markers = append(d.markers, "end")
}

// deferredScenario declares the gbuffer/lighting frame used across tests:
// gbuffer writes A, B, C with depth D; lighting reads A, B, C and writes E.
func deferredScenario(t testing.TB, b *Builder) (gbuffer, lighting PassID) {
	t.Helper()
	a, bb, c, d, e := Texture(1), Texture(2), Texture(3), Texture(4), Texture(5)

	var err error
	gbuffer, err = b.AddPass("gbuffer", nil, []Resource{a, bb, c}, &d)
	if err != nil {
		t.Fatalf("AddPass(gbuffer) = %v", err)
	}
	lighting, err = b.AddPass("lighting", []Resource{a, bb, c}, []Resource{e}, nil)
	if err != nil {
		t.Fatalf("AddPass(lighting) = %v", err)
	}
	return gbuffer, lighting
}
