// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"slices"
)

// PassDescriptor describes one pass: its diagnostic name, the resources it
// reads, the resources it writes, and an optional depth/stencil attachment.
//
// Order inside Inputs and Outputs has no effect on scheduling but is part
// of the pass identity.
type PassDescriptor struct {
	// Name is a human-readable label. It need not be unique.
	Name string

	// Inputs are the resources read by the pass. May be empty.
	Inputs []Resource

	// Outputs are the resources written by the pass.
	Outputs []Resource

	// DepthTarget is the optional depth/stencil attachment.
	DepthTarget *Resource
}

// Validate checks that no resource is used in two roles of the same pass.
// A resource listed in both Inputs and Outputs, or a depth target that is
// also an input or output, is rejected with ErrInvalidPassDescriptor.
func (d PassDescriptor) Validate() error {
	if len(d.Inputs) > 0 && len(d.Outputs) > 0 {
		reads := make(map[Resource]struct{}, len(d.Inputs))
		for _, r := range d.Inputs {
			reads[r] = struct{}{}
		}
		for _, r := range d.Outputs {
			if _, ok := reads[r]; ok {
				return fmt.Errorf("%w: pass %q reads and writes %s", ErrInvalidPassDescriptor, d.Name, r)
			}
		}
	}
	if d.DepthTarget != nil {
		depth := *d.DepthTarget
		if slices.Contains(d.Inputs, depth) {
			return fmt.Errorf("%w: pass %q reads its depth target %s", ErrInvalidPassDescriptor, d.Name, depth)
		}
		if slices.Contains(d.Outputs, depth) {
			return fmt.Errorf("%w: pass %q lists depth target %s as an output", ErrInvalidPassDescriptor, d.Name, depth)
		}
	}
	return nil
}

// Clone returns a deep copy of d that shares no memory with it.
func (d PassDescriptor) Clone() PassDescriptor {
	c := PassDescriptor{
		Name:    d.Name,
		Inputs:  slices.Clone(d.Inputs),
		Outputs: slices.Clone(d.Outputs),
	}
	if d.DepthTarget != nil {
		depth := *d.DepthTarget
		c.DepthTarget = &depth
	}
	return c
}

// Equal reports whether d and o have identical content.
// A nil slice and an empty slice are considered equal.
func (d PassDescriptor) Equal(o PassDescriptor) bool {
	if d.Name != o.Name || !slices.Equal(d.Inputs, o.Inputs) || !slices.Equal(d.Outputs, o.Outputs) {
		return false
	}
	if (d.DepthTarget == nil) != (o.DepthTarget == nil) {
		return false
	}
	return d.DepthTarget == nil || *d.DepthTarget == *o.DepthTarget
}

// PassID is the content fingerprint of a PassDescriptor. It is the handle
// returned by AddPass and the key validated by BeginPass.
type PassID [sha256.Size]byte

// String renders the first 8 bytes of the identity in hex.
func (id PassID) String() string {
	return hex.EncodeToString(id[:8])
}

// IsZero reports whether id is the zero identity.
func (id PassID) IsZero() bool { return id == PassID{} }

// IdentityFunc computes the identity of a descriptor.
type IdentityFunc func(PassDescriptor) PassID

// Identity returns the SHA-256 fingerprint of d.
//
// Every field is length-prefixed so that moving a resource from Inputs to
// Outputs, or bytes from one name to another, changes the digest.
// Identical content always produces an identical PassID.
func Identity(d PassDescriptor) PassID {
	h := sha256.New()

	writeString(h, d.Name)
	writeResources(h, d.Inputs)
	writeResources(h, d.Outputs)
	if d.DepthTarget != nil {
		h.Write([]byte{1})
		writeResource(h, *d.DepthTarget)
	} else {
		h.Write([]byte{0})
	}

	var id PassID
	h.Sum(id[:0])
	return id
}

func writeString(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

func writeResources(h hash.Hash, rs []Resource) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(rs)))
	h.Write(n[:])
	for _, r := range rs {
		writeResource(h, r)
	}
}

func writeResource(h hash.Hash, r Resource) {
	var b [9]byte
	b[0] = byte(r.Kind)
	binary.BigEndian.PutUint64(b[1:], r.ID)
	h.Write(b[:])
}
