// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rdg

// Option configures a Builder during creation. The configuration is
// carried over to the Graph built from it.
//
// Example:
//
//	b := rdg.NewBuilder(device, rdg.WithLabel("frame"))
type Option func(*options)

// options holds optional configuration for Builder creation.
type options struct {
	label    string
	identity IdentityFunc
}

// defaultOptions returns the default builder options.
func defaultOptions() options {
	return options{
		identity: Identity,
	}
}

// WithLabel sets a label reported in log records and errors of the
// builder and the graph built from it.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithIdentityFunc replaces the function computing pass identities.
// A nil function restores the default SHA-256 fingerprint.
//
// Identities must be deterministic: equal descriptors must map to equal
// identities. Collisions between different descriptors are detected by
// NewGraph.
func WithIdentityFunc(fn IdentityFunc) Option {
	return func(o *options) {
		if fn == nil {
			fn = Identity
		}
		o.identity = fn
	}
}
