// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"slices"
	"sync"

	"github.com/gogpu/rdg"
)

// Backend names.
const (
	Trace  = "trace"
	WGPU   = "wgpu"
	Vulkan = "vulkan"
)

// ErrBackendNotAvailable is returned when no registered backend matches.
var ErrBackendNotAvailable = errors.New("backend: not available")

// DeviceFactory creates a new device instance.
type DeviceFactory func() rdg.Device

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]DeviceFactory)
	// Priority order for Default (first available wins).
	backendPriority = []string{Vulkan, WGPU, Trace}
)

// Register registers a device factory with the given name.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a new device of the named backend, or nil if the backend is
// not registered.
func Get(name string) rdg.Device {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns a device of the highest priority registered backend.
// Priority order: vulkan > wgpu > trace, then any other registered name.
func Default() (rdg.Device, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if d := factory(); d != nil {
				return d, nil
			}
		}
	}

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if d := backends[name](); d != nil {
			return d, nil
		}
	}
	return nil, ErrBackendNotAvailable
}
