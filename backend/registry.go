// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"sort"
	"sync"
)

// DeviceFactory is a function that creates a new device instance.
// Factories are registered via Register() and called by NewDevice().
type DeviceFactory func() Device

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	devices    = make(map[string]DeviceFactory)
)

// Register registers a device factory with the given name. This is
// typically called from init() in device packages, following the
// database/sql driver pattern:
//
//	func init() {
//	    backend.Register("gl", func() backend.Device {
//	        return NewGLDevice()
//	    })
//	}
//
// Register panics if factory is nil or a device with the same name is
// already registered, so duplicate registrations are caught during
// program initialization rather than silently overwriting devices.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if _, dup := devices[name]; dup {
		panic("backend: Register called twice for " + name)
	}
	devices[name] = factory
}

// Unregister removes a device from the registry. This is primarily
// useful for testing to clean up between tests. If the device is not
// registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(devices, name)
}

// NewDevice creates a new device instance by name. The name must match
// a previously registered device.
//
// Returns an error if the device is not registered. The error message
// includes a hint about forgotten imports.
func NewDevice(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := devices[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend: unknown device %q (forgotten import?)", name)
	}
	return factory(), nil
}

// MustDevice creates a new device instance by name, panicking on
// error. This is useful when device availability is guaranteed, such
// as the built-in "nop" device.
func MustDevice(name string) Device {
	d, err := NewDevice(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Devices returns a sorted list of registered device names.
func Devices() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a device with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := devices[name]
	return ok
}

func init() {
	Register("nop", func() Device { return NopDevice{} })
	Register("trace", func() Device { return NewTraceDevice() })
}
