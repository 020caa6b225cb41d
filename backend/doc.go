// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend defines the command catalogue and the device
// execution target for cmdbuf.
//
// The core cmdbuf package only knows the generic recording machinery:
// a 16-byte header, a payload, and a trampoline. This package supplies
// the concrete payload types (SetViewportCommand, DrawArraysCommand,
// ...) and the Device interface their Execute methods call into.
//
// # Device binding
//
// Command payloads must stay pointer-free because buffer pages are
// opaque to the garbage collector. Payloads therefore never hold a
// device pointer; instead the package keeps one active Device behind
// an atomic pointer, configured with SetDevice. GPU resources are
// likewise referenced by typed handles (ShaderRef, TextureRef,
// BufferRef) resolved through a ResourceTable rather than stored in
// payloads.
//
// # Choosing a device
//
// Devices are registered by name, following the database/sql driver
// pattern:
//
//	dev, err := backend.NewDevice("wgpu")
//	if err != nil {
//	    // fall back to the always-available "nop" device
//	    dev = backend.MustDevice("nop")
//	}
//	backend.SetDevice(dev)
//
// The "nop" and "trace" devices are registered by default; "trace"
// records every call it receives and is mainly useful in tests.
package backend
