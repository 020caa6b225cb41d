// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// Mat4 is a column-major 4x4 matrix, the layout GPU APIs expect.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ClearMask selects which buffers a clear operation affects.
// Values can be combined with bitwise OR.
type ClearMask uint8

const (
	// ClearColor clears the color buffer.
	ClearColor ClearMask = 1 << iota
	// ClearDepth clears the depth buffer.
	ClearDepth
	// ClearStencil clears the stencil buffer.
	ClearStencil

	// ClearAll clears color, depth, and stencil together.
	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// BlendMode selects how fragments combine with the framebuffer.
type BlendMode uint8

const (
	// BlendNone disables blending.
	BlendNone BlendMode = iota
	// BlendAlpha is standard source-over alpha blending.
	BlendAlpha
	// BlendAdditive adds source onto destination.
	BlendAdditive
	// BlendPremultiplied is source-over with premultiplied alpha.
	BlendPremultiplied
)

// CullMode selects which triangle faces are discarded.
type CullMode uint8

const (
	// CullNone disables face culling.
	CullNone CullMode = iota
	// CullBack discards back faces.
	CullBack
	// CullFront discards front faces.
	CullFront
)

// Device is the downstream execution target for the command catalogue.
// A command's Execute method resolves the active device and calls one
// of these methods; the device owns the actual graphics-API dispatch
// and the GPU resource lifetimes behind the typed references.
//
// Implementations must tolerate being called from the consumer
// goroutine of any window.
type Device interface {
	// State setting
	SetViewport(x, y, width, height int32)
	SetClearColor(c gputypes.Color)
	SetDepthRange(near, far float32)
	SetBlendMode(mode BlendMode)
	SetCullMode(mode CullMode)
	SetDepthTest(enabled bool)
	SetScissor(x, y, width, height int32)

	// Buffer operations
	ClearBuffers(mask ClearMask)

	// Resource binding
	BindShader(shader ShaderRef)
	BindTexture(tex TextureRef, unit uint32)
	BindVertexBuffer(buf BufferRef)
	BindIndexBuffer(buf BufferRef)
	BindUniformBuffer(buf BufferRef, binding uint32)

	// Drawing
	DrawArrays(topology gputypes.PrimitiveTopology, first, count uint32)
	DrawElements(topology gputypes.PrimitiveTopology, count uint32)

	// Transformations
	SetModelMatrix(m Mat4)
	SetViewMatrix(m Mat4)
	SetProjectionMatrix(m Mat4)

	// Material and lighting
	SetMaterialDiffuse(c gputypes.Color)
	SetLightPosition(x, y, z float32)

	// Effects and debug
	BeginPostProcessing()
	EndPostProcessing()
	ApplyBloom(intensity float32)
	DrawDebugText(x, y float32, text string)

	// Synchronization
	Flush()
	Finish()
	InsertFence(id uint64)
}

// NopDevice is a Device that ignores every call. It is the default
// active device, so executing commands before SetDevice is harmless.
type NopDevice struct{}

func (NopDevice) SetViewport(x, y, width, height int32)                        {}
func (NopDevice) SetClearColor(c gputypes.Color)                               {}
func (NopDevice) SetDepthRange(near, far float32)                              {}
func (NopDevice) SetBlendMode(mode BlendMode)                                  {}
func (NopDevice) SetCullMode(mode CullMode)                                    {}
func (NopDevice) SetDepthTest(enabled bool)                                    {}
func (NopDevice) SetScissor(x, y, width, height int32)                         {}
func (NopDevice) ClearBuffers(mask ClearMask)                                  {}
func (NopDevice) BindShader(shader ShaderRef)                                  {}
func (NopDevice) BindTexture(tex TextureRef, unit uint32)                      {}
func (NopDevice) BindVertexBuffer(buf BufferRef)                               {}
func (NopDevice) BindIndexBuffer(buf BufferRef)                                {}
func (NopDevice) BindUniformBuffer(buf BufferRef, binding uint32)              {}
func (NopDevice) DrawArrays(t gputypes.PrimitiveTopology, first, count uint32) {}
func (NopDevice) DrawElements(t gputypes.PrimitiveTopology, count uint32)      {}
func (NopDevice) SetModelMatrix(m Mat4)                                        {}
func (NopDevice) SetViewMatrix(m Mat4)                                         {}
func (NopDevice) SetProjectionMatrix(m Mat4)                                   {}
func (NopDevice) SetMaterialDiffuse(c gputypes.Color)                          {}
func (NopDevice) SetLightPosition(x, y, z float32)                             {}
func (NopDevice) BeginPostProcessing()                                         {}
func (NopDevice) EndPostProcessing()                                           {}
func (NopDevice) ApplyBloom(intensity float32)                                 {}
func (NopDevice) DrawDebugText(x, y float32, text string)                      {}
func (NopDevice) Flush()                                                       {}
func (NopDevice) Finish()                                                      {}
func (NopDevice) InsertFence(id uint64)                                        {}

// deviceBox wraps the active Device so it can sit behind an
// atomic.Pointer regardless of its concrete type.
type deviceBox struct{ d Device }

// devicePtr stores the active device. Accessed atomically so that
// SetDevice can race with command execution on consumer goroutines.
var devicePtr atomic.Pointer[deviceBox]

func init() {
	devicePtr.Store(&deviceBox{d: NopDevice{}})
}

// SetDevice installs the execution target for all subsequently
// executed commands. Pass nil to restore the default NopDevice.
//
// SetDevice is safe for concurrent use, but swapping devices while a
// batch is executing splits that batch across both devices; swap
// between frames.
func SetDevice(d Device) {
	if d == nil {
		d = NopDevice{}
	}
	devicePtr.Store(&deviceBox{d: d})
}

// ActiveDevice returns the device commands currently execute against.
func ActiveDevice() Device {
	return devicePtr.Load().d
}
