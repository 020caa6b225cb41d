// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// TraceDevice is a Device that records every call it receives as a
// formatted string. It is registered under the name "trace" and is
// mainly useful for tests and for diagnosing what a recorded batch
// actually executes.
//
// TraceDevice is safe for concurrent use.
type TraceDevice struct {
	mu    sync.Mutex
	calls []string
}

// NewTraceDevice creates an empty trace device.
func NewTraceDevice() *TraceDevice {
	return &TraceDevice{}
}

// Calls returns a copy of the recorded calls in execution order.
func (d *TraceDevice) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// Len returns the number of recorded calls.
func (d *TraceDevice) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// Clear discards all recorded calls.
func (d *TraceDevice) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = d.calls[:0]
}

func (d *TraceDevice) record(format string, args ...any) {
	d.mu.Lock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	d.mu.Unlock()
}

func (d *TraceDevice) SetViewport(x, y, width, height int32) {
	d.record("SetViewport(%d, %d, %d, %d)", x, y, width, height)
}

func (d *TraceDevice) SetClearColor(c gputypes.Color) {
	d.record("SetClearColor(%v, %v, %v, %v)", c.R, c.G, c.B, c.A)
}

func (d *TraceDevice) SetDepthRange(near, far float32) {
	d.record("SetDepthRange(%v, %v)", near, far)
}

func (d *TraceDevice) SetBlendMode(mode BlendMode) {
	d.record("SetBlendMode(%d)", mode)
}

func (d *TraceDevice) SetCullMode(mode CullMode) {
	d.record("SetCullMode(%d)", mode)
}

func (d *TraceDevice) SetDepthTest(enabled bool) {
	d.record("SetDepthTest(%t)", enabled)
}

func (d *TraceDevice) SetScissor(x, y, width, height int32) {
	d.record("SetScissor(%d, %d, %d, %d)", x, y, width, height)
}

func (d *TraceDevice) ClearBuffers(mask ClearMask) {
	d.record("ClearBuffers(%#x)", uint8(mask))
}

func (d *TraceDevice) BindShader(shader ShaderRef) {
	d.record("BindShader(%d)", uint32(shader))
}

func (d *TraceDevice) BindTexture(tex TextureRef, unit uint32) {
	d.record("BindTexture(%d, %d)", uint32(tex), unit)
}

func (d *TraceDevice) BindVertexBuffer(buf BufferRef) {
	d.record("BindVertexBuffer(%d)", uint32(buf))
}

func (d *TraceDevice) BindIndexBuffer(buf BufferRef) {
	d.record("BindIndexBuffer(%d)", uint32(buf))
}

func (d *TraceDevice) BindUniformBuffer(buf BufferRef, binding uint32) {
	d.record("BindUniformBuffer(%d, %d)", uint32(buf), binding)
}

func (d *TraceDevice) DrawArrays(topology gputypes.PrimitiveTopology, first, count uint32) {
	d.record("DrawArrays(%d, %d, %d)", topology, first, count)
}

func (d *TraceDevice) DrawElements(topology gputypes.PrimitiveTopology, count uint32) {
	d.record("DrawElements(%d, %d)", topology, count)
}

func (d *TraceDevice) SetModelMatrix(m Mat4) {
	d.record("SetModelMatrix(%v)", m)
}

func (d *TraceDevice) SetViewMatrix(m Mat4) {
	d.record("SetViewMatrix(%v)", m)
}

func (d *TraceDevice) SetProjectionMatrix(m Mat4) {
	d.record("SetProjectionMatrix(%v)", m)
}

func (d *TraceDevice) SetMaterialDiffuse(c gputypes.Color) {
	d.record("SetMaterialDiffuse(%v, %v, %v, %v)", c.R, c.G, c.B, c.A)
}

func (d *TraceDevice) SetLightPosition(x, y, z float32) {
	d.record("SetLightPosition(%v, %v, %v)", x, y, z)
}

func (d *TraceDevice) BeginPostProcessing() {
	d.record("BeginPostProcessing()")
}

func (d *TraceDevice) EndPostProcessing() {
	d.record("EndPostProcessing()")
}

func (d *TraceDevice) ApplyBloom(intensity float32) {
	d.record("ApplyBloom(%v)", intensity)
}

func (d *TraceDevice) DrawDebugText(x, y float32, text string) {
	d.record("DrawDebugText(%v, %v, %q)", x, y, text)
}

func (d *TraceDevice) Flush() {
	d.record("Flush()")
}

func (d *TraceDevice) Finish() {
	d.record("Finish()")
}

func (d *TraceDevice) InsertFence(id uint64) {
	d.record("InsertFence(%d)", id)
}
