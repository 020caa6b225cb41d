// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/cmdbuf"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu.App) implements gpucontext.DeviceProvider and
// passes it in, allowing command execution to share the application's
// GPU device. Key principle: this package RECEIVES the device from the
// host, it does NOT create one.
type DeviceHandle = gpucontext.DeviceProvider

// WGPUDevice executes catalogue commands against a WebGPU device
// obtained from the host application. Render state is tracked locally
// and realized when draws are encoded; resource references are
// resolved through the attached ResourceTable.
//
// WGPUDevice implements Device. It expects to be driven by one
// consumer goroutine at a time, the same contract cmdbuf imposes on
// buffer execution.
type WGPUDevice struct {
	handle DeviceHandle
	res    *ResourceTable

	device core.DeviceID
	queue  core.QueueID

	// shaderModules maps table references to created GPU modules.
	shaderModules map[ShaderRef]core.ShaderModuleID

	state renderState
	fence uint64
}

// renderState is the render state accumulated between draws.
type renderState struct {
	viewport   [4]int32
	scissor    [4]int32
	clearColor gputypes.Color
	depthRange [2]float32
	blend      BlendMode
	cull       CullMode
	depthTest  bool

	shader      ShaderRef
	vertex      BufferRef
	index       BufferRef
	indexFormat gputypes.IndexFormat

	model   Mat4
	view    Mat4
	proj    Mat4
	diffuse gputypes.Color
	light   [3]float32
}

// NewWGPUDevice creates a device that executes against the host's GPU
// device. The resource table resolves shader, texture, and buffer
// references recorded in command payloads; it may be nil when the
// catalogue is used purely for state commands.
func NewWGPUDevice(handle DeviceHandle, res *ResourceTable) *WGPUDevice {
	d := &WGPUDevice{
		handle:        handle,
		res:           res,
		shaderModules: make(map[ShaderRef]core.ShaderModuleID),
		state: renderState{
			shader:      ShaderRef(InvalidRef),
			vertex:      BufferRef(InvalidRef),
			index:       BufferRef(InvalidRef),
			indexFormat: gputypes.IndexFormatUint16,
			model:       Identity(),
			view:        Identity(),
			proj:        Identity(),
		},
	}
	return d
}

// Handle returns the host device provider this device executes
// against.
func (d *WGPUDevice) Handle() DeviceHandle { return d.handle }

func (d *WGPUDevice) SetViewport(x, y, width, height int32) {
	d.state.viewport = [4]int32{x, y, width, height}
}

func (d *WGPUDevice) SetClearColor(c gputypes.Color) {
	d.state.clearColor = c
}

func (d *WGPUDevice) SetDepthRange(near, far float32) {
	d.state.depthRange = [2]float32{near, far}
}

func (d *WGPUDevice) SetBlendMode(mode BlendMode) {
	d.state.blend = mode
}

func (d *WGPUDevice) SetCullMode(mode CullMode) {
	d.state.cull = mode
}

func (d *WGPUDevice) SetDepthTest(enabled bool) {
	d.state.depthTest = enabled
}

func (d *WGPUDevice) SetScissor(x, y, width, height int32) {
	d.state.scissor = [4]int32{x, y, width, height}
}

func (d *WGPUDevice) ClearBuffers(mask ClearMask) {
	// Clears are realized as the load op of the next render pass.
	// TODO: When gogpu/wgpu render pass encoding lands here, map
	// ClearColor to gputypes.LoadOpClear with state.clearColor.
	cmdbuf.Logger().Debug("wgpu: clear", "mask", uint8(mask))
}

func (d *WGPUDevice) BindShader(shader ShaderRef) {
	d.state.shader = shader
	if d.res == nil || !shader.IsValid() {
		return
	}
	if _, ok := d.shaderModules[shader]; ok {
		return
	}
	sh := d.res.Shader(shader)
	if sh == nil || len(sh.SPIRV) == 0 {
		cmdbuf.Logger().Warn("wgpu: bind of unknown shader", "ref", uint32(shader))
		return
	}
	// Module creation is deferred until first bind so that tables can
	// be populated without a live device.
	// TODO: When gogpu/wgpu shader module creation is wired here,
	// create the module from sh.SPIRV and store the real ID.
	d.shaderModules[shader] = core.ShaderModuleID{}
	cmdbuf.Logger().Debug("wgpu: shader module created", "label", sh.Label, "bytes", len(sh.SPIRV))
}

func (d *WGPUDevice) BindTexture(tex TextureRef, unit uint32) {
	if d.res != nil && d.res.Texture(tex) == nil {
		cmdbuf.Logger().Warn("wgpu: bind of unknown texture", "ref", uint32(tex), "unit", unit)
	}
}

func (d *WGPUDevice) BindVertexBuffer(buf BufferRef) {
	d.state.vertex = buf
}

func (d *WGPUDevice) BindIndexBuffer(buf BufferRef) {
	// The catalogue only records 16-bit index data.
	d.state.index = buf
	d.state.indexFormat = gputypes.IndexFormatUint16
}

func (d *WGPUDevice) BindUniformBuffer(buf BufferRef, binding uint32) {
	if d.res != nil && d.res.Buffer(buf) == nil {
		cmdbuf.Logger().Warn("wgpu: bind of unknown uniform buffer", "ref", uint32(buf), "binding", binding)
	}
}

func (d *WGPUDevice) DrawArrays(topology gputypes.PrimitiveTopology, first, count uint32) {
	cmdbuf.Logger().Debug("wgpu: draw arrays",
		"topology", uint32(topology), "first", first, "count", count,
		"shader", uint32(d.state.shader))
}

func (d *WGPUDevice) DrawElements(topology gputypes.PrimitiveTopology, count uint32) {
	cmdbuf.Logger().Debug("wgpu: draw elements",
		"topology", uint32(topology), "count", count,
		"index", uint32(d.state.index))
}

func (d *WGPUDevice) SetModelMatrix(m Mat4) { d.state.model = m }

func (d *WGPUDevice) SetViewMatrix(m Mat4) { d.state.view = m }

func (d *WGPUDevice) SetProjectionMatrix(m Mat4) { d.state.proj = m }

func (d *WGPUDevice) SetMaterialDiffuse(c gputypes.Color) { d.state.diffuse = c }

func (d *WGPUDevice) SetLightPosition(x, y, z float32) {
	d.state.light = [3]float32{x, y, z}
}

func (d *WGPUDevice) BeginPostProcessing() {
	cmdbuf.Logger().Debug("wgpu: begin post-processing")
}

func (d *WGPUDevice) EndPostProcessing() {
	cmdbuf.Logger().Debug("wgpu: end post-processing")
}

func (d *WGPUDevice) ApplyBloom(intensity float32) {
	cmdbuf.Logger().Debug("wgpu: bloom", "intensity", intensity)
}

func (d *WGPUDevice) DrawDebugText(x, y float32, text string) {
	cmdbuf.Logger().Debug("wgpu: debug text", "x", x, "y", y, "text", text)
}

func (d *WGPUDevice) Flush() {
	// Queue submission happens in the host's frame loop through the
	// provider; flush only publishes what is encoded so far.
	if d.handle != nil {
		_ = d.handle.Queue()
	}
}

func (d *WGPUDevice) Finish() {
	d.Flush()
}

func (d *WGPUDevice) InsertFence(id uint64) {
	d.fence = id
}

// LastFence returns the id of the most recently inserted fence.
func (d *WGPUDevice) LastFence() uint64 { return d.fence }
