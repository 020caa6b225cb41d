// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"testing"

	"github.com/gogpu/gputypes"
)

var (
	_ Device = NopDevice{}
	_ Device = (*TraceDevice)(nil)
	_ Device = (*WGPUDevice)(nil)
)

func TestActiveDeviceDefault(t *testing.T) {
	if _, ok := ActiveDevice().(NopDevice); !ok {
		t.Errorf("default ActiveDevice() = %T, want NopDevice", ActiveDevice())
	}
}

func TestSetDevice(t *testing.T) {
	t.Cleanup(func() { SetDevice(nil) })

	td := NewTraceDevice()
	SetDevice(td)
	if ActiveDevice() != Device(td) {
		t.Error("ActiveDevice() did not return the installed device")
	}

	SetDevice(nil)
	if _, ok := ActiveDevice().(NopDevice); !ok {
		t.Errorf("SetDevice(nil) left %T active, want NopDevice", ActiveDevice())
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	for i, v := range m {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if v != want {
			t.Errorf("Identity()[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestClearMask(t *testing.T) {
	if ClearAll != ClearColor|ClearDepth|ClearStencil {
		t.Errorf("ClearAll = %#x", uint8(ClearAll))
	}
	if ClearColor&ClearDepth != 0 {
		t.Error("ClearColor and ClearDepth overlap")
	}
}

func TestWGPUDeviceStateTracking(t *testing.T) {
	d := NewWGPUDevice(nil, nil)

	d.SetViewport(0, 0, 800, 600)
	d.SetScissor(10, 20, 100, 200)
	d.SetClearColor(gputypes.Color{R: 1, A: 1})
	d.SetDepthRange(0.1, 100)
	d.SetBlendMode(BlendAlpha)
	d.SetCullMode(CullBack)
	d.SetDepthTest(true)
	d.SetModelMatrix(Identity())
	d.BindVertexBuffer(7)
	d.BindIndexBuffer(8)
	d.SetLightPosition(1, 2, 3)

	if d.state.viewport != [4]int32{0, 0, 800, 600} {
		t.Errorf("viewport = %v", d.state.viewport)
	}
	if d.state.scissor != [4]int32{10, 20, 100, 200} {
		t.Errorf("scissor = %v", d.state.scissor)
	}
	if d.state.clearColor.R != 1 || d.state.clearColor.A != 1 {
		t.Errorf("clearColor = %+v", d.state.clearColor)
	}
	if d.state.depthRange != [2]float32{0.1, 100} {
		t.Errorf("depthRange = %v", d.state.depthRange)
	}
	if d.state.blend != BlendAlpha || d.state.cull != CullBack || !d.state.depthTest {
		t.Errorf("blend/cull/depth = %v/%v/%v", d.state.blend, d.state.cull, d.state.depthTest)
	}
	if d.state.vertex != 7 || d.state.index != 8 {
		t.Errorf("vertex/index refs = %d/%d", d.state.vertex, d.state.index)
	}
	if d.state.light != [3]float32{1, 2, 3} {
		t.Errorf("light = %v", d.state.light)
	}
}

func TestWGPUDeviceFence(t *testing.T) {
	d := NewWGPUDevice(nil, nil)
	if got := d.LastFence(); got != 0 {
		t.Fatalf("LastFence() = %d on fresh device, want 0", got)
	}
	d.InsertFence(99)
	if got := d.LastFence(); got != 99 {
		t.Errorf("LastFence() = %d, want 99", got)
	}
}

func TestWGPUDeviceBindShader(t *testing.T) {
	rt := NewResourceTable()
	ref, err := rt.AddShaderWGSL("unit", `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 1.0, 1.0);
}
`)
	if err != nil {
		t.Fatalf("AddShaderWGSL() = %v", err)
	}

	d := NewWGPUDevice(nil, rt)
	if d.state.shader.IsValid() {
		t.Fatal("fresh device has a bound shader")
	}

	d.BindShader(ref)
	if d.state.shader != ref {
		t.Errorf("bound shader = %d, want %d", d.state.shader, ref)
	}
	if _, ok := d.shaderModules[ref]; !ok {
		t.Error("first bind did not create a shader module")
	}
	if got := len(d.shaderModules); got != 1 {
		t.Fatalf("shaderModules len = %d, want 1", got)
	}

	// Rebinding reuses the module.
	d.BindShader(ref)
	if got := len(d.shaderModules); got != 1 {
		t.Errorf("shaderModules len after rebind = %d, want 1", got)
	}

	// Unknown references are tolerated, no module is created.
	d.BindShader(ShaderRef(12345))
	if got := len(d.shaderModules); got != 1 {
		t.Errorf("shaderModules len after unknown bind = %d, want 1", got)
	}

	// Invalid reference clears nothing and creates nothing.
	d.BindShader(ShaderRef(InvalidRef))
	if got := len(d.shaderModules); got != 1 {
		t.Errorf("shaderModules len after invalid bind = %d, want 1", got)
	}
}

func TestWGPUDeviceNilTable(t *testing.T) {
	d := NewWGPUDevice(nil, nil)
	// Every method must be safe without a table or a live handle.
	d.BindShader(1)
	d.BindTexture(1, 0)
	d.BindUniformBuffer(1, 0)
	d.ClearBuffers(ClearAll)
	d.DrawArrays(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	d.DrawElements(gputypes.PrimitiveTopologyTriangleList, 3)
	d.BeginPostProcessing()
	d.ApplyBloom(1)
	d.EndPostProcessing()
	d.DrawDebugText(0, 0, "x")
	d.Flush()
	d.Finish()
}
