// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

// ShaderRef is a reference to a shader in a ResourceTable.
// The zero value is a valid reference to the first shader (if any).
type ShaderRef uint32

// TextureRef is a reference to a texture in a ResourceTable.
// The zero value is a valid reference to the first texture (if any).
type TextureRef uint32

// BufferRef is a reference to a GPU buffer in a ResourceTable.
// The zero value is a valid reference to the first buffer (if any).
type BufferRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid shader.
func (r ShaderRef) IsValid() bool { return uint32(r) != InvalidRef }

// IsValid returns true if the reference points to a valid texture.
func (r TextureRef) IsValid() bool { return uint32(r) != InvalidRef }

// IsValid returns true if the reference points to a valid buffer.
func (r BufferRef) IsValid() bool { return uint32(r) != InvalidRef }

// Shader is a compiled shader module held by a ResourceTable.
type Shader struct {
	// Label is an optional debug label.
	Label string
	// SPIRV is the compiled SPIR-V bytecode.
	SPIRV []byte
}

// TextureInfo describes a texture resource.
type TextureInfo struct {
	// Label is an optional debug label.
	Label string
	// Format is the texture pixel format.
	Format gputypes.TextureFormat
	// Size is the texture extent. DepthOrArrayLayers is 1 for regular
	// 2D textures.
	Size gputypes.Extent3D
}

// BufferInfo describes a GPU buffer resource.
type BufferInfo struct {
	// Label is an optional debug label.
	Label string
	// Size is the buffer size in bytes.
	Size uint64
}

// ResourceTable stores the GPU resources referenced by recorded
// commands. Payloads stay pointer-free by carrying typed references
// (ShaderRef, TextureRef, BufferRef) into this table instead of Go
// pointers; the table keeps the referents alive for the lifetime of
// every buffer that mentions them.
//
// ResourceTable is not safe for concurrent use. Populate it before
// recording begins, or provide external synchronization.
type ResourceTable struct {
	shaders  []Shader
	textures []TextureInfo
	buffers  []BufferInfo
}

// NewResourceTable creates an empty table with pre-allocated capacity.
func NewResourceTable() *ResourceTable {
	return &ResourceTable{
		shaders:  make([]Shader, 0, 16),
		textures: make([]TextureInfo, 0, 32),
		buffers:  make([]BufferInfo, 0, 32),
	}
}

// AddShaderWGSL compiles WGSL source to SPIR-V and adds the resulting
// shader to the table. The label is kept for debugging only.
func (t *ResourceTable) AddShaderWGSL(label, source string) (ShaderRef, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return ShaderRef(InvalidRef), fmt.Errorf("backend: failed to compile shader %q: %w", label, err)
	}
	t.shaders = append(t.shaders, Shader{Label: label, SPIRV: spirv})
	// #nosec G115 -- table size is bounded by available memory, well under uint32 max
	return ShaderRef(uint32(len(t.shaders) - 1)), nil
}

// Shader returns the shader for the given reference, or nil if the
// reference is invalid.
func (t *ResourceTable) Shader(ref ShaderRef) *Shader {
	if int(ref) >= len(t.shaders) {
		return nil
	}
	return &t.shaders[ref]
}

// ShaderCount returns the number of shaders in the table.
func (t *ResourceTable) ShaderCount() int { return len(t.shaders) }

// AddTexture adds a texture description to the table.
func (t *ResourceTable) AddTexture(info TextureInfo) TextureRef {
	t.textures = append(t.textures, info)
	// #nosec G115 -- table size is bounded by available memory, well under uint32 max
	return TextureRef(uint32(len(t.textures) - 1))
}

// Texture returns the texture info for the given reference, or nil if
// the reference is invalid.
func (t *ResourceTable) Texture(ref TextureRef) *TextureInfo {
	if int(ref) >= len(t.textures) {
		return nil
	}
	return &t.textures[ref]
}

// TextureCount returns the number of textures in the table.
func (t *ResourceTable) TextureCount() int { return len(t.textures) }

// AddBuffer adds a buffer description to the table.
func (t *ResourceTable) AddBuffer(info BufferInfo) BufferRef {
	t.buffers = append(t.buffers, info)
	// #nosec G115 -- table size is bounded by available memory, well under uint32 max
	return BufferRef(uint32(len(t.buffers) - 1))
}

// Buffer returns the buffer info for the given reference, or nil if
// the reference is invalid.
func (t *ResourceTable) Buffer(ref BufferRef) *BufferInfo {
	if int(ref) >= len(t.buffers) {
		return nil
	}
	return &t.buffers[ref]
}

// BufferCount returns the number of buffers in the table.
func (t *ResourceTable) BufferCount() int { return len(t.buffers) }

// Clear removes all resources from the table. References obtained
// before Clear become dangling and must not be recorded again.
func (t *ResourceTable) Clear() {
	t.shaders = t.shaders[:0]
	t.textures = t.textures[:0]
	t.buffers = t.buffers[:0]
}
