package cmdbuf

import "unsafe"

// CommandType identifies the type of a recorded command.
// The catalogue is the shared vocabulary between this core and the
// backend modules that define concrete command payloads; cmdbuf itself
// attaches no semantics to individual values beyond the default
// priority grouping.
type CommandType uint16

const (
	// State setting commands
	CmdSetViewport CommandType = iota // Set viewport dimensions
	CmdSetClearColor                  // Set clear color for framebuffer
	CmdSetDepthRange                  // Set depth range for depth testing
	CmdSetBlendMode                   // Set blending mode for transparency
	CmdSetCullMode                    // Set face culling mode
	CmdSetDepthTest                   // Enable/disable depth testing
	CmdSetScissor                     // Set scissor rectangle

	// Buffer operation commands
	CmdClearBuffers       // Clear specified buffers
	CmdClearColorBuffer   // Clear color buffer only
	CmdClearDepthBuffer   // Clear depth buffer only
	CmdClearStencilBuffer // Clear stencil buffer only

	// Resource binding commands
	CmdBindShader        // Bind shader program
	CmdBindTexture       // Bind texture to texture unit
	CmdBindVertexBuffer  // Bind vertex buffer
	CmdBindIndexBuffer   // Bind index buffer
	CmdBindUniformBuffer // Bind uniform buffer
	CmdBindFramebuffer   // Bind framebuffer

	// Drawing commands
	CmdDrawArrays            // Draw using vertex arrays
	CmdDrawElements          // Draw using indexed vertices
	CmdDrawArraysInstanced   // Draw instanced using vertex arrays
	CmdDrawElementsInstanced // Draw instanced using indexed vertices

	// Transformation commands
	CmdSetModelMatrix      // Set model transformation matrix
	CmdSetViewMatrix       // Set view transformation matrix
	CmdSetProjectionMatrix // Set projection matrix
	CmdSetNormalMatrix     // Set normal transformation matrix

	// Material commands
	CmdSetMaterialDiffuse   // Set diffuse material properties
	CmdSetMaterialSpecular  // Set specular material properties
	CmdSetMaterialAmbient   // Set ambient material properties
	CmdSetMaterialShininess // Set material shininess

	// Lighting commands
	CmdSetLightPosition    // Set light position
	CmdSetLightColor       // Set light color
	CmdSetLightAttenuation // Set light attenuation parameters
	CmdSetLightDirection   // Set light direction

	// Effect commands
	CmdBeginPostProcessing // Begin post-processing pass
	CmdEndPostProcessing   // End post-processing pass
	CmdApplyBloom          // Apply bloom effect
	CmdApplyToneMapping    // Apply tone mapping

	// Debug commands
	CmdDrawWireframe   // Draw wireframe overlay
	CmdDrawBoundingBox // Draw bounding boxes
	CmdDrawNormals     // Draw surface normals
	CmdDrawDebugText   // Draw debug text

	// Synchronization commands
	CmdFlushCommands  // Flush command queue
	CmdFinishCommands // Finish all pending commands
	CmdInsertFence    // Insert synchronization fence

	numCommandTypes
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSetViewport:           "SetViewport",
	CmdSetClearColor:         "SetClearColor",
	CmdSetDepthRange:         "SetDepthRange",
	CmdSetBlendMode:          "SetBlendMode",
	CmdSetCullMode:           "SetCullMode",
	CmdSetDepthTest:          "SetDepthTest",
	CmdSetScissor:            "SetScissor",
	CmdClearBuffers:          "ClearBuffers",
	CmdClearColorBuffer:      "ClearColorBuffer",
	CmdClearDepthBuffer:      "ClearDepthBuffer",
	CmdClearStencilBuffer:    "ClearStencilBuffer",
	CmdBindShader:            "BindShader",
	CmdBindTexture:           "BindTexture",
	CmdBindVertexBuffer:      "BindVertexBuffer",
	CmdBindIndexBuffer:       "BindIndexBuffer",
	CmdBindUniformBuffer:     "BindUniformBuffer",
	CmdBindFramebuffer:       "BindFramebuffer",
	CmdDrawArrays:            "DrawArrays",
	CmdDrawElements:          "DrawElements",
	CmdDrawArraysInstanced:   "DrawArraysInstanced",
	CmdDrawElementsInstanced: "DrawElementsInstanced",
	CmdSetModelMatrix:        "SetModelMatrix",
	CmdSetViewMatrix:         "SetViewMatrix",
	CmdSetProjectionMatrix:   "SetProjectionMatrix",
	CmdSetNormalMatrix:       "SetNormalMatrix",
	CmdSetMaterialDiffuse:    "SetMaterialDiffuse",
	CmdSetMaterialSpecular:   "SetMaterialSpecular",
	CmdSetMaterialAmbient:    "SetMaterialAmbient",
	CmdSetMaterialShininess:  "SetMaterialShininess",
	CmdSetLightPosition:      "SetLightPosition",
	CmdSetLightColor:         "SetLightColor",
	CmdSetLightAttenuation:   "SetLightAttenuation",
	CmdSetLightDirection:     "SetLightDirection",
	CmdBeginPostProcessing:   "BeginPostProcessing",
	CmdEndPostProcessing:     "EndPostProcessing",
	CmdApplyBloom:            "ApplyBloom",
	CmdApplyToneMapping:      "ApplyToneMapping",
	CmdDrawWireframe:         "DrawWireframe",
	CmdDrawBoundingBox:       "DrawBoundingBox",
	CmdDrawNormals:           "DrawNormals",
	CmdDrawDebugText:         "DrawDebugText",
	CmdFlushCommands:         "FlushCommands",
	CmdFinishCommands:        "FinishCommands",
	CmdInsertFence:           "InsertFence",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// CommandPriority determines the execution order of recorded commands.
// Execution always proceeds High -> Normal -> Low, independent of the
// order in which commands were recorded.
type CommandPriority uint8

const (
	// PriorityHigh runs first: state changes, clears, synchronization.
	PriorityHigh CommandPriority = iota
	// PriorityNormal runs second: binding, drawing, transforms, lighting.
	PriorityNormal
	// PriorityLow runs last: post-processing effects and debug overlays.
	PriorityLow

	priorityCount
)

// priorityNames maps CommandPriority values to their string representation.
var priorityNames = [...]string{
	PriorityHigh:   "High",
	PriorityNormal: "Normal",
	PriorityLow:    "Low",
}

// String returns the string representation of a CommandPriority.
func (p CommandPriority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return "Unknown"
}

// DefaultPriority returns the execution priority conventionally
// associated with a command type: state, clear, and synchronization
// commands run at PriorityHigh, binding/drawing/transform/material/
// lighting commands at PriorityNormal, and effect/debug commands at
// PriorityLow.
func DefaultPriority(c CommandType) CommandPriority {
	switch {
	case c <= CmdClearStencilBuffer:
		return PriorityHigh
	case c >= CmdFlushCommands && c < numCommandTypes:
		return PriorityHigh
	case c >= CmdBeginPostProcessing && c <= CmdDrawDebugText:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Command is the contract imposed on every recordable payload type.
// Backend modules define the concrete payloads; this core only needs
// the type tag, the execution priority, and a no-argument Execute.
//
// Payloads are stored by value inside buffer pages, which the garbage
// collector does not scan. A payload must therefore be plain data: any
// Go pointer it carries must be kept alive elsewhere for the lifetime
// of the buffer (see CheckPayload and the typed-reference pattern in
// the backend package).
type Command interface {
	Type() CommandType
	Priority() CommandPriority
	Execute()
}

// execFunc is the type-erased trampoline stored in every header. It
// receives a pointer to the storage slot and casts it back to the
// concrete payload type.
type execFunc func(p unsafe.Pointer)

// CommandHeader is the fixed 16-byte record preceding every payload in
// a page. Size is the total byte count of header plus payload, rounded
// up to a multiple of 16, and is never zero for a valid command.
type CommandHeader struct {
	// Size is the total size of header plus payload in bytes.
	Size uint32
	// Type is the command's type tag.
	Type CommandType
	// Priority is the chain the command was recorded into.
	Priority CommandPriority
	_        uint8
	exec     execFunc
}

// headerSize is the fixed on-page size of a CommandHeader.
const headerSize = 16

// The header must be exactly 16 bytes so that payloads following it
// stay 16-byte aligned. Holds on 64-bit platforms, which is what the
// GoGPU stack targets.
var _ [headerSize - unsafe.Sizeof(CommandHeader{})]byte
var _ [unsafe.Sizeof(CommandHeader{}) - headerSize]byte
