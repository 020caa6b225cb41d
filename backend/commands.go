// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/cmdbuf"
)

// The payload types below are the concrete command catalogue. Each one
// is plain data (no Go pointers — see cmdbuf.CheckPayload), carries
// its CommandType tag, and executes against the active Device.
// Priorities follow the conventional grouping in
// cmdbuf.DefaultPriority: state/clear/sync commands run High,
// bind/draw/transform commands Normal, effect/debug commands Low.

// --------------------------------------------------------------------------
// State Setting Commands (High priority)
// --------------------------------------------------------------------------

// SetViewportCommand sets the viewport rectangle in pixels.
type SetViewportCommand struct {
	X, Y          int32
	Width, Height int32
}

func (SetViewportCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetViewport }
func (SetViewportCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetViewport)
}
func (c SetViewportCommand) Execute() {
	ActiveDevice().SetViewport(c.X, c.Y, c.Width, c.Height)
}

// SetClearColorCommand sets the color used by subsequent clears.
type SetClearColorCommand struct {
	Color gputypes.Color
}

func (SetClearColorCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetClearColor }
func (SetClearColorCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetClearColor)
}
func (c SetClearColorCommand) Execute() {
	ActiveDevice().SetClearColor(c.Color)
}

// SetDepthRangeCommand sets the near and far depth range.
type SetDepthRangeCommand struct {
	Near, Far float32
}

func (SetDepthRangeCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetDepthRange }
func (SetDepthRangeCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetDepthRange)
}
func (c SetDepthRangeCommand) Execute() {
	ActiveDevice().SetDepthRange(c.Near, c.Far)
}

// SetBlendModeCommand sets the blending mode for transparency.
type SetBlendModeCommand struct {
	Mode BlendMode
}

func (SetBlendModeCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetBlendMode }
func (SetBlendModeCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetBlendMode)
}
func (c SetBlendModeCommand) Execute() {
	ActiveDevice().SetBlendMode(c.Mode)
}

// SetCullModeCommand sets the face culling mode.
type SetCullModeCommand struct {
	Mode CullMode
}

func (SetCullModeCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetCullMode }
func (SetCullModeCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetCullMode)
}
func (c SetCullModeCommand) Execute() {
	ActiveDevice().SetCullMode(c.Mode)
}

// SetDepthTestCommand enables or disables depth testing.
type SetDepthTestCommand struct {
	Enabled bool
}

func (SetDepthTestCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetDepthTest }
func (SetDepthTestCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetDepthTest)
}
func (c SetDepthTestCommand) Execute() {
	ActiveDevice().SetDepthTest(c.Enabled)
}

// SetScissorCommand sets the scissor rectangle in pixels.
type SetScissorCommand struct {
	X, Y          int32
	Width, Height int32
}

func (SetScissorCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetScissor }
func (SetScissorCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetScissor)
}
func (c SetScissorCommand) Execute() {
	ActiveDevice().SetScissor(c.X, c.Y, c.Width, c.Height)
}

// ClearBuffersCommand clears the buffers selected by Mask.
type ClearBuffersCommand struct {
	Mask ClearMask
}

func (ClearBuffersCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdClearBuffers }
func (ClearBuffersCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdClearBuffers)
}
func (c ClearBuffersCommand) Execute() {
	ActiveDevice().ClearBuffers(c.Mask)
}

// --------------------------------------------------------------------------
// Resource Binding Commands (Normal priority)
// --------------------------------------------------------------------------

// BindShaderCommand binds a shader program by reference.
type BindShaderCommand struct {
	Shader ShaderRef
}

func (BindShaderCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBindShader }
func (BindShaderCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBindShader)
}
func (c BindShaderCommand) Execute() {
	ActiveDevice().BindShader(c.Shader)
}

// BindTextureCommand binds a texture to a texture unit.
type BindTextureCommand struct {
	Texture TextureRef
	Unit    uint32
}

func (BindTextureCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBindTexture }
func (BindTextureCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBindTexture)
}
func (c BindTextureCommand) Execute() {
	ActiveDevice().BindTexture(c.Texture, c.Unit)
}

// BindVertexBufferCommand binds a vertex buffer.
type BindVertexBufferCommand struct {
	Buffer BufferRef
}

func (BindVertexBufferCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBindVertexBuffer }
func (BindVertexBufferCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBindVertexBuffer)
}
func (c BindVertexBufferCommand) Execute() {
	ActiveDevice().BindVertexBuffer(c.Buffer)
}

// BindIndexBufferCommand binds an index buffer. Index data is
// gputypes.IndexFormatUint16 throughout the catalogue.
type BindIndexBufferCommand struct {
	Buffer BufferRef
}

func (BindIndexBufferCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBindIndexBuffer }
func (BindIndexBufferCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBindIndexBuffer)
}
func (c BindIndexBufferCommand) Execute() {
	ActiveDevice().BindIndexBuffer(c.Buffer)
}

// BindUniformBufferCommand binds a uniform buffer to a binding slot.
type BindUniformBufferCommand struct {
	Buffer  BufferRef
	Binding uint32
}

func (BindUniformBufferCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBindUniformBuffer }
func (BindUniformBufferCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBindUniformBuffer)
}
func (c BindUniformBufferCommand) Execute() {
	ActiveDevice().BindUniformBuffer(c.Buffer, c.Binding)
}

// --------------------------------------------------------------------------
// Drawing Commands (Normal priority)
// --------------------------------------------------------------------------

// DrawArraysCommand draws non-indexed geometry.
type DrawArraysCommand struct {
	Topology gputypes.PrimitiveTopology
	First    uint32
	Count    uint32
}

func (DrawArraysCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdDrawArrays }
func (DrawArraysCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdDrawArrays)
}
func (c DrawArraysCommand) Execute() {
	ActiveDevice().DrawArrays(c.Topology, c.First, c.Count)
}

// DrawElementsCommand draws indexed geometry using the currently
// bound index buffer.
type DrawElementsCommand struct {
	Topology gputypes.PrimitiveTopology
	Count    uint32
}

func (DrawElementsCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdDrawElements }
func (DrawElementsCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdDrawElements)
}
func (c DrawElementsCommand) Execute() {
	ActiveDevice().DrawElements(c.Topology, c.Count)
}

// --------------------------------------------------------------------------
// Transformation, Material, and Lighting Commands (Normal priority)
// --------------------------------------------------------------------------

// SetModelMatrixCommand sets the model transformation matrix.
type SetModelMatrixCommand struct {
	Matrix Mat4
}

func (SetModelMatrixCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetModelMatrix }
func (SetModelMatrixCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetModelMatrix)
}
func (c SetModelMatrixCommand) Execute() {
	ActiveDevice().SetModelMatrix(c.Matrix)
}

// SetViewMatrixCommand sets the view transformation matrix.
type SetViewMatrixCommand struct {
	Matrix Mat4
}

func (SetViewMatrixCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetViewMatrix }
func (SetViewMatrixCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetViewMatrix)
}
func (c SetViewMatrixCommand) Execute() {
	ActiveDevice().SetViewMatrix(c.Matrix)
}

// SetProjectionMatrixCommand sets the projection matrix.
type SetProjectionMatrixCommand struct {
	Matrix Mat4
}

func (SetProjectionMatrixCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetProjectionMatrix }
func (SetProjectionMatrixCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetProjectionMatrix)
}
func (c SetProjectionMatrixCommand) Execute() {
	ActiveDevice().SetProjectionMatrix(c.Matrix)
}

// SetMaterialDiffuseCommand sets the diffuse material color.
type SetMaterialDiffuseCommand struct {
	Color gputypes.Color
}

func (SetMaterialDiffuseCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetMaterialDiffuse }
func (SetMaterialDiffuseCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetMaterialDiffuse)
}
func (c SetMaterialDiffuseCommand) Execute() {
	ActiveDevice().SetMaterialDiffuse(c.Color)
}

// SetLightPositionCommand sets the light position in world space.
type SetLightPositionCommand struct {
	X, Y, Z float32
}

func (SetLightPositionCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdSetLightPosition }
func (SetLightPositionCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdSetLightPosition)
}
func (c SetLightPositionCommand) Execute() {
	ActiveDevice().SetLightPosition(c.X, c.Y, c.Z)
}

// --------------------------------------------------------------------------
// Effect and Debug Commands (Low priority)
// --------------------------------------------------------------------------

// BeginPostProcessingCommand begins a post-processing pass.
type BeginPostProcessingCommand struct{}

func (BeginPostProcessingCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdBeginPostProcessing }
func (BeginPostProcessingCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdBeginPostProcessing)
}
func (BeginPostProcessingCommand) Execute() {
	ActiveDevice().BeginPostProcessing()
}

// EndPostProcessingCommand ends a post-processing pass.
type EndPostProcessingCommand struct{}

func (EndPostProcessingCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdEndPostProcessing }
func (EndPostProcessingCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdEndPostProcessing)
}
func (EndPostProcessingCommand) Execute() {
	ActiveDevice().EndPostProcessing()
}

// ApplyBloomCommand applies a bloom post-processing effect.
type ApplyBloomCommand struct {
	Intensity float32
}

func (ApplyBloomCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdApplyBloom }
func (ApplyBloomCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdApplyBloom)
}
func (c ApplyBloomCommand) Execute() {
	ActiveDevice().ApplyBloom(c.Intensity)
}

// debugTextCap is the inline capacity of DrawDebugTextCommand.
// Payloads cannot hold Go strings (pages are opaque to the garbage
// collector), so the text is stored in a fixed byte array.
const debugTextCap = 64

// DrawDebugTextCommand draws overlay text at a screen position. Text
// longer than debugTextCap bytes is truncated by NewDrawDebugText.
type DrawDebugTextCommand struct {
	X, Y    float32
	TextLen uint8
	Text    [debugTextCap]byte
}

// NewDrawDebugText builds a debug text command, truncating text to the
// command's inline capacity.
func NewDrawDebugText(x, y float32, text string) DrawDebugTextCommand {
	c := DrawDebugTextCommand{X: x, Y: y}
	n := copy(c.Text[:], text)
	c.TextLen = uint8(n)
	return c
}

func (DrawDebugTextCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdDrawDebugText }
func (DrawDebugTextCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdDrawDebugText)
}
func (c DrawDebugTextCommand) Execute() {
	ActiveDevice().DrawDebugText(c.X, c.Y, string(c.Text[:c.TextLen]))
}

// --------------------------------------------------------------------------
// Synchronization Commands (High priority)
// --------------------------------------------------------------------------

// FlushCommandsCommand flushes the device command queue.
type FlushCommandsCommand struct{}

func (FlushCommandsCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdFlushCommands }
func (FlushCommandsCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdFlushCommands)
}
func (FlushCommandsCommand) Execute() {
	ActiveDevice().Flush()
}

// FinishCommandsCommand waits for all pending device commands.
type FinishCommandsCommand struct{}

func (FinishCommandsCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdFinishCommands }
func (FinishCommandsCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdFinishCommands)
}
func (FinishCommandsCommand) Execute() {
	ActiveDevice().Finish()
}

// InsertFenceCommand inserts a synchronization fence with an
// application-chosen id.
type InsertFenceCommand struct {
	ID uint64
}

func (InsertFenceCommand) Type() cmdbuf.CommandType { return cmdbuf.CmdInsertFence }
func (InsertFenceCommand) Priority() cmdbuf.CommandPriority {
	return cmdbuf.DefaultPriority(cmdbuf.CmdInsertFence)
}
func (c InsertFenceCommand) Execute() {
	ActiveDevice().InsertFence(c.ID)
}
