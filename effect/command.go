package effect

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
)

// CommandKind identifies a command type.
type CommandKind uint8

// Command kinds.
const (
	KindAllocateBuffer CommandKind = iota + 1
	KindAllocateImage
	KindAllocateDataBuffer
	KindBindBuffer
	KindBindTarget
	KindBindShader
	KindApplyInstanceValue
	KindApplyValue
	KindApplyBlending
	KindApplyBufferValue
	KindApplyDepthValue
	KindApplyImageValue
	KindApplyDataBufferValue
	KindDepthStencil
	KindRender
	KindApplyRenderState
)

var commandKindNames = [...]string{
	KindAllocateBuffer:       "AllocateBuffer",
	KindAllocateImage:        "AllocateImage",
	KindAllocateDataBuffer:   "AllocateDataBuffer",
	KindBindBuffer:           "BindBuffer",
	KindBindTarget:           "BindTarget",
	KindBindShader:           "BindShader",
	KindApplyInstanceValue:   "ApplyInstanceValue",
	KindApplyValue:           "ApplyValue",
	KindApplyBlending:        "ApplyBlending",
	KindApplyBufferValue:     "ApplyBufferValue",
	KindApplyDepthValue:      "ApplyDepthValue",
	KindApplyImageValue:      "ApplyImageValue",
	KindApplyDataBufferValue: "ApplyDataBufferValue",
	KindDepthStencil:         "DepthStencil",
	KindRender:               "Render",
	KindApplyRenderState:     "ApplyRenderState",
}

// String returns the command name.
func (k CommandKind) String() string {
	if int(k) < len(commandKindNames) && commandKindNames[k] != "" {
		return commandKindNames[k]
	}
	return "Unknown"
}

// Command is one step of an effect.
type Command interface {
	Kind() CommandKind
}

// Lifetime says when an allocated entry is released.
type Lifetime uint8

const (
	// FrameLifetime entries are released at the end of the invocation.
	FrameLifetime Lifetime = iota
	// SceneLifetime entries persist until the context is released.
	SceneLifetime
)

// AllocateBuffer allocates a render-target buffer sized SizeMultiplier
// times the destination and rounded up to a multiple of 4. FormatUnknown
// uses the format of the input texture.
type AllocateBuffer struct {
	Name           string
	SizeMultiplier float32
	Format         backend.TextureFormat
	Filter         gputypes.FilterMode
	Wrap           gputypes.AddressMode
	Lifetime       Lifetime
}

// AllocateImage allocates an immutable texture used as a shader image.
type AllocateImage struct {
	Name           string
	SizeMultiplier float32
	Format         backend.TextureFormat
	Filter         gputypes.FilterMode
	Wrap           gputypes.AddressMode
	Access         backend.ImageAccess
	Lifetime       Lifetime
}

// AllocateDataBuffer allocates a zeroed buffer of Size bytes. When
// WrapName is set the same buffer is also registered under that name as
// a storage buffer.
type AllocateDataBuffer struct {
	Name       string
	Size       int
	BufferKind backend.BufferKind
	WrapName   string
	Lifetime   Lifetime
}

// BindBuffer makes a buffer the render target. NeedsClear clears it once
// after binding.
type BindBuffer struct {
	Name       string
	NeedsClear bool
}

// BindTarget makes the invocation's final target current again.
type BindTarget struct{}

// BindShader looks up or builds the program of Path with Define.
type BindShader struct {
	Path   string
	Define string
}

// ApplyInstanceValue pushes the effect property Property, or every
// property when it is empty, to the uniform of the same name.
type ApplyInstanceValue struct {
	Property string
}

// ApplyValue pushes a constant value to a uniform.
type ApplyValue struct {
	Param string
	Type  backend.ShaderDataType
	Value any
}

// ApplyBlending enables blending with the given factors and an additive
// equation for the next Render.
type ApplyBlending struct {
	Src, Dst gputypes.BlendFactor
}

// ApplyBufferValue resolves Buffer, or the input texture when it is
// empty. With a Param it binds the texture to that sampler; without one
// the texture becomes the source of the next Render.
type ApplyBufferValue struct {
	Buffer string
	Param  string
}

// ApplyDepthValue binds the invocation's depth texture to Param.
type ApplyDepthValue struct {
	Param string
}

// ApplyImageValue binds an allocated image to Param, as an image or, with
// BindAsTexture, as a sampler. NeedSync issues an image memory barrier.
type ApplyImageValue struct {
	Image         string
	Param         string
	BindAsTexture bool
	NeedSync      bool
}

// ApplyDataBufferValue binds an allocated data buffer to the block Param.
type ApplyDataBufferValue struct {
	Buffer string
	Param  string
}

// DepthStencil uses Buffer as the depth-stencil attachment of the next
// Render, with the given clears and stencil state.
type DepthStencil struct {
	Buffer       string
	ClearDepth   bool
	ClearStencil bool
	StencilValue int32
	Ref          int32
	Mask         uint32
	Compare      gputypes.CompareFunction
	Fail         gputypes.StencilOperation
	DepthFail    gputypes.StencilOperation
	Pass         gputypes.StencilOperation
}

// Render draws a full-screen quad with the current shader and source.
type Render struct {
	NeedsClear bool
}

// ApplyRenderState toggles a render state. Toggling the stencil test
// attaches or detaches the invocation's depth texture.
type ApplyRenderState struct {
	State   backend.RenderState
	Enabled bool
}

func (AllocateBuffer) Kind() CommandKind       { return KindAllocateBuffer }
func (AllocateImage) Kind() CommandKind        { return KindAllocateImage }
func (AllocateDataBuffer) Kind() CommandKind   { return KindAllocateDataBuffer }
func (BindBuffer) Kind() CommandKind           { return KindBindBuffer }
func (BindTarget) Kind() CommandKind           { return KindBindTarget }
func (BindShader) Kind() CommandKind           { return KindBindShader }
func (ApplyInstanceValue) Kind() CommandKind   { return KindApplyInstanceValue }
func (ApplyValue) Kind() CommandKind           { return KindApplyValue }
func (ApplyBlending) Kind() CommandKind        { return KindApplyBlending }
func (ApplyBufferValue) Kind() CommandKind     { return KindApplyBufferValue }
func (ApplyDepthValue) Kind() CommandKind      { return KindApplyDepthValue }
func (ApplyImageValue) Kind() CommandKind      { return KindApplyImageValue }
func (ApplyDataBufferValue) Kind() CommandKind { return KindApplyDataBufferValue }
func (DepthStencil) Kind() CommandKind         { return KindDepthStencil }
func (Render) Kind() CommandKind               { return KindRender }
func (ApplyRenderState) Kind() CommandKind     { return KindApplyRenderState }
