package backend

import (
	"github.com/gogpu/gputypes"
)

// BufferKind selects the native binding target of a buffer.
type BufferKind uint8

// Buffer kinds.
const (
	BufferVertex BufferKind = iota + 1
	BufferIndex
	BufferConstant
	BufferStorage
	BufferAtomicCounter
	BufferDrawIndirect
)

// String returns the kind name.
func (k BufferKind) String() string {
	switch k {
	case BufferVertex:
		return "Vertex"
	case BufferIndex:
		return "Index"
	case BufferConstant:
		return "Constant"
	case BufferStorage:
		return "Storage"
	case BufferAtomicCounter:
		return "AtomicCounter"
	case BufferDrawIndirect:
		return "DrawIndirect"
	}
	return "Unknown"
}

// BufferUsage is the expected update frequency of a buffer.
type BufferUsage uint8

// Buffer usages.
const (
	UsageStatic BufferUsage = iota + 1
	UsageDynamic
	UsageDrawOnce
)

// TextureTarget is the native binding point of a texture.
type TextureTarget uint8

// Texture targets.
const (
	Texture2D TextureTarget = iota + 1
	Texture2DMS
	Texture2DArray
	TextureCube
	TextureCubePosX
	TextureCubeNegX
	TextureCubePosY
	TextureCubeNegY
	TextureCubePosZ
	TextureCubeNegZ
	Texture3D
)

// isCubeFace reports whether t names one face of a cube map.
func (t TextureTarget) isCubeFace() bool {
	return t >= TextureCubePosX && t <= TextureCubeNegZ
}

// Attachment is a framebuffer attachment point.
type Attachment uint8

// Attachments.
const (
	AttachColor0 Attachment = iota
	AttachColor1
	AttachColor2
	AttachColor3
	AttachColor4
	AttachColor5
	AttachColor6
	AttachColor7
	AttachDepth
	AttachStencil
	AttachDepthStencil
)

// RenderState is a toggleable fixed-function state.
type RenderState uint8

// Render states.
const (
	StateBlend RenderState = iota
	StateCullFace
	StateDepthTest
	StateStencilTest
	StateScissorTest
	StateDepthWrite
	StateMultisample

	renderStateCount
)

// String returns the state name.
func (s RenderState) String() string {
	switch s {
	case StateBlend:
		return "Blend"
	case StateCullFace:
		return "CullFace"
	case StateDepthTest:
		return "DepthTest"
	case StateStencilTest:
		return "StencilTest"
	case StateScissorTest:
		return "ScissorTest"
	case StateDepthWrite:
		return "DepthWrite"
	case StateMultisample:
		return "Multisample"
	}
	return "Unknown"
}

// ClearFlags selects the buffers cleared by Clear and copied by
// BlitFramebuffer.
type ClearFlags uint8

// Clear flags.
const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil
)

// DrawMode is the primitive assembly mode of a draw.
type DrawMode uint8

// Draw modes.
const (
	DrawPoints DrawMode = iota + 1
	DrawLines
	DrawLineStrip
	DrawLineLoop
	DrawTriangles
	DrawTriangleStrip
	DrawTriangleFan
	DrawPatches
)

// DrawModeOf converts a gputypes topology to a draw mode.
func DrawModeOf(t gputypes.PrimitiveTopology) DrawMode {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return DrawPoints
	case gputypes.PrimitiveTopologyLineList:
		return DrawLines
	case gputypes.PrimitiveTopologyLineStrip:
		return DrawLineStrip
	case gputypes.PrimitiveTopologyTriangleStrip:
		return DrawTriangleStrip
	default:
		return DrawTriangles
	}
}

// ShaderStage is a programmable pipeline stage.
type ShaderStage uint8

// Shader stages.
const (
	StageVertex ShaderStage = iota + 1
	StageFragment
	StageTessControl
	StageTessEval
	StageGeometry
	StageCompute
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageTessControl:
		return "tess-control"
	case StageTessEval:
		return "tess-eval"
	case StageGeometry:
		return "geometry"
	case StageCompute:
		return "compute"
	}
	return "unknown"
}

// ShaderStageFlags is a set of stages used with program pipelines.
type ShaderStageFlags uint8

// Stage flags.
const (
	StageFlagVertex ShaderStageFlags = 1 << iota
	StageFlagFragment
	StageFlagTessControl
	StageFlagTessEval
	StageFlagGeometry
	StageFlagCompute
)

// ShaderDataType is the declared type of a uniform or effect property.
type ShaderDataType uint8

// Shader data types.
const (
	TypeUnknown ShaderDataType = iota
	TypeFloat
	TypeVec2
	TypeVec3
	TypeVec4
	TypeInt
	TypeIVec2
	TypeIVec3
	TypeIVec4
	TypeUint
	TypeUVec2
	TypeUVec3
	TypeUVec4
	TypeBool
	TypeBVec2
	TypeBVec3
	TypeBVec4
	TypeMat2
	TypeMat3
	TypeMat4
	TypeTexture2D
	TypeTexture2DArray
	TypeTextureCube
	TypeTexture3D
	TypeImage2D
	TypeDataBuffer
)

var shaderDataTypeNames = [...]string{
	TypeUnknown:        "unknown",
	TypeFloat:          "float",
	TypeVec2:           "vec2",
	TypeVec3:           "vec3",
	TypeVec4:           "vec4",
	TypeInt:            "int",
	TypeIVec2:          "ivec2",
	TypeIVec3:          "ivec3",
	TypeIVec4:          "ivec4",
	TypeUint:           "uint",
	TypeUVec2:          "uvec2",
	TypeUVec3:          "uvec3",
	TypeUVec4:          "uvec4",
	TypeBool:           "bool",
	TypeBVec2:          "bvec2",
	TypeBVec3:          "bvec3",
	TypeBVec4:          "bvec4",
	TypeMat2:           "mat2",
	TypeMat3:           "mat3",
	TypeMat4:           "mat4",
	TypeTexture2D:      "sampler2D",
	TypeTexture2DArray: "sampler2DArray",
	TypeTextureCube:    "samplerCube",
	TypeTexture3D:      "sampler3D",
	TypeImage2D:        "image2D",
	TypeDataBuffer:     "buffer",
}

// String returns the GLSL spelling of the type.
func (t ShaderDataType) String() string {
	if int(t) < len(shaderDataTypeNames) {
		return shaderDataTypeNames[t]
	}
	return "unknown"
}

// ParseShaderDataType parses a GLSL type name. It returns TypeUnknown for
// unrecognised names.
func ParseShaderDataType(s string) ShaderDataType {
	for i, n := range shaderDataTypeNames {
		if n == s {
			return ShaderDataType(i)
		}
	}
	switch s {
	case "texture", "Texture2D":
		return TypeTexture2D
	case "image", "Image2D":
		return TypeImage2D
	case "DataBuffer":
		return TypeDataBuffer
	}
	return TypeUnknown
}

// IsSampler reports whether t is bound through a texture unit.
func (t ShaderDataType) IsSampler() bool {
	return t >= TypeTexture2D && t <= TypeTexture3D
}

// ImageAccess is the access mode of a shader image binding.
type ImageAccess uint8

// Image access modes.
const (
	AccessRead ImageAccess = iota + 1
	AccessWrite
	AccessReadWrite
)

// ImageAccessOf converts a gputypes storage access mode.
func ImageAccessOf(a gputypes.StorageTextureAccess) ImageAccess {
	switch a {
	case gputypes.StorageTextureAccessReadOnly:
		return AccessRead
	case gputypes.StorageTextureAccessWriteOnly:
		return AccessWrite
	default:
		return AccessReadWrite
	}
}

// BarrierFlags are memory barrier bits.
type BarrierFlags uint16

// Barrier flags.
const (
	BarrierVertexAttribArray BarrierFlags = 1 << iota
	BarrierElementArray
	BarrierUniform
	BarrierTextureFetch
	BarrierShaderImageAccess
	BarrierCommand
	BarrierPixelBuffer
	BarrierTextureUpdate
	BarrierBufferUpdate
	BarrierFramebuffer
	BarrierAtomicCounter
	BarrierShaderStorage

	BarrierAll BarrierFlags = 1<<12 - 1
)

// QueryType selects what a query measures.
type QueryType uint8

// Query types.
const (
	QuerySamplesPassed QueryType = iota + 1
	QueryAnySamplesPassed
	QueryTimeElapsed
)

// AdvancedBlend selects a blend equation from the advanced blend
// extensions.
type AdvancedBlend uint8

// Advanced blend equations.
const (
	BlendNone AdvancedBlend = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
)

// Rect is an integer rectangle in window coordinates.
type Rect struct {
	X, Y, Width, Height int32
}

// BlendFunc is a separate colour/alpha blend function.
type BlendFunc struct {
	SrcRGB, DstRGB     gputypes.BlendFactor
	SrcAlpha, DstAlpha gputypes.BlendFactor
}

// BlendEquation is a separate colour/alpha blend equation. Advanced, when
// set, overrides both operations.
type BlendEquation struct {
	RGB, Alpha gputypes.BlendOperation
	Advanced   AdvancedBlend
}

// StencilFunc is the stencil comparison of one face.
type StencilFunc struct {
	Compare gputypes.CompareFunction
	Ref     int32
	Mask    uint32
}

// StencilOp is the stencil update of one face.
type StencilOp struct {
	Fail      gputypes.StencilOperation
	DepthFail gputypes.StencilOperation
	Pass      gputypes.StencilOperation
}

// DepthStencilDesc describes an immutable depth-stencil state object.
type DepthStencilDesc struct {
	DepthEnable   bool
	DepthWrite    bool
	DepthFunc     gputypes.CompareFunction
	StencilEnable bool
	FrontFunc     StencilFunc
	BackFunc      StencilFunc
	FrontOp       StencilOp
	BackOp        StencilOp
}

// DefaultDepthStencil returns the native default depth-stencil state.
func DefaultDepthStencil() DepthStencilDesc {
	fn := StencilFunc{Compare: gputypes.CompareFunctionAlways, Mask: 0xFF}
	op := StencilOp{
		Fail:      gputypes.StencilOperationKeep,
		DepthFail: gputypes.StencilOperationKeep,
		Pass:      gputypes.StencilOperationKeep,
	}
	return DepthStencilDesc{
		DepthWrite: true,
		DepthFunc:  gputypes.CompareFunctionLess,
		FrontFunc:  fn,
		BackFunc:   fn,
		FrontOp:    op,
		BackOp:     op,
	}
}

// RasterizerDesc describes an immutable rasterizer state object.
type RasterizerDesc struct {
	DepthBias  float32
	DepthScale float32
	CullMode   gputypes.CullMode
}

// AttribEntry is one vertex attribute of an attribute layout.
type AttribEntry struct {
	Name   string
	Format gputypes.VertexFormat
	Slot   int
	Offset int
}

// ShaderAttrib is an active vertex input of a linked program.
type ShaderAttrib struct {
	Name       string
	Location   int32
	Type       uint32
	Components int
}

// UniformInfo is an active uniform of a linked program.
type UniformInfo struct {
	Name     string
	Location int32
	Type     ShaderDataType
	Count    int
}

// ConstantBufferInfo describes an active uniform block.
type ConstantBufferInfo struct {
	Name        string
	Index       uint32
	Size        int
	Binding     int
	ActiveCount int
}

// TextureDetails is the storage description of a texture.
type TextureDetails struct {
	Width, Height, Depth int
	Format               TextureFormat
	Samples              int
}

// Limits are the implementation limits queried at construction.
type Limits struct {
	MaxTextureSize        int
	MaxTextureUnits       int
	MaxVertexAttribs      int
	MaxColorAttachments   int
	MaxDrawBuffers        int
	MaxRenderbufferSize   int
	MaxSamples            int
	MaxUniformBlockSize   int
	MaxConstantBufferSlot int
}
