package backend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

const glHalfFloatOES = 0x8D61

// textureTriple is the native (internal format, format, type) of a texture
// format on a context tier.
type textureTriple struct {
	internal, format, typ uint32
}

// sizedTriple returns the sized native triple of f, ignoring tier rules.
func sizedTriple(f TextureFormat) (textureTriple, bool) {
	switch f {
	case FormatR8:
		return textureTriple{gl.R8, gl.RED, gl.UNSIGNED_BYTE}, true
	case FormatR16F:
		return textureTriple{gl.R16F, gl.RED, gl.HALF_FLOAT}, true
	case FormatR32F:
		return textureTriple{gl.R32F, gl.RED, gl.FLOAT}, true
	case FormatR32I:
		return textureTriple{gl.R32I, gl.RED_INTEGER, gl.INT}, true
	case FormatR32UI:
		return textureTriple{gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT}, true
	case FormatRG8:
		return textureTriple{gl.RG8, gl.RG, gl.UNSIGNED_BYTE}, true
	case FormatRG16F:
		return textureTriple{gl.RG16F, gl.RG, gl.HALF_FLOAT}, true
	case FormatRG32F:
		return textureTriple{gl.RG32F, gl.RG, gl.FLOAT}, true
	case FormatRGB8:
		return textureTriple{gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE}, true
	case FormatRGBA8:
		return textureTriple{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}, true
	case FormatSRGB8:
		return textureTriple{gl.SRGB8, gl.RGB, gl.UNSIGNED_BYTE}, true
	case FormatSRGB8A8:
		return textureTriple{gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE}, true
	case FormatRGB565:
		return textureTriple{glRGB565, gl.RGB, glUnsignedShort565}, true
	case FormatRGBA5551:
		return textureTriple{glRGB5A1, gl.RGBA, glUnsignedShort5551}, true
	case FormatRGBA4:
		return textureTriple{glRGBA4, gl.RGBA, glUnsignedShort4444}, true
	case FormatRGB16F:
		return textureTriple{gl.RGB16F, gl.RGB, gl.HALF_FLOAT}, true
	case FormatRGBA16F:
		return textureTriple{gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT}, true
	case FormatRGB32F:
		return textureTriple{gl.RGB32F, gl.RGB, gl.FLOAT}, true
	case FormatRGBA32F:
		return textureTriple{gl.RGBA32F, gl.RGBA, gl.FLOAT}, true
	case FormatRGBA32UI:
		return textureTriple{gl.RGBA32UI, gl.RGBA_INTEGER, gl.UNSIGNED_INT}, true
	case FormatR11G11B10:
		return textureTriple{glR11FG11FB10F, gl.RGB, glUnsignedInt10F11F11F}, true
	case FormatRGB9E5:
		return textureTriple{glRGB9E5, gl.RGB, glUnsignedInt5999Rev}, true
	case FormatRGB10A2:
		return textureTriple{glRGB10A2, gl.RGBA, glUnsignedInt2101010Rev}, true
	case FormatAlpha8:
		return textureTriple{glAlpha8, glAlpha, gl.UNSIGNED_BYTE}, true
	case FormatLuminance8:
		return textureTriple{glLuminance8, glLuminance, gl.UNSIGNED_BYTE}, true
	case FormatLuminanceAlpha8:
		return textureTriple{glLuminance8Alpha8, glLuminanceAlpha, gl.UNSIGNED_BYTE}, true
	case FormatRGBDXT1:
		return textureTriple{glCompressedRGBDXT1, glCompressedRGBDXT1, 0}, true
	case FormatRGBADXT1:
		return textureTriple{glCompressedRGBADXT1, glCompressedRGBADXT1, 0}, true
	case FormatRGBADXT3:
		return textureTriple{glCompressedRGBADXT3, glCompressedRGBADXT3, 0}, true
	case FormatRGBADXT5:
		return textureTriple{glCompressedRGBADXT5, glCompressedRGBADXT5, 0}, true
	case FormatRGB8ETC1:
		return textureTriple{glETC1RGB8, glETC1RGB8, 0}, true
	case FormatRGB8ETC2:
		return textureTriple{glCompressedRGB8ETC2, glCompressedRGB8ETC2, 0}, true
	case FormatRGBA8ETC2EAC:
		return textureTriple{glCompressedRGBA8ETC2EAC, glCompressedRGBA8ETC2EAC, 0}, true
	case FormatRGBABPTC:
		return textureTriple{glCompressedRGBABPTC, glCompressedRGBABPTC, 0}, true
	case FormatDepth16:
		return textureTriple{gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT}, true
	case FormatDepth24:
		return textureTriple{gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT}, true
	case FormatDepth32:
		return textureTriple{gl.DEPTH_COMPONENT32, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT}, true
	case FormatDepth32F:
		return textureTriple{glDepthComponent32F, gl.DEPTH_COMPONENT, gl.FLOAT}, true
	case FormatDepth24Stencil8:
		return textureTriple{gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8}, true
	case FormatDepth32FStencil8:
		return textureTriple{gl.DEPTH32F_STENCIL8, gl.DEPTH_STENCIL, glFloat32UnsignedInt248}, true
	case FormatStencil8:
		return textureTriple{glStencilIndex8, glStencilIndex, gl.UNSIGNED_BYTE}, true
	}
	return textureTriple{}, false
}

// tripleFor returns the native triple of f on tier t. Legacy tiers have no
// single and dual channel RED/RG formats and fall back to luminance; GLES2
// stores half floats with the OES type and has unsized internal formats.
func tripleFor(t ContextType, f TextureFormat) (textureTriple, bool) {
	if t.IsLegacy() {
		switch f {
		case FormatR8:
			f = FormatLuminance8
		case FormatRG8:
			f = FormatLuminanceAlpha8
		}
	}
	tr, ok := sizedTriple(f)
	if !ok {
		return tr, false
	}
	if t == GLES2 {
		if tr.typ == gl.HALF_FLOAT {
			tr.typ = glHalfFloatOES
		}
		if !f.IsCompressed() {
			tr.internal = tr.format
		}
	}
	return tr, true
}

// renderbufferFormat returns the sized internal format used for
// renderbuffer storage.
func renderbufferFormat(f TextureFormat) (uint32, bool) {
	tr, ok := sizedTriple(f)
	if !ok || f.IsCompressed() {
		return 0, false
	}
	return tr.internal, true
}

func glBufferTarget(k BufferKind) (uint32, bool) {
	switch k {
	case BufferVertex:
		return gl.ARRAY_BUFFER, true
	case BufferIndex:
		return gl.ELEMENT_ARRAY_BUFFER, true
	case BufferConstant:
		return gl.UNIFORM_BUFFER, true
	case BufferStorage:
		return gl.SHADER_STORAGE_BUFFER, true
	case BufferAtomicCounter:
		return glAtomicCounterBuffer, true
	case BufferDrawIndirect:
		return glDrawIndirectBuffer, true
	}
	return 0, false
}

func glBufferUsage(u BufferUsage) uint32 {
	switch u {
	case UsageDynamic:
		return gl.DYNAMIC_DRAW
	case UsageDrawOnce:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func glTextureTarget(t TextureTarget) uint32 {
	switch t {
	case Texture2DMS:
		return gl.TEXTURE_2D_MULTISAMPLE
	case Texture2DArray:
		return gl.TEXTURE_2D_ARRAY
	case TextureCube:
		return gl.TEXTURE_CUBE_MAP
	case TextureCubePosX:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X
	case TextureCubeNegX:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_X
	case TextureCubePosY:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Y
	case TextureCubeNegY:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Y
	case TextureCubePosZ:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Z
	case TextureCubeNegZ:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Z
	case Texture3D:
		return gl.TEXTURE_3D
	default:
		return gl.TEXTURE_2D
	}
}

// glBindTarget returns the binding point of a texture target; cube faces
// bind through the cube map.
func glBindTarget(t TextureTarget) uint32 {
	if t.isCubeFace() {
		return gl.TEXTURE_CUBE_MAP
	}
	return glTextureTarget(t)
}

func glAttachment(a Attachment) uint32 {
	switch a {
	case AttachDepth:
		return gl.DEPTH_ATTACHMENT
	case AttachStencil:
		return gl.STENCIL_ATTACHMENT
	case AttachDepthStencil:
		return gl.DEPTH_STENCIL_ATTACHMENT
	default:
		return gl.COLOR_ATTACHMENT0 + uint32(a-AttachColor0)
	}
}

func glRenderState(s RenderState) uint32 {
	switch s {
	case StateBlend:
		return gl.BLEND
	case StateCullFace:
		return gl.CULL_FACE
	case StateDepthTest:
		return gl.DEPTH_TEST
	case StateStencilTest:
		return gl.STENCIL_TEST
	case StateScissorTest:
		return gl.SCISSOR_TEST
	case StateMultisample:
		return glMultisample
	}
	return 0
}

func glClearMask(f ClearFlags) uint32 {
	var m uint32
	if f&ClearColor != 0 {
		m |= gl.COLOR_BUFFER_BIT
	}
	if f&ClearDepth != 0 {
		m |= gl.DEPTH_BUFFER_BIT
	}
	if f&ClearStencil != 0 {
		m |= gl.STENCIL_BUFFER_BIT
	}
	return m
}

func glDrawMode(m DrawMode) uint32 {
	switch m {
	case DrawPoints:
		return gl.POINTS
	case DrawLines:
		return gl.LINES
	case DrawLineStrip:
		return gl.LINE_STRIP
	case DrawLineLoop:
		return gl.LINE_LOOP
	case DrawTriangleStrip:
		return gl.TRIANGLE_STRIP
	case DrawTriangleFan:
		return gl.TRIANGLE_FAN
	case DrawPatches:
		return glPatches
	default:
		return gl.TRIANGLES
	}
}

func glShaderType(s ShaderStage) uint32 {
	switch s {
	case StageVertex:
		return gl.VERTEX_SHADER
	case StageFragment:
		return gl.FRAGMENT_SHADER
	case StageTessControl:
		return glTessControlShader
	case StageTessEval:
		return glTessEvaluationShader
	case StageGeometry:
		return glGeometryShader
	case StageCompute:
		return gl.COMPUTE_SHADER
	}
	return 0
}

func glStageBits(f ShaderStageFlags) uint32 {
	var bits uint32
	if f&StageFlagVertex != 0 {
		bits |= glVertexShaderBit
	}
	if f&StageFlagFragment != 0 {
		bits |= glFragmentShaderBit
	}
	if f&StageFlagTessControl != 0 {
		bits |= glTessControlShaderBit
	}
	if f&StageFlagTessEval != 0 {
		bits |= glTessEvaluationShaderBit
	}
	if f&StageFlagGeometry != 0 {
		bits |= glGeometryShaderBit
	}
	if f&StageFlagCompute != 0 {
		bits |= glComputeShaderBit
	}
	return bits
}

func glBlendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return gl.SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return gl.CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return gl.ONE_MINUS_CONSTANT_COLOR
	default:
		return gl.ONE
	}
}

func glBlendOp(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func glAdvancedBlend(b AdvancedBlend) uint32 {
	switch b {
	case BlendMultiply:
		return glMultiply
	case BlendScreen:
		return glScreen
	case BlendOverlay:
		return glOverlay
	case BlendDarken:
		return glDarken
	case BlendLighten:
		return glLighten
	case BlendColorDodge:
		return glColorDodge
	case BlendColorBurn:
		return glColorBurn
	case BlendHardLight:
		return glHardLight
	case BlendSoftLight:
		return glSoftLight
	case BlendDifference:
		return glDifference
	case BlendExclusion:
		return glExclusion
	}
	return 0
}

func glCompareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionLess:
		return gl.LESS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

func glStencilOp(op gputypes.StencilOperation) uint32 {
	switch op {
	case gputypes.StencilOperationZero:
		return gl.ZERO
	case gputypes.StencilOperationReplace:
		return gl.REPLACE
	case gputypes.StencilOperationInvert:
		return gl.INVERT
	case gputypes.StencilOperationIncrementClamp:
		return gl.INCR
	case gputypes.StencilOperationDecrementClamp:
		return gl.DECR
	case gputypes.StencilOperationIncrementWrap:
		return gl.INCR_WRAP
	case gputypes.StencilOperationDecrementWrap:
		return gl.DECR_WRAP
	default:
		return gl.KEEP
	}
}

func glCullFace(m gputypes.CullMode) uint32 {
	if m == gputypes.CullModeFront {
		return gl.FRONT
	}
	return gl.BACK
}

func glFrontFace(f gputypes.FrontFace) uint32 {
	if f == gputypes.FrontFaceCW {
		return gl.CW
	}
	return gl.CCW
}

func glMagFilter(f gputypes.FilterMode) int32 {
	if f == gputypes.FilterModeNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glMinFilter(f gputypes.FilterMode, mip gputypes.MipmapFilterMode) int32 {
	nearest := f == gputypes.FilterModeNearest
	switch mip {
	case gputypes.MipmapFilterModeNearest:
		if nearest {
			return gl.NEAREST_MIPMAP_NEAREST
		}
		return gl.LINEAR_MIPMAP_NEAREST
	case gputypes.MipmapFilterModeLinear:
		if nearest {
			return gl.NEAREST_MIPMAP_LINEAR
		}
		return gl.LINEAR_MIPMAP_LINEAR
	}
	if nearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glWrap(m gputypes.AddressMode) int32 {
	switch m {
	case gputypes.AddressModeRepeat:
		return gl.REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// vertexFormat is the native description of one vertex attribute.
type vertexFormat struct {
	components int32
	typ        uint32
	normalized bool
}

func glVertexFormat(f gputypes.VertexFormat) (vertexFormat, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return vertexFormat{1, gl.FLOAT, false}, true
	case gputypes.VertexFormatFloat32x2:
		return vertexFormat{2, gl.FLOAT, false}, true
	case gputypes.VertexFormatFloat32x3:
		return vertexFormat{3, gl.FLOAT, false}, true
	case gputypes.VertexFormatFloat32x4:
		return vertexFormat{4, gl.FLOAT, false}, true
	case gputypes.VertexFormatFloat16x2:
		return vertexFormat{2, gl.HALF_FLOAT, false}, true
	case gputypes.VertexFormatFloat16x4:
		return vertexFormat{4, gl.HALF_FLOAT, false}, true
	case gputypes.VertexFormatUnorm8x2:
		return vertexFormat{2, gl.UNSIGNED_BYTE, true}, true
	case gputypes.VertexFormatUnorm8x4:
		return vertexFormat{4, gl.UNSIGNED_BYTE, true}, true
	case gputypes.VertexFormatSnorm8x2:
		return vertexFormat{2, gl.BYTE, true}, true
	case gputypes.VertexFormatSnorm8x4:
		return vertexFormat{4, gl.BYTE, true}, true
	case gputypes.VertexFormatUint8x2:
		return vertexFormat{2, gl.UNSIGNED_BYTE, false}, true
	case gputypes.VertexFormatUint8x4:
		return vertexFormat{4, gl.UNSIGNED_BYTE, false}, true
	case gputypes.VertexFormatUnorm16x2:
		return vertexFormat{2, gl.UNSIGNED_SHORT, true}, true
	case gputypes.VertexFormatUnorm16x4:
		return vertexFormat{4, gl.UNSIGNED_SHORT, true}, true
	case gputypes.VertexFormatUint16x2:
		return vertexFormat{2, gl.UNSIGNED_SHORT, false}, true
	case gputypes.VertexFormatUint16x4:
		return vertexFormat{4, gl.UNSIGNED_SHORT, false}, true
	case gputypes.VertexFormatUint32:
		return vertexFormat{1, gl.UNSIGNED_INT, false}, true
	case gputypes.VertexFormatUint32x2:
		return vertexFormat{2, gl.UNSIGNED_INT, false}, true
	case gputypes.VertexFormatUint32x3:
		return vertexFormat{3, gl.UNSIGNED_INT, false}, true
	case gputypes.VertexFormatUint32x4:
		return vertexFormat{4, gl.UNSIGNED_INT, false}, true
	case gputypes.VertexFormatSint32:
		return vertexFormat{1, gl.INT, false}, true
	case gputypes.VertexFormatSint32x2:
		return vertexFormat{2, gl.INT, false}, true
	case gputypes.VertexFormatSint32x3:
		return vertexFormat{3, gl.INT, false}, true
	case gputypes.VertexFormatSint32x4:
		return vertexFormat{4, gl.INT, false}, true
	}
	return vertexFormat{}, false
}

func glIndexType(f gputypes.IndexFormat) (uint32, int) {
	if f == gputypes.IndexFormatUint32 {
		return gl.UNSIGNED_INT, 4
	}
	return gl.UNSIGNED_SHORT, 2
}

func glImageAccess(a ImageAccess) uint32 {
	switch a {
	case AccessRead:
		return glReadOnly
	case AccessWrite:
		return glWriteOnly
	default:
		return glReadWrite
	}
}

var barrierBits = [...]uint32{
	gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT,
	gl.ELEMENT_ARRAY_BARRIER_BIT,
	gl.UNIFORM_BARRIER_BIT,
	gl.TEXTURE_FETCH_BARRIER_BIT,
	gl.SHADER_IMAGE_ACCESS_BARRIER_BIT,
	gl.COMMAND_BARRIER_BIT,
	gl.PIXEL_BUFFER_BARRIER_BIT,
	gl.TEXTURE_UPDATE_BARRIER_BIT,
	gl.BUFFER_UPDATE_BARRIER_BIT,
	gl.FRAMEBUFFER_BARRIER_BIT,
	gl.ATOMIC_COUNTER_BARRIER_BIT,
	gl.SHADER_STORAGE_BARRIER_BIT,
}

func glBarrier(f BarrierFlags) uint32 {
	if f == BarrierAll {
		return gl.ALL_BARRIER_BITS
	}
	var bits uint32
	for i, b := range barrierBits {
		if f&(1<<i) != 0 {
			bits |= b
		}
	}
	return bits
}

func glQueryTarget(q QueryType) uint32 {
	switch q {
	case QueryAnySamplesPassed:
		return glAnySamplesPassed
	case QueryTimeElapsed:
		return glTimeElapsed
	default:
		return glSamplesPassed
	}
}

// shaderDataTypeOf maps a native uniform type to a ShaderDataType.
func shaderDataTypeOf(t uint32) ShaderDataType {
	switch t {
	case gl.FLOAT:
		return TypeFloat
	case glFloatVec2:
		return TypeVec2
	case glFloatVec3:
		return TypeVec3
	case glFloatVec4:
		return TypeVec4
	case gl.INT:
		return TypeInt
	case glIntVec2:
		return TypeIVec2
	case glIntVec3:
		return TypeIVec3
	case glIntVec4:
		return TypeIVec4
	case gl.UNSIGNED_INT:
		return TypeUint
	case glUnsignedIntVec2:
		return TypeUVec2
	case glUnsignedIntVec3:
		return TypeUVec3
	case glUnsignedIntVec4:
		return TypeUVec4
	case glBool:
		return TypeBool
	case glBoolVec2:
		return TypeBVec2
	case glBoolVec3:
		return TypeBVec3
	case glBoolVec4:
		return TypeBVec4
	case glFloatMat2:
		return TypeMat2
	case glFloatMat3:
		return TypeMat3
	case glFloatMat4:
		return TypeMat4
	case glSampler2D, glSampler2DShadow, glSampler2DMS:
		return TypeTexture2D
	case glSampler2DArray:
		return TypeTexture2DArray
	case glSamplerCube:
		return TypeTextureCube
	case glSampler3D:
		return TypeTexture3D
	case glImage2D, glUnsignedIntImage:
		return TypeImage2D
	}
	return TypeUnknown
}

// attribComponents returns the component count of a native attribute type.
func attribComponents(t uint32) int {
	switch t {
	case glFloatVec2, glIntVec2, glUnsignedIntVec2, glBoolVec2:
		return 2
	case glFloatVec3, glIntVec3, glUnsignedIntVec3, glBoolVec3:
		return 3
	case glFloatVec4, glIntVec4, glUnsignedIntVec4, glBoolVec4, glFloatMat2:
		return 4
	case glFloatMat3:
		return 9
	case glFloatMat4:
		return 16
	}
	return 1
}

// glErrorString decodes a native error code.
func glErrorString(code uint32) string {
	switch code {
	case gl.NO_ERROR:
		return "GL_NO_ERROR"
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("GL error 0x%04X", code)
}

// framebufferStatusString decodes a CheckFramebufferStatus result.
func framebufferStatusString(status uint32) string {
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return "complete"
	case 0x8CD6:
		return "incomplete attachment"
	case 0x8CD7:
		return "missing attachment"
	case 0x8CD9:
		return "incomplete dimensions"
	case 0x8CDD:
		return "unsupported"
	case 0x8D56:
		return "incomplete multisample"
	}
	return fmt.Sprintf("status 0x%04X", status)
}
