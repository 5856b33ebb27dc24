package backend

import (
	"strings"
)

// Cap is a backend capability.
type Cap uint8

// Capabilities reported by Backend.Cap.
const (
	CapFpRenderTarget Cap = iota
	CapDepthStencilTexture
	CapConstantBuffer
	CapDxtImages
	CapMsTexture
	CapTexSwizzle
	CapFastBlits
	CapTessellation
	CapCompute
	CapGeometryShader
	CapSampleQuery
	CapTimerQuery
	CapCommandSync
	CapTextureArray
	CapStorageBuffer
	CapShaderImageLoadStore
	CapProgramPipeline
	CapAdvancedBlend
	CapAdvancedBlendNV
	CapBlendCoherency
	CapGpuShader5
	CapVertexArrayObject
	CapStandardDerivatives
	CapTextureLod
	CapTextureStorage
	CapPathRendering

	capCount
)

var capNames = [...]string{
	CapFpRenderTarget:       "FpRenderTarget",
	CapDepthStencilTexture:  "DepthStencilTexture",
	CapConstantBuffer:       "ConstantBuffer",
	CapDxtImages:            "DxtImages",
	CapMsTexture:            "MsTexture",
	CapTexSwizzle:           "TexSwizzle",
	CapFastBlits:            "FastBlits",
	CapTessellation:         "Tessellation",
	CapCompute:              "Compute",
	CapGeometryShader:       "GeometryShader",
	CapSampleQuery:          "SampleQuery",
	CapTimerQuery:           "TimerQuery",
	CapCommandSync:          "CommandSync",
	CapTextureArray:         "TextureArray",
	CapStorageBuffer:        "StorageBuffer",
	CapShaderImageLoadStore: "ShaderImageLoadStore",
	CapProgramPipeline:      "ProgramPipeline",
	CapAdvancedBlend:        "AdvancedBlend",
	CapAdvancedBlendNV:      "AdvancedBlendNV",
	CapBlendCoherency:       "BlendCoherency",
	CapGpuShader5:           "GpuShader5",
	CapVertexArrayObject:    "VertexArrayObject",
	CapStandardDerivatives:  "StandardDerivatives",
	CapTextureLod:           "TextureLod",
	CapTextureStorage:       "TextureStorage",
	CapPathRendering:        "PathRendering",
}

// String returns the capability name.
func (c Cap) String() string {
	if int(c) < len(capNames) {
		return capNames[c]
	}
	return "Cap(?)"
}

// AllCaps returns every capability in declaration order.
func AllCaps() []Cap {
	caps := make([]Cap, 0, capCount)
	for c := Cap(0); c < capCount; c++ {
		caps = append(caps, c)
	}
	return caps
}

// Caps is a capability bitset.
type Caps uint64

// Has reports whether c is set.
func (s Caps) Has(c Cap) bool { return s&(1<<c) != 0 }

func (s *Caps) set(c Cap, on bool) {
	if on {
		*s |= 1 << c
	} else {
		*s &^= 1 << c
	}
}

// String lists the set capabilities.
func (s Caps) String() string {
	var names []string
	for c := Cap(0); c < capCount; c++ {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// extensionSet is the parsed GL_EXTENSIONS list.
type extensionSet map[string]struct{}

func parseExtensions(list ...string) extensionSet {
	set := make(extensionSet)
	for _, l := range list {
		for _, e := range strings.Fields(l) {
			set[e] = struct{}{}
		}
	}
	return set
}

func (e extensionSet) has(names ...string) bool {
	for _, n := range names {
		if _, ok := e[n]; ok {
			return true
		}
	}
	return false
}

// nativeSupport records which optional native interfaces are implemented.
type nativeSupport struct {
	extended bool
	query    bool
	sync     bool
	pipeline bool
	path     bool
}

// computeCaps derives the stored capability bits. SampleQuery, CommandSync
// and TextureArray are not stored; Backend.Cap derives them from the tier.
func computeCaps(f SurfaceFormat, ext extensionSet, native nativeSupport) Caps {
	var c Caps
	if ContextTypeOf(f) == NullContext {
		return c
	}
	es := func(major, minor int) bool { return f.atLeast(OpenGLES, major, minor) }
	gl := func(major, minor int) bool { return f.atLeast(OpenGL, major, minor) }

	c.set(CapFpRenderTarget, es(3, 0) || gl(3, 0) ||
		ext.has("GL_EXT_color_buffer_half_float", "GL_EXT_color_buffer_float", "GL_ARB_color_buffer_float"))
	c.set(CapDepthStencilTexture, es(3, 0) || gl(3, 0) ||
		ext.has("GL_OES_packed_depth_stencil", "GL_EXT_packed_depth_stencil"))
	c.set(CapConstantBuffer, es(3, 0) || gl(3, 1) || ext.has("GL_ARB_uniform_buffer_object"))
	c.set(CapDxtImages, ext.has("GL_EXT_texture_compression_s3tc", "GL_EXT_texture_compression_dxt1") && native.extended)
	c.set(CapMsTexture, es(3, 1) || gl(3, 2) || ext.has("GL_ARB_texture_multisample"))
	c.set(CapTexSwizzle, es(3, 0) || gl(3, 3) || ext.has("GL_ARB_texture_swizzle", "GL_EXT_texture_swizzle"))
	c.set(CapFastBlits, es(3, 0) || gl(3, 0) || ext.has("GL_NV_framebuffer_blit", "GL_ARB_framebuffer_object"))
	c.set(CapTessellation, native.extended && (es(3, 2) || gl(4, 0) ||
		ext.has("GL_EXT_tessellation_shader", "GL_ARB_tessellation_shader")))
	c.set(CapCompute, es(3, 1) || gl(4, 3) || ext.has("GL_ARB_compute_shader"))
	c.set(CapGeometryShader, es(3, 2) || gl(3, 2) || ext.has("GL_EXT_geometry_shader"))
	c.set(CapTimerQuery, native.query && (gl(3, 3) ||
		ext.has("GL_EXT_disjoint_timer_query", "GL_ARB_timer_query")))
	c.set(CapStorageBuffer, native.extended && (es(3, 1) || gl(4, 3) ||
		ext.has("GL_ARB_shader_storage_buffer_object")))
	c.set(CapShaderImageLoadStore, native.extended && (es(3, 1) || gl(4, 2) ||
		ext.has("GL_ARB_shader_image_load_store")))
	c.set(CapProgramPipeline, native.pipeline && (es(3, 1) || gl(4, 1) ||
		ext.has("GL_ARB_separate_shader_objects", "GL_EXT_separate_shader_objects")))
	c.set(CapAdvancedBlend, native.extended && ext.has("GL_KHR_blend_equation_advanced"))
	c.set(CapAdvancedBlendNV, native.extended && ext.has("GL_NV_blend_equation_advanced"))
	c.set(CapBlendCoherency, ext.has("GL_KHR_blend_equation_advanced_coherent", "GL_NV_blend_equation_advanced_coherent"))
	c.set(CapGpuShader5, es(3, 2) || gl(4, 0) || ext.has("GL_EXT_gpu_shader5", "GL_ARB_gpu_shader5"))
	c.set(CapVertexArrayObject, es(3, 0) || gl(3, 0) ||
		ext.has("GL_OES_vertex_array_object", "GL_ARB_vertex_array_object"))
	c.set(CapStandardDerivatives, f.API == OpenGL || es(3, 0) || ext.has("GL_OES_standard_derivatives"))
	c.set(CapTextureLod, f.API == OpenGL || es(3, 0) || ext.has("GL_EXT_shader_texture_lod"))
	c.set(CapTextureStorage, native.extended && (es(3, 0) || gl(4, 2) ||
		ext.has("GL_ARB_texture_storage", "GL_EXT_texture_storage")))
	c.set(CapPathRendering, native.path && ext.has("GL_NV_path_rendering"))
	return c
}
