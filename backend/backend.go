package backend

import (
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	debugHandles bool
	debugAsserts bool
	extensions   []string
	extOverride  bool
}

// WithDebugHandles makes stale or double-released handles panic instead
// of being logged.
func WithDebugHandles(on bool) Option {
	return func(o *options) { o.debugHandles = on }
}

// WithDebugAsserts makes failed programming-error checks (type mismatch,
// invalid arguments) panic instead of being logged.
func WithDebugAsserts(on bool) Option {
	return func(o *options) { o.debugAsserts = on }
}

// WithExtensions replaces the extension list reported by the native
// context. Useful for testing capability probing and for drivers that
// misreport extensions.
func WithExtensions(ext ...string) Option {
	return func(o *options) {
		o.extensions = ext
		o.extOverride = true
	}
}

// Backend is the render backend of one native context. It is not safe for
// concurrent use: every call must come from the thread owning the
// context.
type Backend struct {
	gl       GL
	ext      ExtendedGL
	queryGL  QueryGL
	syncGL   SyncGL
	pipeGL   PipelineGL
	pathGL   PathRenderingGL
	format   SurfaceFormat
	ctxType  ContextType
	caps     Caps
	exts     extensionSet
	limits   Limits
	adapter  gpucontext.AdapterInfo
	opts     options
	maxUnits uint32

	buffers         arena[bufferObj]
	textures        arena[textureObj]
	targets         arena[renderTargetObj]
	renderbuffers   arena[renderbufferObj]
	samplers        arena[samplerObj]
	layouts         arena[attribLayoutObj]
	assemblers      arena[inputAssemblerObj]
	shaders         arena[shaderObj]
	programs        arena[programObj]
	pipelines       arena[uint32]
	queries         arena[queryObj]
	syncs           arena[uintptr]
	depthStencils   arena[DepthStencilDesc]
	rasterizers     arena[RasterizerDesc]
	pathObjects     arena[pathObj]
	state           glState
}

// New creates a backend over the native function set funcs for a context
// negotiated as format. A format with NoAPI creates a NullContext backend
// that reports no capabilities. A nil funcs uses NullFunctions.
func New(funcs GL, format SurfaceFormat, opts ...Option) *Backend {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if funcs == nil {
		funcs = NewNullFunctions(format)
	}
	b := &Backend{
		gl:            funcs,
		format:        format,
		ctxType:       ContextTypeOf(format),
		opts:          o,
		buffers:       newArena[bufferObj]("buffer"),
		textures:      newArena[textureObj]("texture"),
		targets:       newArena[renderTargetObj]("render target"),
		renderbuffers: newArena[renderbufferObj]("renderbuffer"),
		samplers:      newArena[samplerObj]("sampler"),
		layouts:       newArena[attribLayoutObj]("attrib layout"),
		assemblers:    newArena[inputAssemblerObj]("input assembler"),
		shaders:       newArena[shaderObj]("shader"),
		programs:      newArena[programObj]("program"),
		pipelines:     newArena[uint32]("program pipeline"),
		queries:       newArena[queryObj]("query"),
		syncs:         newArena[uintptr]("sync"),
		depthStencils: newArena[DepthStencilDesc]("depth stencil state"),
		rasterizers:   newArena[RasterizerDesc]("rasterizer state"),
		pathObjects:   newArena[pathObj]("path object"),
	}
	b.ext, _ = funcs.(ExtendedGL)
	b.queryGL, _ = funcs.(QueryGL)
	b.syncGL, _ = funcs.(SyncGL)
	b.pipeGL, _ = funcs.(PipelineGL)
	b.pathGL, _ = funcs.(PathRenderingGL)
	b.state.reset()

	if b.ctxType == NullContext {
		b.exts = parseExtensions()
		b.limits = b.queryLimits()
		b.maxUnits = uint32(max(b.limits.MaxTextureUnits, 1))
		b.adapter = gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
		slogger().Info("render backend created", "context", b.ctxType.String())
		return b
	}

	b.exts = b.probeExtensions()
	b.caps = computeCaps(format, b.exts, nativeSupport{
		extended: b.ext != nil,
		query:    b.queryGL != nil,
		sync:     b.syncGL != nil,
		pipeline: b.pipeGL != nil,
		path:     b.pathGL != nil,
	})
	b.limits = b.queryLimits()
	b.maxUnits = uint32(max(b.limits.MaxTextureUnits, 1))
	b.adapter = adapterInfo(funcs.GetString(gl.VENDOR), funcs.GetString(gl.RENDERER))

	slogger().Info("render backend created",
		"context", b.ctxType.String(),
		"format", format.String(),
		"adapter", b.adapter.Name,
		"adapterType", b.adapter.Type.String(),
		"caps", b.caps.String())
	return b
}

func (b *Backend) probeExtensions() extensionSet {
	if b.opts.extOverride {
		return parseExtensions(b.opts.extensions...)
	}
	// Core profiles removed GL_EXTENSIONS from GetString.
	if b.format.CoreProfile && b.ext != nil {
		var n int32
		b.gl.GetIntegerv(glNumExtensions, &n)
		list := make([]string, 0, n)
		for i := range uint32(max(n, 0)) {
			list = append(list, b.ext.GetStringi(gl.EXTENSIONS, i))
		}
		return parseExtensions(list...)
	}
	return parseExtensions(b.gl.GetString(gl.EXTENSIONS))
}

func (b *Backend) queryLimits() Limits {
	get := func(pname uint32) int {
		var v int32
		b.gl.GetIntegerv(pname, &v)
		return int(v)
	}
	l := Limits{
		MaxTextureSize:      get(gl.MAX_TEXTURE_SIZE),
		MaxTextureUnits:     get(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxVertexAttribs:    get(gl.MAX_VERTEX_ATTRIBS),
		MaxRenderbufferSize: get(gl.MAX_RENDERBUFFER_SIZE),
	}
	if !b.ctxType.IsLegacy() {
		l.MaxColorAttachments = get(gl.MAX_COLOR_ATTACHMENTS)
		l.MaxDrawBuffers = get(gl.MAX_DRAW_BUFFERS)
		l.MaxSamples = get(gl.MAX_SAMPLES)
	} else {
		l.MaxColorAttachments = 1
		l.MaxDrawBuffers = 1
	}
	if b.caps.Has(CapConstantBuffer) {
		l.MaxUniformBlockSize = get(gl.MAX_UNIFORM_BLOCK_SIZE)
		l.MaxConstantBufferSlot = get(gl.MAX_UNIFORM_BUFFER_BINDINGS)
	}
	return l
}

// adapterInfo classifies the adapter from the vendor and renderer strings.
func adapterInfo(vendor, renderer string) gpucontext.AdapterInfo {
	info := gpucontext.AdapterInfo{Name: renderer, Type: gpucontext.AdapterTypeUnknown}
	r := strings.ToLower(renderer + " " + vendor)
	switch {
	case strings.Contains(r, "llvmpipe"), strings.Contains(r, "softpipe"),
		strings.Contains(r, "swiftshader"), strings.Contains(r, "software"):
		info.Type = gpucontext.AdapterTypeSoftware
	case strings.Contains(r, "intel"), strings.Contains(r, "mali"), strings.Contains(r, "adreno"),
		strings.Contains(r, "powervr"), strings.Contains(r, "apple"):
		info.Type = gpucontext.AdapterTypeIntegrated
	case strings.Contains(r, "nvidia"), strings.Contains(r, "geforce"), strings.Contains(r, "radeon"),
		strings.Contains(r, "amd"):
		info.Type = gpucontext.AdapterTypeDiscrete
	}
	return info
}

// ContextType returns the capability tier. It makes no native calls.
func (b *Backend) ContextType() ContextType { return b.ctxType }

// SurfaceFormat returns the negotiated surface format.
func (b *Backend) SurfaceFormat() SurfaceFormat { return b.format }

// Cap reports whether a capability is supported. SampleQuery, CommandSync
// and TextureArray are derived from the tier rather than probed.
func (b *Backend) Cap(c Cap) bool {
	switch c {
	case CapSampleQuery:
		return b.tierAtLeast3() && b.queryGL != nil
	case CapCommandSync:
		return b.tierAtLeast3() && b.syncGL != nil
	case CapTextureArray:
		return b.tierAtLeast3()
	}
	return b.caps.Has(c)
}

func (b *Backend) tierAtLeast3() bool {
	return b.ctxType != NullContext && !b.ctxType.IsLegacy()
}

// Caps returns every supported capability as a bitset.
func (b *Backend) Caps() Caps {
	s := b.caps
	for _, c := range [...]Cap{CapSampleQuery, CapCommandSync, CapTextureArray} {
		s.set(c, b.Cap(c))
	}
	return s
}

// HasExtension reports whether the native context advertises ext.
func (b *Backend) HasExtension(ext string) bool { return b.exts.has(ext) }

// Limits returns the implementation limits.
func (b *Backend) Limits() Limits { return b.limits }

// AdapterInfo returns the adapter description derived from the native
// vendor and renderer strings.
func (b *Backend) AdapterInfo() gpucontext.AdapterInfo { return b.adapter }

// Native returns the native function set.
func (b *Backend) Native() GL { return b.gl }

// LiveObjects returns the number of unreleased objects of every kind.
func (b *Backend) LiveObjects() map[string]int {
	return map[string]int{
		b.buffers.kind:       b.buffers.len(),
		b.textures.kind:      b.textures.len(),
		b.targets.kind:       b.targets.len(),
		b.renderbuffers.kind: b.renderbuffers.len(),
		b.samplers.kind:      b.samplers.len(),
		b.layouts.kind:       b.layouts.len(),
		b.assemblers.kind:    b.assemblers.len(),
		b.shaders.kind:       b.shaders.len(),
		b.programs.kind:      b.programs.len(),
		b.pipelines.kind:     b.pipelines.len(),
		b.queries.kind:       b.queries.len(),
		b.syncs.kind:         b.syncs.len(),
		b.depthStencils.kind: b.depthStencils.len(),
		b.rasterizers.kind:   b.rasterizers.len(),
		b.pathObjects.kind:   b.pathObjects.len(),
	}
}

// Flush submits pending native commands.
func (b *Backend) Flush() { b.gl.Flush() }

// Finish blocks until pending native commands are complete.
func (b *Backend) Finish() { b.gl.Finish() }
