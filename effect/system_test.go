package effect

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

// Native uniform type codes reported by the null functions.
const (
	nativeFloat     = 0x1406
	nativeFloatVec2 = 0x8B50
	nativeFloatVec4 = 0x8B52
	nativeFloatMat4 = 0x8B5C
	nativeSampler2D = 0x8B5E
	nativeImage2D   = 0x904D
)

const (
	locTexture0 = iota
	locMVP
	locColor
	locTexture1
	locImage
	locDestSize
	locFrameCount
)

const tintSource = `
#ifdef VERTEX_SHADER
in vec3 attr_pos;
in vec2 attr_uv;
out vec2 uv;
uniform mat4 ModelViewProjectionMatrix;
void main() { uv = attr_uv; gl_Position = ModelViewProjectionMatrix * vec4(attr_pos, 1.0); }
#endif
#ifdef FRAGMENT_SHADER
in vec2 uv;
uniform sampler2D Texture0;
uniform vec4 Color;
void main() { fragOutput = texture(Texture0, uv) * Color; }
#endif
`

type fixture struct {
	sys *System
	rm  *resource.Manager
	sm  *shader.Manager
	b   *backend.Backend
	nf  *backend.NullFunctions
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := backend.SurfaceFormat{API: backend.OpenGLES, Major: 3, Minor: 1}
	nf := backend.NewNullFunctions(f)
	nf.Uniforms = []backend.NullUniform{
		{Name: "Texture0", Type: nativeSampler2D, Size: 1, Location: locTexture0},
		{Name: "ModelViewProjectionMatrix", Type: nativeFloatMat4, Size: 1, Location: locMVP},
		{Name: "Color", Type: nativeFloatVec4, Size: 1, Location: locColor},
		{Name: "Texture1", Type: nativeSampler2D, Size: 1, Location: locTexture1},
		{Name: "Img", Type: nativeImage2D, Size: 1, Location: locImage},
		{Name: "DestSize", Type: nativeFloatVec2, Size: 1, Location: locDestSize},
		{Name: "FrameCount", Type: nativeFloat, Size: 1, Location: locFrameCount},
	}
	nf.StorageBlocks = []string{"Counters"}
	b := backend.New(nf, f)
	rm := resource.NewManager(b, resource.Config{})
	sm := shader.NewManager(b, shader.Config{})
	sm.SetShaderData("tint.glsl", tintSource, 0, shader.LanguageGLSL, false, false)
	nf.Reset()
	fx := &fixture{sys: NewSystem(rm, sm, cfg), rm: rm, sm: sm, b: b, nf: nf}
	t.Cleanup(func() {
		fx.sys.Release()
		sm.Release()
		rm.Release()
	})
	return fx
}

func (fx *fixture) input(t *testing.T) backend.TextureHandle {
	t.Helper()
	tex := fx.rm.AllocateTexture2D(64, 32, backend.FormatRGBA8, 1, false)
	require.False(t, tex.IsNull())
	return tex
}

func tintClass(cmds ...Command) *Class {
	return &Class{
		Name: "tint",
		Properties: []Property{
			{Name: "Color", Type: backend.TypeVec4, Value: []float32{1, 0.5, 0.5, 1}},
		},
		Commands: cmds,
	}
}

func TestRenderEffectDrawsQuad(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		BindShader{Path: "tint.glsl"},
		ApplyInstanceValue{},
		Render{},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	d, ok := fx.b.TextureDetails(out)
	require.True(t, ok)
	assert.Equal(t, 64, d.Width)
	assert.Equal(t, 32, d.Height)
	assert.Equal(t, backend.FormatRGBA8, d.Format)

	assert.Equal(t, 1, fx.nf.Calls("DrawElements"))
	assert.Equal(t, []float32{1, 0.5, 0.5, 1}, fx.nf.UniformValue(locColor))
	mvp := fitMVP()
	assert.Equal(t, mvp[:], fx.nf.UniformValue(locMVP))
}

func TestSetPropertyChecksType(t *testing.T) {
	e := New(tintClass())
	assert.False(t, e.SetProperty("Color", float32(1)))
	assert.False(t, e.SetProperty("Missing", []float32{0, 0, 0, 0}))
	require.True(t, e.SetProperty("Color", []float32{0, 1, 0, 1}))

	p, ok := e.Property("Color")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1, 0, 1}, p.Value)

	other := New(tintClass())
	p, _ = other.Property("Color")
	assert.Equal(t, []float32{1, 0.5, 0.5, 1}, p.Value, "instances must not share values")
	assert.NotEqual(t, e.ID(), other.ID())
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		size  [2]int
		mult  float32
		wantW int
		wantH int
	}{
		{[2]int{64, 32}, 1, 64, 32},
		{[2]int{64, 30}, 0.5, 32, 16},
		{[2]int{64, 30}, 0, 64, 32},
		{[2]int{10, 10}, 0.01, 4, 4},
		{[2]int{100, 50}, 2, 200, 100},
	}
	for _, tt := range tests {
		w, h := scaledSize(tt.size, tt.mult)
		assert.Equal(t, tt.wantW, w, "width of %v x %v", tt.size, tt.mult)
		assert.Equal(t, tt.wantH, h, "height of %v x %v", tt.size, tt.mult)
		assert.Zero(t, w%4)
		assert.Zero(t, h%4)
	}
}

func TestAllocateBufferReusesMatchingEntry(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateBuffer{Name: "half", SizeMultiplier: 0.5, Lifetime: SceneLifetime},
		BindBuffer{Name: "half"},
		BindShader{Path: "tint.glsl"},
		Render{},
		BindTarget{},
		ApplyBufferValue{Buffer: "half"},
		Render{},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	fx.rm.ReleaseTexture(out)

	ctx, ok := fx.sys.Context(e)
	require.True(t, ok)
	first, ok := ctx.Buffer("half")
	require.True(t, ok)
	assert.Equal(t, 32, first.Width)
	assert.Equal(t, 16, first.Height)

	before := fx.rm.Stats()
	fx.nf.Reset()
	out, ok = fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	second, ok := ctx.Buffer("half")
	require.True(t, ok)
	assert.Equal(t, first.Texture, second.Texture)
	assert.Equal(t, first.Target, second.Target)
	assert.Zero(t, fx.nf.Calls("GenTextures"))
	assert.Zero(t, fx.nf.Calls("GenFramebuffers"))
	assert.Equal(t, before.Misses, fx.rm.Stats().Misses, "a matching buffer must not allocate")
	assert.Equal(t, 2, fx.nf.Calls("DrawElements"))
}

func TestAllocateBufferReallocatesOnResize(t *testing.T) {
	fx := newFixture(t, Config{})
	e := New(tintClass(AllocateBuffer{Name: "buf", Lifetime: SceneLifetime}))

	small := fx.input(t)
	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: small})
	require.True(t, ok)
	fx.rm.ReleaseTexture(out)
	ctx, _ := fx.sys.Context(e)
	first, _ := ctx.Buffer("buf")

	large := fx.rm.AllocateTexture2D(128, 128, backend.FormatRGBA8, 1, false)
	out, ok = fx.sys.RenderEffect(e, RenderArgs{Input: large})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	second, ok := ctx.Buffer("buf")
	require.True(t, ok)
	assert.Equal(t, 128, second.Width)
	assert.NotEqual(t, first.Texture, second.Texture)
	assert.Equal(t, 1, ctx.Len())
}

func TestFrameLifetimeEntriesReleased(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateBuffer{Name: "tmp"},
		AllocateBuffer{Name: "keep", Lifetime: SceneLifetime},
		AllocateDataBuffer{Name: "scratch", Size: 64, BufferKind: backend.BufferStorage},
		AllocateDataBuffer{Name: "hist", Size: 256, BufferKind: backend.BufferStorage, Lifetime: SceneLifetime},
		BindBuffer{Name: "tmp"},
		BindBuffer{Name: "keep"},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	ctx, ok := fx.sys.Context(e)
	require.True(t, ok)
	_, ok = ctx.Buffer("tmp")
	assert.False(t, ok, "frame buffers are released after the invocation")
	_, ok = ctx.DataBuffer("scratch")
	assert.False(t, ok)

	keep, ok := ctx.Buffer("keep")
	require.True(t, ok)
	assert.True(t, keep.NeedsClear, "scene buffers must be cleared on their next use")
	hist, ok := ctx.DataBuffer("hist")
	require.True(t, ok)
	assert.True(t, hist.NeedsClear)
	assert.Len(t, hist.Data, 256)
	assert.Equal(t, 2, ctx.Len())

	fx.sys.ReleaseEffectContext(e)
	_, ok = fx.sys.Context(e)
	assert.False(t, ok)
}

func TestMissingBufferSkipsRender(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	fx.b.SetViewport(backend.Rect{Width: 64, Height: 32})
	e := New(tintClass(
		BindBuffer{Name: "nope"},
		BindShader{Path: "tint.glsl"},
		Render{},
	))

	drew := fx.sys.RenderEffectToTarget(e, RenderArgs{Input: in}, Identity(), false)
	assert.False(t, drew)
	assert.Zero(t, fx.nf.Calls("DrawElements"))
}

func TestMissingShaderSkipsRender(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(BindShader{Path: "missing.glsl"}, Render{}))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)
	assert.Zero(t, fx.nf.Calls("DrawElements"))
}

func TestDataBufferLayoutAssert(t *testing.T) {
	cls := tintClass(
		AllocateDataBuffer{Name: "d", Size: 64, BufferKind: backend.BufferStorage, Lifetime: SceneLifetime},
		AllocateDataBuffer{Name: "d", Size: 128, BufferKind: backend.BufferStorage, Lifetime: SceneLifetime},
	)

	t.Run("release", func(t *testing.T) {
		fx := newFixture(t, Config{})
		in := fx.input(t)
		e := New(cls)
		out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
		require.True(t, ok)
		defer fx.rm.ReleaseTexture(out)

		ctx, _ := fx.sys.Context(e)
		d, ok := ctx.DataBuffer("d")
		require.True(t, ok)
		assert.Equal(t, 64, d.Size, "the first layout wins")
	})

	t.Run("debug", func(t *testing.T) {
		fx := newFixture(t, Config{DebugAsserts: true})
		in := fx.input(t)
		assert.Panics(t, func() { fx.sys.RenderEffect(New(cls), RenderArgs{Input: in}) })
	})
}

func TestDataBufferWrapAliasesBuffer(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateDataBuffer{Name: "params", Size: 32, BufferKind: backend.BufferConstant, WrapName: "params_rw", Lifetime: SceneLifetime},
		BindShader{Path: "tint.glsl"},
		ApplyDataBufferValue{Buffer: "params_rw", Param: "Counters"},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	ctx, _ := fx.sys.Context(e)
	a, ok := ctx.DataBuffer("params")
	require.True(t, ok)
	w, ok := ctx.DataBuffer("params_rw")
	require.True(t, ok)
	assert.Equal(t, backend.BufferStorage, w.Kind)
	assert.Equal(t, backend.BufferStorage, fx.b.BufferKindOf(w.Buffer))
	assert.Equal(t, backend.BufferConstant, fx.b.BufferKindOf(a.Buffer))
	assert.True(t, fx.b.SameBuffer(a.Buffer, w.Buffer), "wrap must alias the native buffer")
	require.NotEmpty(t, a.Data)
	assert.Same(t, &a.Data[0], &w.Data[0])

	// One native buffer backs both entries and is deleted once.
	live := fx.nf.Live("buffer")
	deletes := fx.nf.Calls("DeleteBuffers")
	fx.sys.ReleaseEffectContext(e)
	assert.Equal(t, live-1, fx.nf.Live("buffer"))
	assert.Equal(t, deletes+1, fx.nf.Calls("DeleteBuffers"))
}

func TestDataBufferWrapAllocatesOnce(t *testing.T) {
	gens := func(wrap string) int {
		fx := newFixture(t, Config{})
		in := fx.input(t)
		e := New(tintClass(
			AllocateDataBuffer{Name: "params", Size: 32, BufferKind: backend.BufferConstant, WrapName: wrap, Lifetime: SceneLifetime},
			BindShader{Path: "tint.glsl"},
		))
		out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
		require.True(t, ok)
		fx.rm.ReleaseTexture(out)
		return fx.nf.Calls("GenBuffers")
	}
	assert.Equal(t, gens(""), gens("params_rw"))
}

func TestDepthStencilStatesDeduplicated(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateBuffer{Name: "ds", Format: backend.FormatDepth24Stencil8, Lifetime: SceneLifetime},
		BindShader{Path: "tint.glsl"},
		DepthStencil{Buffer: "ds", ClearStencil: true, Compare: gputypes.CompareFunctionEqual, Ref: 1},
		Render{},
		DepthStencil{Buffer: "ds", Compare: gputypes.CompareFunctionEqual, Ref: 1},
		Render{},
	))

	for range 2 {
		out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
		require.True(t, ok)
		fx.rm.ReleaseTexture(out)
	}
	require.Len(t, fx.sys.dsStates, 1)
	d := fx.sys.dsStates[0].desc
	assert.True(t, d.StencilEnable)
	assert.Equal(t, gputypes.CompareFunctionEqual, d.FrontFunc.Compare)
	assert.Equal(t, uint32(0xFF), d.FrontFunc.Mask)
	assert.Equal(t, gputypes.StencilOperationKeep, d.FrontOp.Pass)
	assert.Equal(t, 4, fx.nf.Calls("DrawElements"))
}

func TestSandboxRestoresState(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	b := fx.b
	vp := backend.Rect{X: 4, Y: 8, Width: 200, Height: 100}
	bf := backend.BlendFunc{
		SrcRGB: gputypes.BlendFactorOne, DstRGB: gputypes.BlendFactorZero,
		SrcAlpha: gputypes.BlendFactorOne, DstAlpha: gputypes.BlendFactorZero,
	}
	b.SetViewport(vp)
	b.SetBlendFunc(bf)
	b.SetRenderState(backend.StateScissorTest, true)
	e := New(tintClass(
		AllocateBuffer{Name: "tmp"},
		BindBuffer{Name: "tmp", NeedsClear: true},
		BindShader{Path: "tint.glsl"},
		ApplyBlending{Src: gputypes.BlendFactorSrcAlpha, Dst: gputypes.BlendFactorOneMinusSrcAlpha},
		Render{},
		BindTarget{},
		ApplyBufferValue{Buffer: "tmp"},
		Render{},
	))

	drew := fx.sys.RenderEffectToTarget(e, RenderArgs{Input: in}, Identity(), false)
	assert.True(t, drew)
	assert.Equal(t, vp, b.Viewport())
	assert.Equal(t, bf, b.BlendFunc())
	assert.True(t, b.RenderState(backend.StateScissorTest))
	assert.False(t, b.RenderState(backend.StateBlend))
	assert.Equal(t, []float32{200, 100}, fx.nf.UniformValue(locDestSize))
}

func TestSceneBufferClearedOncePerInvocation(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateBuffer{Name: "acc", Lifetime: SceneLifetime},
		BindShader{Path: "tint.glsl"},
		ApplyBufferValue{Buffer: "acc", Param: "Texture1"},
		ApplyBufferValue{Buffer: "acc"},
		Render{},
	))

	for range 2 {
		fx.nf.Reset()
		out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
		require.True(t, ok)
		fx.rm.ReleaseTexture(out)
		assert.Equal(t, 1, fx.nf.Calls("Clear"))
	}
}

func TestRequiresCompilationForcesOneRebuild(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		BindShader{Path: "tint.glsl"},
		Render{},
		BindShader{Path: "tint.glsl"},
		Render{},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	fx.rm.ReleaseTexture(out)
	assert.Equal(t, 1, fx.nf.Calls("CreateProgram"))

	e.RequiresCompilation = true
	fx.nf.Reset()
	out, ok = fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	fx.rm.ReleaseTexture(out)
	assert.Equal(t, 1, fx.nf.Calls("CreateProgram"), "the program is rebuilt once per invocation")
	assert.False(t, e.RequiresCompilation)
	assert.Equal(t, 1, fx.nf.Live("program"))
}

func TestImageValueWithBarrier(t *testing.T) {
	fx := newFixture(t, Config{})
	in := fx.input(t)
	e := New(tintClass(
		AllocateImage{Name: "img"},
		BindShader{Path: "tint.glsl"},
		ApplyImageValue{Image: "img", Param: "Img", NeedSync: true},
		Render{},
	))

	out, ok := fx.sys.RenderEffect(e, RenderArgs{Input: in})
	require.True(t, ok)
	defer fx.rm.ReleaseTexture(out)

	assert.Equal(t, 1, fx.nf.Calls("BindImageTexture"))
	assert.Equal(t, 1, fx.nf.Calls("MemoryBarrier"))
	assert.Zero(t, fx.rm.Stats().LiveImages, "frame images are released after the invocation")
}

func TestApplyValueTypeMismatch(t *testing.T) {
	cls := tintClass(
		BindShader{Path: "tint.glsl"},
		ApplyValue{Param: "Color", Type: backend.TypeFloat, Value: float32(1)},
	)

	fx := newFixture(t, Config{})
	in := fx.input(t)
	out, ok := fx.sys.RenderEffect(New(cls), RenderArgs{Input: in})
	require.True(t, ok)
	fx.rm.ReleaseTexture(out)
	assert.Nil(t, fx.nf.UniformValue(locColor))

	fx = newFixture(t, Config{DebugAsserts: true})
	in = fx.input(t)
	assert.Panics(t, func() { fx.sys.RenderEffect(New(cls), RenderArgs{Input: in}) })
}
