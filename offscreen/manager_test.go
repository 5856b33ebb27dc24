package offscreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/render"
	"github.com/gogpu/glrender/resource"
)

const (
	glNearest = 0x2600
	glLinear  = 0x2601
)

type fakeRenderer struct {
	env     Environment
	changed bool
	renders int
	last    Environment
	onRender func()
}

func (r *fakeRenderer) DesiredEnvironment(scale float32) Environment {
	env := r.env
	env.Width = int(float32(env.Width) * scale)
	env.Height = int(float32(env.Height) * scale)
	return env
}

func (r *fakeRenderer) NeedsRender(Environment, float32) Hints {
	return Hints{HasTransparency: true, HasChangedSinceLastFrame: r.changed}
}

func (r *fakeRenderer) Render(env Environment, _ *backend.Backend, _ float32, _ *render.TaskList) {
	r.renders++
	r.last = env
	if r.onRender != nil {
		r.onRender()
	}
}

type fixture struct {
	m     *Manager
	rm    *resource.Manager
	b     *backend.Backend
	nf    *backend.NullFunctions
	tasks *render.TaskList
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := backend.SurfaceFormat{API: backend.OpenGLES, Major: 3, Minor: 1}
	nf := backend.NewNullFunctions(f)
	b := backend.New(nf, f)
	nf.Reset()
	rm := resource.NewManager(b, resource.Config{})
	t.Cleanup(rm.Release)
	tasks := &render.TaskList{}
	return &fixture{m: NewManager(rm, tasks, cfg), rm: rm, b: b, nf: nf, tasks: tasks}
}

func TestSSAARenderSize(t *testing.T) {
	fx := newFixture(t, Config{})
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{100, 50, 200, 100},
		{3000, 3000, 4096, 4096},
		{3000, 1000, 4096, 2000},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		w, h := fx.m.SSAARenderSize(tt.w, tt.h)
		assert.Equal(t, tt.wantW, w, "SSAARenderSize(%d, %d) width", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "SSAARenderSize(%d, %d) height", tt.w, tt.h)
	}

	small := newFixture(t, Config{MaxSSAADimension: 512})
	w, h := small.m.SSAARenderSize(300, 200)
	assert.Equal(t, 512, w)
	assert.Equal(t, 400, h)
}

func TestRegisterOffscreenRenderer(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{}
	assert.True(t, fx.m.RegisterOffscreenRenderer("overlay", r))
	assert.False(t, fx.m.RegisterOffscreenRenderer("overlay", &fakeRenderer{}))
	assert.False(t, fx.m.RegisterOffscreenRenderer("nil", nil))

	key := &struct{ id int }{1}
	assert.True(t, fx.m.RegisterOffscreenRenderer(key, &fakeRenderer{}))
	assert.True(t, fx.m.HasOffscreenRenderer(key))

	got, ok := fx.m.OffscreenRenderer("overlay")
	require.True(t, ok)
	assert.Same(t, r, got)

	fx.m.ReleaseOffscreenRenderer("overlay")
	assert.False(t, fx.m.HasOffscreenRenderer("overlay"))
	assert.Equal(t, Result{}, fx.m.RenderedItem("overlay"))
}

func TestRenderedItemSkipsUnchangedFrame(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 128, Height: 64}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	fx.m.BeginFrame()
	first := fx.m.RenderedItem("hud")
	require.False(t, first.Texture.IsNull())
	assert.True(t, first.HasChangedSinceLastFrame)
	assert.True(t, first.HasTransparency)
	assert.Equal(t, 1, fx.tasks.Len())
	fx.m.EndFrame()
	assert.Equal(t, 1, r.renders)

	r.changed = false
	fx.m.BeginFrame()
	second := fx.m.RenderedItem("hud")
	assert.Equal(t, first.Texture, second.Texture)
	assert.False(t, second.HasChangedSinceLastFrame)
	assert.Zero(t, fx.tasks.Len(), "the queued render must be discarded")
	fx.m.EndFrame()
	assert.Equal(t, 1, r.renders, "an unchanged renderer must not render again")
}

func TestRenderedItemOncePerFrame(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 64, Height: 64}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	a := fx.m.RenderedItem("hud")
	b := fx.m.RenderedItem("hud")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, fx.tasks.Len())
	fx.m.EndFrame()

	fx.m.BeginFrame()
	c := fx.m.RenderedItem("hud")
	assert.Equal(t, a.Texture, c.Texture, "a changed renderer reuses its texture at the same size")
	fx.m.EndFrame()
	assert.Equal(t, 2, r.renders)
}

func TestRenderedItemRoundsAndResizes(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 30, Height: 18}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	first := fx.m.RenderedItem("hud")
	d, ok := fx.b.TextureDetails(first.Texture)
	require.True(t, ok)
	assert.Equal(t, 32, d.Width)
	assert.Equal(t, 20, d.Height)
	fx.m.EndFrame()
	assert.Equal(t, 32, r.last.Width)

	r.env.Width = 100
	r.changed = false
	fx.m.BeginFrame()
	second := fx.m.RenderedItem("hud")
	assert.NotEqual(t, first.Texture, second.Texture, "a new size needs a new texture")
	assert.Equal(t, 1, fx.tasks.Len(), "a resized renderer renders even when unchanged")
	d, _ = fx.b.TextureDetails(second.Texture)
	assert.Equal(t, 100, d.Width)
	fx.m.EndFrame()
	assert.Equal(t, 2, r.renders)
	assert.Equal(t, 1, fx.rm.Stats().LiveTextures)
}

func TestRenderedItemScaleAndDecline(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 50, Height: 20}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	fx.m.SetPresentationScaleFactor(2)
	res := fx.m.RenderedItem("hud")
	d, _ := fx.b.TextureDetails(res.Texture)
	assert.Equal(t, 100, d.Width)
	assert.Equal(t, 40, d.Height)

	declining := &fakeRenderer{changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("empty", declining))
	assert.Equal(t, Result{}, fx.m.RenderedItem("empty"))
	assert.Equal(t, 1, fx.tasks.Len())
}

func TestRenderGuardsReentry(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 16, Height: 16}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("mirror", r))

	var inner Result
	r.onRender = func() {
		fx.m.BeginFrame()
		inner = fx.m.RenderedItem("mirror")
	}
	outer := fx.m.RenderedItem("mirror")
	fx.m.EndFrame()

	assert.Equal(t, 1, r.renders)
	assert.Equal(t, outer.Texture, inner.Texture, "a renderer sees its previous result while rendering")
	assert.Zero(t, fx.tasks.Len())
	assert.False(t, fx.m.entries["mirror"].rendering, "the guard is reset after rendering")
}

func TestRenderSetsUpTarget(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 64, Height: 32, DepthStencil: backend.FormatDepth24Stencil8}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))
	fx.b.SetRenderState(backend.StateBlend, true)
	fx.b.SetViewport(backend.Rect{Width: 800, Height: 600})

	fx.m.RenderedItem("hud")
	fx.nf.Reset()
	fx.m.EndFrame()

	assert.Equal(t, 1, fx.nf.Calls("GenRenderbuffers"))
	assert.Equal(t, 1, fx.nf.Calls("Clear"))
	assert.Zero(t, fx.nf.Calls("BlitFramebuffer"))
	assert.True(t, fx.b.RenderState(backend.StateBlend), "state is restored after rendering")
	assert.Equal(t, backend.Rect{Width: 800, Height: 600}, fx.b.Viewport())
	assert.Zero(t, fx.rm.Stats().LiveFrameBuffers)
}

func TestSupersampledRenderResolvesLinear(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 100, Height: 52, AA: AASSAA}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	fx.m.RenderedItem("hud")
	fx.m.EndFrame()

	assert.Equal(t, 200, r.last.Width)
	assert.Equal(t, 104, r.last.Height)
	args := fx.nf.LastArgs("BlitFramebuffer")
	require.Len(t, args, 10)
	assert.Equal(t, []any{int32(0), int32(0), int32(200), int32(104), int32(0), int32(0), int32(100), int32(52)}, args[:8])
	assert.Equal(t, uint32(glLinear), args[9])
}

func TestMultisampledRenderResolvesNearest(t *testing.T) {
	fx := newFixture(t, Config{})
	r := &fakeRenderer{env: Environment{Width: 64, Height: 64, AA: AAX4, DepthStencil: backend.FormatDepth24}, changed: true}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	fx.m.RenderedItem("hud")
	fx.nf.Reset()
	fx.m.EndFrame()

	assert.Equal(t, 64, r.last.Width)
	assert.Equal(t, 2, fx.nf.Calls("TexImage2DMultisample"), "color and depth are multisampled")
	assert.Zero(t, fx.nf.Calls("GenRenderbuffers"))
	args := fx.nf.LastArgs("BlitFramebuffer")
	require.Len(t, args, 10)
	assert.Equal(t, uint32(glNearest), args[9])
}

func TestRenderDetachesBeforeReleasing(t *testing.T) {
	f := backend.SurfaceFormat{API: backend.OpenGLES, Major: 3, Minor: 1}
	nf := backend.NewNullFunctions(f)
	b := backend.New(nf, f)
	// Every released texture is evicted at once.
	rm := resource.NewManager(b, resource.Config{MaxMemoryMB: 1, EvictionThreshold: 1e-9})
	t.Cleanup(rm.Release)
	m := NewManager(rm, &render.TaskList{}, Config{})
	r := &fakeRenderer{env: Environment{Width: 32, Height: 32, AA: AASSAA}, changed: true}
	require.True(t, m.RegisterOffscreenRenderer("hud", r))

	m.RenderedItem("hud")
	nf.Reset()
	m.EndFrame()

	log := nf.CallLog()
	first := -1
	for i, name := range log {
		if name == "DeleteTextures" {
			first = i
			break
		}
	}
	require.NotEqual(t, -1, first, "the supersampled texture is evicted")
	assert.NotContains(t, log[first:], "FramebufferTexture2D", "a texture was deleted while attached")
}

type queueingRenderer struct {
	fakeRenderer
	order *[]string
}

func (r *queueingRenderer) Render(env Environment, b *backend.Backend, scale float32, tasks *render.TaskList) {
	tasks.Add(func() { *r.order = append(*r.order, "queued") })
	*r.order = append(*r.order, "render")
}

func TestTasksQueuedDuringRenderRunAfterIt(t *testing.T) {
	fx := newFixture(t, Config{})
	var order []string
	r := &queueingRenderer{fakeRenderer: fakeRenderer{env: Environment{Width: 16, Height: 16}, changed: true}, order: &order}
	require.True(t, fx.m.RegisterOffscreenRenderer("hud", r))

	fx.m.RenderedItem("hud")
	fx.m.EndFrame()

	assert.Equal(t, []string{"render", "queued"}, order)
	assert.Zero(t, fx.tasks.Len())
}

func TestAAModeSamples(t *testing.T) {
	assert.Equal(t, 1, AANone.Samples())
	assert.Equal(t, 1, AASSAA.Samples())
	assert.Equal(t, 2, AAX2.Samples())
	assert.Equal(t, 4, AAX4.Samples())
	assert.Equal(t, "MSAA4x", AAX4.String())
}
