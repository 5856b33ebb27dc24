package offscreen

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/render"
	"github.com/gogpu/glrender/resource"
)

// DefaultMaxSSAADimension caps each side of a supersampled render.
const DefaultMaxSSAADimension = 4096

// Config configures a Manager.
type Config struct {
	// MaxSSAADimension caps each side of a supersampled render. Zero uses
	// DefaultMaxSSAADimension.
	MaxSSAADimension int
}

func (c Config) withDefaults() Config {
	if c.MaxSSAADimension <= 0 {
		c.MaxSSAADimension = DefaultMaxSSAADimension
	}
	return c
}

type entry struct {
	key       any
	renderer  Renderer
	rendering bool
	released  bool
	// frame is the frame the result was last requested for.
	frame  uint64
	env    Environment
	result Result
}

// Manager renders registered offscreen renderers into pooled textures,
// at most once per frame each. It must be used from the thread owning
// the rendering context.
type Manager struct {
	rm      *resource.Manager
	b       *backend.Backend
	tasks   *render.TaskList
	cfg     Config
	entries map[any]*entry
	frame   uint64
	scale   float32
}

// NewManager creates a manager queuing its renders on tasks.
func NewManager(rm *resource.Manager, tasks *render.TaskList, cfg Config) *Manager {
	return &Manager{
		rm:      rm,
		b:       rm.RenderContext(),
		tasks:   tasks,
		cfg:     cfg.withDefaults(),
		entries: make(map[any]*entry),
		frame:   1,
		scale:   1,
	}
}

// RegisterOffscreenRenderer registers r under key, a string label or any
// other comparable value. It returns false when key is taken.
func (m *Manager) RegisterOffscreenRenderer(key any, r Renderer) bool {
	if r == nil {
		return false
	}
	if _, ok := m.entries[key]; ok {
		slogger().Warn("offscreen renderer already registered", "key", key)
		return false
	}
	m.entries[key] = &entry{key: key, renderer: r}
	return true
}

// ReleaseOffscreenRenderer unregisters key and releases its texture.
func (m *Manager) ReleaseOffscreenRenderer(key any) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	e.released = true
	m.rm.ReleaseTexture(e.result.Texture)
	e.result = Result{}
	delete(m.entries, key)
}

// HasOffscreenRenderer reports whether key is registered.
func (m *Manager) HasOffscreenRenderer(key any) bool {
	_, ok := m.entries[key]
	return ok
}

// OffscreenRenderer returns the renderer registered under key.
func (m *Manager) OffscreenRenderer(key any) (Renderer, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return e.renderer, true
}

// BeginFrame starts a new frame: every renderer may render once more.
func (m *Manager) BeginFrame() { m.frame++ }

// EndFrame runs the queued render tasks.
func (m *Manager) EndFrame() { m.tasks.RunAll() }

// Frame returns the current frame number.
func (m *Manager) Frame() uint64 { return m.frame }

// SetPresentationScaleFactor sets the scale passed to renderers.
func (m *Manager) SetPresentationScaleFactor(s float32) {
	if s <= 0 {
		s = 1
	}
	m.scale = s
}

// PresentationScaleFactor returns the scale passed to renderers.
func (m *Manager) PresentationScaleFactor() float32 { return m.scale }

// SSAARenderSize returns the supersampled size of a w x h render: twice
// each side, capped at Config.MaxSSAADimension.
func (m *Manager) SSAARenderSize(w, h int) (int, int) {
	return min(w*2, m.cfg.MaxSSAADimension), min(h*2, m.cfg.MaxSSAADimension)
}

func roundUp4(v int) int { return (v + 3) &^ 3 }

// RenderedItem returns the texture of the renderer registered under key
// for the current frame. The render itself is queued on the task list;
// the texture holds the content once the tasks have run. An empty result
// means the renderer declined to render.
func (m *Manager) RenderedItem(key any) Result {
	e, ok := m.entries[key]
	if !ok {
		return Result{}
	}
	if e.rendering {
		slogger().Debug("offscreen renderer re-entered", "key", key)
		return e.result
	}
	if e.frame == m.frame && !e.result.Texture.IsNull() {
		return e.result
	}

	env := e.renderer.DesiredEnvironment(m.scale)
	env.Width, env.Height = roundUp4(env.Width), roundUp4(env.Height)
	if env.Width <= 0 || env.Height <= 0 {
		return Result{}
	}
	if env.Format == backend.FormatUnknown {
		env.Format = backend.FormatRGBA8
	}

	id := m.tasks.Add(func() { m.render(e, env) })
	hints := e.renderer.NeedsRender(env, m.scale)
	e.frame = m.frame

	if !hints.HasChangedSinceLastFrame && !e.result.Texture.IsNull() && e.env == env {
		m.tasks.Discard(id)
		e.result.HasChangedSinceLastFrame = false
		return e.result
	}

	if !e.result.Texture.IsNull() && !e.env.sameTexture(env) {
		m.rm.ReleaseTexture(e.result.Texture)
		e.result.Texture = backend.TextureHandle{}
	}
	if e.result.Texture.IsNull() {
		tex := m.rm.AllocateTexture2D(env.Width, env.Height, env.Format, 1, false)
		if tex.IsNull() {
			m.tasks.Discard(id)
			return Result{}
		}
		e.result.Texture = tex
	}
	e.env = env
	e.result.Hints = Hints{HasTransparency: hints.HasTransparency, HasChangedSinceLastFrame: true}
	return e.result
}

func (m *Manager) render(e *entry, env Environment) {
	if e.rendering || e.released || e.result.Texture.IsNull() {
		return
	}
	e.rendering = true
	defer func() { e.rendering = false }()

	b := m.b
	saved := render.SaveState(b)
	defer saved.Restore()

	w, h := env.Width, env.Height
	samples := env.AA.Samples()
	if env.AA == AASSAA {
		w, h = m.SSAARenderSize(w, h)
	}
	fb := m.rm.AllocateFrameBuffer()
	if fb.IsNull() {
		return
	}
	defer m.rm.ReleaseFrameBuffer(fb)
	scope := render.BindTarget(b, fb)
	defer scope.Close()

	color := e.result.Texture
	resolve := env.AA != AANone
	if resolve {
		color = m.rm.AllocateTexture2D(w, h, env.Format, samples, false)
		if color.IsNull() {
			slogger().Warn("offscreen render texture allocation failed",
				"key", e.key, "aa", env.AA.String(), "width", w, "height", h)
			return
		}
		scope.OnClose(func() { m.rm.ReleaseTexture(color) })
	}
	attach(scope, backend.AttachColor0, color, samples)

	flags := backend.ClearColor
	if env.DepthStencil != backend.FormatUnknown {
		att := backend.AttachDepth
		if env.DepthStencil.HasStencil() {
			att = backend.AttachDepthStencil
			flags |= backend.ClearStencil
		}
		flags |= backend.ClearDepth
		if samples > 1 {
			dt := m.rm.AllocateTexture2D(w, h, env.DepthStencil, samples, false)
			if dt.IsNull() {
				return
			}
			scope.OnClose(func() { m.rm.ReleaseTexture(dt) })
			scope.AttachMultisample(att, dt)
		} else {
			rb := m.rm.AllocateRenderBuffer(env.DepthStencil, w, h)
			if rb.IsNull() {
				return
			}
			scope.OnClose(func() { m.rm.ReleaseRenderBuffer(rb) })
			scope.AttachRenderbuffer(att, rb)
		}
	}

	b.SetViewport(backend.Rect{Width: int32(w), Height: int32(h)})
	b.SetRenderState(backend.StateScissorTest, false)
	b.SetRenderState(backend.StateBlend, false)
	b.SetClearColor(env.ClearColor)
	if flags&backend.ClearDepth != 0 {
		b.SetClearDepth(1)
	}
	b.Clear(flags)

	renv := env
	renv.Width, renv.Height = w, h
	e.renderer.Render(renv, b, m.scale, m.tasks)

	if resolve {
		filter := gputypes.FilterModeNearest
		if env.AA == AASSAA {
			filter = gputypes.FilterModeLinear
		}
		m.resolve(fb, e.result.Texture, backend.Rect{Width: int32(w), Height: int32(h)},
			backend.Rect{Width: int32(env.Width), Height: int32(env.Height)}, filter)
	}
	slogger().Debug("offscreen item rendered", "key", e.key, "width", w, "height", h, "aa", env.AA.String())
}

func attach(scope *render.TargetScope, att backend.Attachment, tex backend.TextureHandle, samples int) {
	if samples > 1 {
		scope.AttachMultisample(att, tex)
		return
	}
	scope.AttachTexture(att, tex)
}

// resolve blits the color of src into dst.
func (m *Manager) resolve(src backend.RenderTargetHandle, dst backend.TextureHandle, from, to backend.Rect, filter gputypes.FilterMode) {
	b := m.b
	rt := m.rm.AllocateFrameBuffer()
	if rt.IsNull() {
		return
	}
	defer m.rm.ReleaseFrameBuffer(rt)
	prevRead := b.ReadTarget()
	scope := render.BindTarget(b, rt)
	scope.AttachTexture(backend.AttachColor0, dst)
	b.SetReadTarget(src)
	b.BlitFramebuffer(from, to, backend.ClearColor, filter)
	b.SetReadTarget(prevRead)
	scope.Close()
}
