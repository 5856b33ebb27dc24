package backend

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

// glState mirrors the native state the backend has set, so setters can
// skip native calls for values that are already current.
type glState struct {
	ds          DepthStencilDesc
	raster      RasterizerDesc
	enabled     [renderStateCount]bool
	cullFace    uint32
	polyOffset  bool
	blendFunc   BlendFunc
	blendEq     BlendEquation
	blendColor  gputypes.Color
	colorMask   [4]bool
	viewport    Rect
	scissor     Rect
	clearColor  gputypes.Color
	clearDepth  float32
	clearStenc  int32
	activeUnit  uint32
	program     uint32
	pipeline    uint32
	drawFBO     uint32
	readFBO     uint32
	vao         uint32
	attribs     uint32
	curDS       DepthStencilHandle
	curRS       RasterizerHandle
	curTarget   RenderTargetHandle
	curRead     RenderTargetHandle
	curAssembly InputAssemblerHandle
	curIAProg   ProgramHandle
}

// reset sets the mirror to the native defaults of a fresh context.
func (s *glState) reset() {
	*s = glState{
		ds:         DefaultDepthStencil(),
		raster:     RasterizerDesc{CullMode: gputypes.CullModeNone},
		cullFace:   gl.BACK,
		blendFunc:  BlendFunc{gputypes.BlendFactorOne, gputypes.BlendFactorZero, gputypes.BlendFactorOne, gputypes.BlendFactorZero},
		blendEq:    BlendEquation{RGB: gputypes.BlendOperationAdd, Alpha: gputypes.BlendOperationAdd},
		colorMask:  [4]bool{true, true, true, true},
		viewport:   Rect{Width: -1, Height: -1},
		scissor:    Rect{Width: -1, Height: -1},
		clearDepth: 1,
	}
	s.enabled[StateDepthWrite] = true
	s.enabled[StateMultisample] = true
}

// ResetState resynchronises the mirror after foreign code has used the
// context. Toggles and state objects are assumed back at their native
// defaults; bindings are marked unknown so the next bind is always sent.
func (b *Backend) ResetState() {
	b.state.reset()
	// Unknown values never compare equal to a requested one.
	b.state.ds.DepthFunc = gputypes.CompareFunctionUndefined
	b.state.program = ^uint32(0)
	b.state.drawFBO = ^uint32(0)
	b.state.readFBO = ^uint32(0)
	b.state.vao = ^uint32(0)
	b.state.attribs = ^uint32(0)
	b.state.activeUnit = ^uint32(0)
}

func (b *Backend) toggle(capability uint32, on bool) {
	if on {
		b.gl.Enable(capability)
	} else {
		b.gl.Disable(capability)
	}
}

// CreateDepthStencilState stores an immutable depth-stencil state object.
func (b *Backend) CreateDepthStencilState(desc DepthStencilDesc) DepthStencilHandle {
	return DepthStencilHandle{b.depthStencils.insert(desc)}
}

// ReleaseDepthStencilState releases a depth-stencil state object.
func (b *Backend) ReleaseDepthStencilState(h DepthStencilHandle) {
	if _, ok := b.depthStencils.remove(h.handle); !ok {
		b.stale("ReleaseDepthStencilState", h.handle)
	}
	if b.state.curDS == h {
		b.state.curDS = DepthStencilHandle{}
	}
}

// DepthStencilState returns the description of a state object.
func (b *Backend) DepthStencilState(h DepthStencilHandle) (DepthStencilDesc, bool) {
	d, ok := b.depthStencils.get(h.handle)
	if !ok {
		return DepthStencilDesc{}, false
	}
	return *d, true
}

// SetDepthStencilState applies a depth-stencil state object. Only fields
// that differ from the current native state are sent.
func (b *Backend) SetDepthStencilState(h DepthStencilHandle) {
	d, ok := b.depthStencils.get(h.handle)
	if !ok {
		b.stale("SetDepthStencilState", h.handle)
		return
	}
	cur := &b.state.ds
	if d.DepthEnable != cur.DepthEnable {
		b.toggle(gl.DEPTH_TEST, d.DepthEnable)
		cur.DepthEnable = d.DepthEnable
	}
	if d.DepthWrite != cur.DepthWrite {
		b.gl.DepthMask(d.DepthWrite)
		cur.DepthWrite = d.DepthWrite
	}
	if d.DepthFunc != cur.DepthFunc {
		b.gl.DepthFunc(glCompareFunc(d.DepthFunc))
		cur.DepthFunc = d.DepthFunc
	}
	if d.StencilEnable != cur.StencilEnable {
		b.toggle(gl.STENCIL_TEST, d.StencilEnable)
		cur.StencilEnable = d.StencilEnable
	}
	if d.FrontFunc != cur.FrontFunc {
		f := d.FrontFunc
		b.gl.StencilFuncSeparate(gl.FRONT, glCompareFunc(f.Compare), f.Ref, f.Mask)
		cur.FrontFunc = f
	}
	if d.BackFunc != cur.BackFunc {
		f := d.BackFunc
		b.gl.StencilFuncSeparate(gl.BACK, glCompareFunc(f.Compare), f.Ref, f.Mask)
		cur.BackFunc = f
	}
	if d.FrontOp != cur.FrontOp {
		op := d.FrontOp
		b.gl.StencilOpSeparate(gl.FRONT, glStencilOp(op.Fail), glStencilOp(op.DepthFail), glStencilOp(op.Pass))
		cur.FrontOp = op
	}
	if d.BackOp != cur.BackOp {
		op := d.BackOp
		b.gl.StencilOpSeparate(gl.BACK, glStencilOp(op.Fail), glStencilOp(op.DepthFail), glStencilOp(op.Pass))
		cur.BackOp = op
	}
	b.state.curDS = h
}

// CreateRasterizerState stores an immutable rasterizer state object.
func (b *Backend) CreateRasterizerState(desc RasterizerDesc) RasterizerHandle {
	return RasterizerHandle{b.rasterizers.insert(desc)}
}

// ReleaseRasterizerState releases a rasterizer state object.
func (b *Backend) ReleaseRasterizerState(h RasterizerHandle) {
	if _, ok := b.rasterizers.remove(h.handle); !ok {
		b.stale("ReleaseRasterizerState", h.handle)
	}
	if b.state.curRS == h {
		b.state.curRS = RasterizerHandle{}
	}
}

// SetRasterizerState applies a rasterizer state object. Only fields that
// differ from the current native state are sent.
func (b *Backend) SetRasterizerState(h RasterizerHandle) {
	r, ok := b.rasterizers.get(h.handle)
	if !ok {
		b.stale("SetRasterizerState", h.handle)
		return
	}
	cur := &b.state.raster
	if r.DepthBias != cur.DepthBias || r.DepthScale != cur.DepthScale {
		on := r.DepthBias != 0 || r.DepthScale != 0
		if on != b.state.polyOffset {
			b.toggle(glPolygonOffsetFill, on)
			b.state.polyOffset = on
		}
		if on {
			if b.ext != nil {
				b.ext.PolygonOffset(r.DepthScale, r.DepthBias)
			} else {
				b.unsupported("SetRasterizerState.PolygonOffset")
			}
		}
		cur.DepthBias, cur.DepthScale = r.DepthBias, r.DepthScale
	}
	if r.CullMode != cur.CullMode {
		if r.CullMode == gputypes.CullModeNone {
			b.SetRenderState(StateCullFace, false)
		} else {
			b.SetRenderState(StateCullFace, true)
			if face := glCullFace(r.CullMode); face != b.state.cullFace {
				b.gl.CullFace(face)
				b.state.cullFace = face
			}
		}
		cur.CullMode = r.CullMode
	}
	b.state.curRS = h
}

// SetRenderState toggles a fixed-function state.
func (b *Backend) SetRenderState(s RenderState, on bool) {
	ds := &b.state.ds
	switch s {
	case StateDepthTest:
		if ds.DepthEnable != on {
			b.toggle(gl.DEPTH_TEST, on)
			ds.DepthEnable = on
		}
	case StateStencilTest:
		if ds.StencilEnable != on {
			b.toggle(gl.STENCIL_TEST, on)
			ds.StencilEnable = on
		}
	case StateDepthWrite:
		if ds.DepthWrite != on {
			b.gl.DepthMask(on)
			ds.DepthWrite = on
		}
	default:
		if s >= renderStateCount || b.state.enabled[s] == on {
			return
		}
		if s == StateMultisample && b.format.API == OpenGLES {
			// ES has no multisample toggle.
			b.state.enabled[s] = on
			return
		}
		b.toggle(glRenderState(s), on)
		b.state.enabled[s] = on
	}
}

// RenderState reports the cached value of a fixed-function state.
func (b *Backend) RenderState(s RenderState) bool {
	switch s {
	case StateDepthTest:
		return b.state.ds.DepthEnable
	case StateStencilTest:
		return b.state.ds.StencilEnable
	case StateDepthWrite:
		return b.state.ds.DepthWrite
	}
	if s >= renderStateCount {
		return false
	}
	return b.state.enabled[s]
}

// SetDepthFunc sets the depth comparison.
func (b *Backend) SetDepthFunc(f gputypes.CompareFunction) {
	if b.state.ds.DepthFunc == f {
		return
	}
	b.gl.DepthFunc(glCompareFunc(f))
	b.state.ds.DepthFunc = f
}

// DepthFunc returns the cached depth comparison.
func (b *Backend) DepthFunc() gputypes.CompareFunction { return b.state.ds.DepthFunc }

// SetBlendFunc sets the separate colour and alpha blend factors.
func (b *Backend) SetBlendFunc(f BlendFunc) {
	if b.state.blendFunc == f {
		return
	}
	b.gl.BlendFuncSeparate(glBlendFactor(f.SrcRGB), glBlendFactor(f.DstRGB),
		glBlendFactor(f.SrcAlpha), glBlendFactor(f.DstAlpha))
	b.state.blendFunc = f
}

// BlendFunc returns the cached blend factors.
func (b *Backend) BlendFunc() BlendFunc { return b.state.blendFunc }

// SetBlendEquation sets the blend equation. Advanced equations need the
// advanced blend capability.
func (b *Backend) SetBlendEquation(eq BlendEquation) {
	if b.state.blendEq == eq {
		return
	}
	if eq.Advanced != BlendNone {
		if !b.Cap(CapAdvancedBlend) && !b.Cap(CapAdvancedBlendNV) {
			b.unsupported("SetBlendEquation")
			return
		}
		b.gl.BlendEquation(glAdvancedBlend(eq.Advanced))
	} else {
		b.gl.BlendEquationSeparate(glBlendOp(eq.RGB), glBlendOp(eq.Alpha))
	}
	b.state.blendEq = eq
}

// BlendEquation returns the cached blend equation.
func (b *Backend) BlendEquation() BlendEquation { return b.state.blendEq }

// SetBlendColor sets the constant blend colour.
func (b *Backend) SetBlendColor(c gputypes.Color) {
	if b.state.blendColor == c {
		return
	}
	b.gl.BlendColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	b.state.blendColor = c
}

// SetBlendBarrier orders advanced blending of overlapping primitives on
// contexts without coherent advanced blending.
func (b *Backend) SetBlendBarrier() {
	if !b.Cap(CapAdvancedBlend) && !b.Cap(CapAdvancedBlendNV) {
		b.unsupported("SetBlendBarrier")
		return
	}
	if b.Cap(CapBlendCoherency) {
		return
	}
	b.ext.BlendBarrier()
}

// SetColorWrites sets the colour write mask.
func (b *Backend) SetColorWrites(r, g, bl, a bool) {
	m := [4]bool{r, g, bl, a}
	if b.state.colorMask == m {
		return
	}
	b.gl.ColorMask(r, g, bl, a)
	b.state.colorMask = m
}

// SetViewport sets the viewport.
func (b *Backend) SetViewport(r Rect) {
	if b.state.viewport == r {
		return
	}
	b.gl.Viewport(r.X, r.Y, r.Width, r.Height)
	b.state.viewport = r
}

// Viewport returns the cached viewport.
func (b *Backend) Viewport() Rect { return b.state.viewport }

// SetScissorRect sets the scissor rectangle.
func (b *Backend) SetScissorRect(r Rect) {
	if b.state.scissor == r {
		return
	}
	b.gl.Scissor(r.X, r.Y, r.Width, r.Height)
	b.state.scissor = r
}

// ScissorRect returns the cached scissor rectangle.
func (b *Backend) ScissorRect() Rect { return b.state.scissor }

// SetClearColor sets the colour used by Clear.
func (b *Backend) SetClearColor(c gputypes.Color) {
	if b.state.clearColor == c {
		return
	}
	b.gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	b.state.clearColor = c
}

// SetClearDepth sets the depth used by Clear.
func (b *Backend) SetClearDepth(d float32) {
	if b.state.clearDepth == d {
		return
	}
	if b.ext == nil {
		b.unsupported("SetClearDepth")
		return
	}
	b.ext.ClearDepthf(d)
	b.state.clearDepth = d
}

// SetClearStencil sets the stencil value used by Clear.
func (b *Backend) SetClearStencil(s int32) {
	if b.state.clearStenc == s {
		return
	}
	if b.ext == nil {
		b.unsupported("SetClearStencil")
		return
	}
	b.ext.ClearStencil(s)
	b.state.clearStenc = s
}

// Clear clears the selected buffers of the current render target.
func (b *Backend) Clear(flags ClearFlags) {
	if m := glClearMask(flags); m != 0 {
		b.gl.Clear(m)
	}
}

// setActiveUnit selects a texture unit, skipping redundant calls.
func (b *Backend) setActiveUnit(unit uint32) {
	if b.state.activeUnit == unit {
		return
	}
	b.gl.ActiveTexture(gl.TEXTURE0 + unit)
	b.state.activeUnit = unit
}

// useProgram binds a native program, skipping redundant calls.
func (b *Backend) useProgram(id uint32) {
	if b.state.program == id {
		return
	}
	b.gl.UseProgram(id)
	b.state.program = id
}

func (b *Backend) bindDrawFBO(id uint32) {
	if b.state.drawFBO == id {
		return
	}
	if b.ctxType.IsLegacy() {
		b.gl.BindFramebuffer(gl.FRAMEBUFFER, id)
		b.state.readFBO = id
	} else {
		b.gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, id)
	}
	b.state.drawFBO = id
}

func (b *Backend) bindReadFBO(id uint32) {
	if b.state.readFBO == id {
		return
	}
	if b.ctxType.IsLegacy() {
		b.gl.BindFramebuffer(gl.FRAMEBUFFER, id)
		b.state.drawFBO = id
	} else {
		b.gl.BindFramebuffer(gl.READ_FRAMEBUFFER, id)
	}
	b.state.readFBO = id
}

// bindFBO binds id as both the draw and the read framebuffer.
func (b *Backend) bindFBO(id uint32) {
	if b.state.drawFBO == id && b.state.readFBO == id {
		return
	}
	b.gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	b.state.drawFBO, b.state.readFBO = id, id
}

func (b *Backend) bindVAO(id uint32) {
	if b.state.vao == id {
		return
	}
	b.gl.BindVertexArray(id)
	b.state.vao = id
}
