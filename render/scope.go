package render

import (
	"github.com/gogpu/glrender/backend"
)

// scopedStates are the toggles saved by a StateScope.
var scopedStates = [...]backend.RenderState{
	backend.StateBlend,
	backend.StateScissorTest,
	backend.StateDepthTest,
	backend.StateDepthWrite,
	backend.StateStencilTest,
	backend.StateCullFace,
}

// StateScope is a snapshot of the backend state a nested render is
// allowed to change. Restore puts it back through the backend setters, so
// values that were not changed cost no native call.
type StateScope struct {
	b         *backend.Backend
	target    backend.RenderTargetHandle
	viewport  backend.Rect
	scissor   backend.Rect
	blendFunc backend.BlendFunc
	blendEq   backend.BlendEquation
	states    [len(scopedStates)]bool
}

// SaveState captures the current render target, viewport, scissor
// rectangle, blend function and equation and the scoped toggles.
func SaveState(b *backend.Backend) *StateScope {
	s := &StateScope{
		b:         b,
		target:    b.RenderTarget(),
		viewport:  b.Viewport(),
		scissor:   b.ScissorRect(),
		blendFunc: b.BlendFunc(),
		blendEq:   b.BlendEquation(),
	}
	for i, st := range scopedStates {
		s.states[i] = b.RenderState(st)
	}
	return s
}

// Restore reapplies the captured state.
func (s *StateScope) Restore() {
	b := s.b
	b.SetRenderTarget(s.target)
	// A negative size means the value was never set.
	if s.viewport.Width >= 0 {
		b.SetViewport(s.viewport)
	}
	if s.scissor.Width >= 0 {
		b.SetScissorRect(s.scissor)
	}
	b.SetBlendFunc(s.blendFunc)
	b.SetBlendEquation(s.blendEq)
	for i, st := range scopedStates {
		b.SetRenderState(st, s.states[i])
	}
}

// RestoreBlending reapplies only the captured blend and scissor state.
func (s *StateScope) RestoreBlending() {
	b := s.b
	b.SetBlendFunc(s.blendFunc)
	b.SetBlendEquation(s.blendEq)
	if s.scissor.Width >= 0 {
		b.SetScissorRect(s.scissor)
	}
	for i, st := range scopedStates {
		if st == backend.StateBlend || st == backend.StateScissorTest {
			b.SetRenderState(st, s.states[i])
		}
	}
}

// Target returns the captured render target.
func (s *StateScope) Target() backend.RenderTargetHandle { return s.target }

// Viewport returns the captured viewport.
func (s *StateScope) Viewport() backend.Rect { return s.viewport }

// TargetScope binds a render target for a nested render and owns the
// attachments made through it. Each attachment point is attached at most
// once; Close detaches everything the scope attached exactly once and
// rebinds the previous target, so no texture stays bound to a pooled
// framebuffer after the frame.
type TargetScope struct {
	b        *backend.Backend
	rt       backend.RenderTargetHandle
	prev     backend.RenderTargetHandle
	attached []backend.Attachment
	onClose  []func()
	closed   bool
}

// BindTarget makes rt current and returns a scope for its attachments.
func BindTarget(b *backend.Backend, rt backend.RenderTargetHandle) *TargetScope {
	s := &TargetScope{b: b, rt: rt, prev: b.RenderTarget()}
	b.SetRenderTarget(rt)
	return s
}

func (s *TargetScope) claim(att backend.Attachment) bool {
	if s.closed {
		slogger().Error("attach on closed target scope", "attachment", int(att))
		return false
	}
	for _, a := range s.attached {
		if a == att {
			return false
		}
	}
	s.attached = append(s.attached, att)
	return true
}

// AttachTexture attaches tex at att. It reports false when att was
// already attached through this scope.
func (s *TargetScope) AttachTexture(att backend.Attachment, tex backend.TextureHandle) bool {
	if !s.claim(att) {
		return false
	}
	s.b.RenderTargetAttachTexture(s.rt, att, tex, backend.Texture2D)
	return true
}

// AttachMultisample attaches the multisampled texture tex at att.
func (s *TargetScope) AttachMultisample(att backend.Attachment, tex backend.TextureHandle) bool {
	if !s.claim(att) {
		return false
	}
	s.b.RenderTargetAttachTexture(s.rt, att, tex, backend.Texture2DMS)
	return true
}

// AttachRenderbuffer attaches rb at att. It reports false when att was
// already attached through this scope.
func (s *TargetScope) AttachRenderbuffer(att backend.Attachment, rb backend.RenderbufferHandle) bool {
	if !s.claim(att) {
		return false
	}
	s.b.RenderTargetAttachRenderbuffer(s.rt, att, rb)
	return true
}

// Target returns the bound render target.
func (s *TargetScope) Target() backend.RenderTargetHandle { return s.rt }

// OnClose registers fn to run after Close has detached the attachments.
// Functions run in registration order.
func (s *TargetScope) OnClose(fn func()) {
	if s.closed {
		fn()
		return
	}
	s.onClose = append(s.onClose, fn)
}

// Close detaches the scope's attachments and rebinds the previous render
// target. Calling Close again does nothing.
func (s *TargetScope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.attached) - 1; i >= 0; i-- {
		s.b.RenderTargetDetach(s.rt, s.attached[i])
	}
	s.attached = nil
	s.b.SetRenderTarget(s.prev)
	for _, fn := range s.onClose {
		fn()
	}
	s.onClose = nil
}
