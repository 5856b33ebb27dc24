package backend

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

const attachmentCount = int(AttachDepthStencil) + 1

type attachmentObj struct {
	tex    TextureHandle
	rb     RenderbufferHandle
	target TextureTarget
}

type renderTargetObj struct {
	id          uint32
	attachments [attachmentCount]attachmentObj
}

type renderbufferObj struct {
	id            uint32
	format        TextureFormat
	width, height int
}

// CreateRenderTarget creates a framebuffer object.
func (b *Backend) CreateRenderTarget() RenderTargetHandle {
	id := b.gl.GenFramebuffers(1)
	if id == 0 {
		slogger().Error("GenFramebuffers failed")
		return RenderTargetHandle{}
	}
	return RenderTargetHandle{b.targets.insert(renderTargetObj{id: id})}
}

// ReleaseRenderTarget deletes a framebuffer object. Releasing the current
// render target makes the default framebuffer current.
func (b *Backend) ReleaseRenderTarget(h RenderTargetHandle) {
	rt, ok := b.targets.remove(h.handle)
	if !ok {
		b.stale("ReleaseRenderTarget", h.handle)
		return
	}
	if b.state.drawFBO == rt.id {
		b.state.drawFBO = ^uint32(0)
		b.state.curTarget = RenderTargetHandle{}
	}
	if b.state.readFBO == rt.id {
		b.state.readFBO = ^uint32(0)
		b.state.curRead = RenderTargetHandle{}
	}
	b.gl.DeleteFramebuffers(rt.id)
}

// withFBO binds id for attachment changes and restores the previous
// bindings afterwards.
func (b *Backend) withFBO(id uint32, fn func()) {
	prevDraw, prevRead := b.state.drawFBO, b.state.readFBO
	b.bindFBO(id)
	fn()
	if prevDraw != ^uint32(0) {
		b.bindDrawFBO(prevDraw)
	}
	if prevRead != ^uint32(0) {
		b.bindReadFBO(prevRead)
	}
}

// RenderTargetAttachTexture attaches a texture to a render target. The
// native attach happens at most once: attaching the attachment that is
// already present makes no native call. A null texture detaches.
func (b *Backend) RenderTargetAttachTexture(h RenderTargetHandle, att Attachment, tex TextureHandle, target TextureTarget) {
	rt, ok := b.targets.get(h.handle)
	if !ok {
		b.stale("RenderTargetAttachTexture", h.handle)
		return
	}
	if int(att) >= attachmentCount {
		b.assert(false, "invalid attachment", "op", "RenderTargetAttachTexture", "attachment", int(att))
		return
	}
	cur := &rt.attachments[att]
	if cur.tex == tex && cur.rb.IsNull() && (tex.IsNull() || cur.target == target) {
		return
	}
	var texID uint32
	if !tex.IsNull() {
		t, ok := b.textures.get(tex.handle)
		if !ok {
			b.stale("RenderTargetAttachTexture", tex.handle)
			return
		}
		texID = t.id
		if target == 0 {
			target = t.target
		}
	} else if target == 0 {
		target = cur.target
		if target == 0 {
			target = Texture2D
		}
	}
	b.withFBO(rt.id, func() {
		if !cur.rb.IsNull() {
			b.gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, glAttachment(att), gl.RENDERBUFFER, 0)
		}
		b.gl.FramebufferTexture2D(gl.FRAMEBUFFER, glAttachment(att), glTextureTarget(target), texID, 0)
	})
	*cur = attachmentObj{tex: tex, target: target}
}

// RenderTargetAttachRenderbuffer attaches a renderbuffer to a render
// target, at most once per attachment value.
func (b *Backend) RenderTargetAttachRenderbuffer(h RenderTargetHandle, att Attachment, rb RenderbufferHandle) {
	rt, ok := b.targets.get(h.handle)
	if !ok {
		b.stale("RenderTargetAttachRenderbuffer", h.handle)
		return
	}
	if int(att) >= attachmentCount {
		b.assert(false, "invalid attachment", "op", "RenderTargetAttachRenderbuffer", "attachment", int(att))
		return
	}
	cur := &rt.attachments[att]
	if cur.rb == rb && cur.tex.IsNull() {
		return
	}
	var rbID uint32
	if !rb.IsNull() {
		r, ok := b.renderbuffers.get(rb.handle)
		if !ok {
			b.stale("RenderTargetAttachRenderbuffer", rb.handle)
			return
		}
		rbID = r.id
	}
	b.withFBO(rt.id, func() {
		if !cur.tex.IsNull() {
			b.gl.FramebufferTexture2D(gl.FRAMEBUFFER, glAttachment(att), glTextureTarget(cur.target), 0, 0)
		}
		b.gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, glAttachment(att), gl.RENDERBUFFER, rbID)
	})
	*cur = attachmentObj{rb: rb}
}

// RenderTargetDetach removes whatever is attached at att. Detaching an
// empty attachment makes no native call.
func (b *Backend) RenderTargetDetach(h RenderTargetHandle, att Attachment) {
	rt, ok := b.targets.get(h.handle)
	if !ok {
		b.stale("RenderTargetDetach", h.handle)
		return
	}
	if int(att) >= attachmentCount {
		return
	}
	cur := rt.attachments[att]
	switch {
	case !cur.tex.IsNull():
		b.RenderTargetAttachTexture(h, att, TextureHandle{}, cur.target)
	case !cur.rb.IsNull():
		b.RenderTargetAttachRenderbuffer(h, att, RenderbufferHandle{})
	}
}

// RenderTargetAttachment returns what is attached at att.
func (b *Backend) RenderTargetAttachment(h RenderTargetHandle, att Attachment) (TextureHandle, RenderbufferHandle) {
	rt, ok := b.targets.get(h.handle)
	if !ok || int(att) >= attachmentCount {
		return TextureHandle{}, RenderbufferHandle{}
	}
	a := rt.attachments[att]
	return a.tex, a.rb
}

// RenderTargetIsValid reports whether a render target is complete.
func (b *Backend) RenderTargetIsValid(h RenderTargetHandle) bool {
	rt, ok := b.targets.get(h.handle)
	if !ok {
		b.stale("RenderTargetIsValid", h.handle)
		return false
	}
	var status uint32
	b.withFBO(rt.id, func() {
		status = b.gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	})
	if status != gl.FRAMEBUFFER_COMPLETE {
		slogger().Error("render target incomplete", "status", framebufferStatusString(status))
		return false
	}
	return true
}

// SetRenderTarget makes h the draw target. The null handle selects the
// default framebuffer.
func (b *Backend) SetRenderTarget(h RenderTargetHandle) {
	id := uint32(0)
	if !h.IsNull() {
		rt, ok := b.targets.get(h.handle)
		if !ok {
			b.stale("SetRenderTarget", h.handle)
			return
		}
		id = rt.id
	}
	b.bindDrawFBO(id)
	b.state.curTarget = h
	if b.ctxType.IsLegacy() {
		b.state.curRead = h
	}
}

// RenderTarget returns the current draw target.
func (b *Backend) RenderTarget() RenderTargetHandle { return b.state.curTarget }

// SetReadTarget makes h the read target for blits and ReadPixels.
func (b *Backend) SetReadTarget(h RenderTargetHandle) {
	id := uint32(0)
	if !h.IsNull() {
		rt, ok := b.targets.get(h.handle)
		if !ok {
			b.stale("SetReadTarget", h.handle)
			return
		}
		id = rt.id
	}
	b.bindReadFBO(id)
	b.state.curRead = h
	if b.ctxType.IsLegacy() {
		b.state.curTarget = h
	}
}

// ReadTarget returns the current read target.
func (b *Backend) ReadTarget() RenderTargetHandle { return b.state.curRead }

// BlitFramebuffer copies a rectangle from the read target to the draw
// target, resolving multisample sources.
func (b *Backend) BlitFramebuffer(src, dst Rect, flags ClearFlags, filter gputypes.FilterMode) {
	if !b.require(CapFastBlits, "BlitFramebuffer") {
		return
	}
	f := uint32(gl.NEAREST)
	if filter == gputypes.FilterModeLinear {
		f = gl.LINEAR
	}
	b.gl.BlitFramebuffer(src.X, src.Y, src.X+src.Width, src.Y+src.Height,
		dst.X, dst.Y, dst.X+dst.Width, dst.Y+dst.Height, glClearMask(flags), f)
}

// CreateRenderbuffer creates a renderbuffer with storage of the given
// format. A native allocation error releases it and returns null.
func (b *Backend) CreateRenderbuffer(format TextureFormat, width, height int) RenderbufferHandle {
	internal, ok := renderbufferFormat(format)
	if !ok {
		b.assert(false, "invalid renderbuffer format", "op", "CreateRenderbuffer", "format", format.String())
		return RenderbufferHandle{}
	}
	id := b.gl.GenRenderbuffers(1)
	if id == 0 {
		slogger().Error("GenRenderbuffers failed")
		return RenderbufferHandle{}
	}
	b.clearErrors()
	b.gl.BindRenderbuffer(gl.RENDERBUFFER, id)
	b.gl.RenderbufferStorage(gl.RENDERBUFFER, internal, int32(width), int32(height))
	if !b.checkError("CreateRenderbuffer") {
		b.gl.DeleteRenderbuffers(id)
		return RenderbufferHandle{}
	}
	h := b.renderbuffers.insert(renderbufferObj{id: id, format: format, width: width, height: height})
	logCreated("renderbuffer", h, "format", format.String(), "width", width, "height", height)
	return RenderbufferHandle{h}
}

// ReleaseRenderbuffer deletes a renderbuffer.
func (b *Backend) ReleaseRenderbuffer(h RenderbufferHandle) {
	rb, ok := b.renderbuffers.remove(h.handle)
	if !ok {
		b.stale("ReleaseRenderbuffer", h.handle)
		return
	}
	b.gl.DeleteRenderbuffers(rb.id)
}

// RenderbufferDetails returns the format and size of a renderbuffer.
func (b *Backend) RenderbufferDetails(h RenderbufferHandle) (TextureFormat, int, int, bool) {
	rb, ok := b.renderbuffers.get(h.handle)
	if !ok {
		return FormatUnknown, 0, 0, false
	}
	return rb.format, rb.width, rb.height, true
}
