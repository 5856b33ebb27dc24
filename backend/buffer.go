package backend

import (
	"runtime"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

type bufferObj struct {
	id     uint32
	kind   BufferKind
	usage  BufferUsage
	target uint32
	store  *bufferStore
}

// bufferStore is the native storage shared by a buffer and its aliases.
type bufferStore struct {
	size int
	refs int
}

// bufferKindCap returns the capability a buffer kind needs, if any.
func bufferKindCap(k BufferKind) (Cap, bool) {
	switch k {
	case BufferConstant:
		return CapConstantBuffer, true
	case BufferStorage:
		return CapStorageBuffer, true
	case BufferAtomicCounter:
		return CapShaderImageLoadStore, true
	case BufferDrawIndirect:
		return CapCompute, true
	}
	return 0, false
}

// CreateBuffer creates a buffer of size bytes. When data is non-empty it
// is uploaded in the same call and the buffer is at least len(data) bytes.
// It returns the null handle when the kind is not supported or does not
// translate to a native target.
func (b *Backend) CreateBuffer(kind BufferKind, usage BufferUsage, size int, data []byte) BufferHandle {
	if c, gated := bufferKindCap(kind); gated && !b.require(c, "CreateBuffer") {
		return BufferHandle{}
	}
	id := b.gl.GenBuffers(1)
	if id == 0 {
		slogger().Error("GenBuffers failed", "kind", kind.String())
		return BufferHandle{}
	}
	target, ok := glBufferTarget(kind)
	if !ok {
		b.gl.DeleteBuffers(id)
		slogger().Error("native error", "op", "CreateBuffer",
			"error", glErrorString(gl.INVALID_ENUM), "kind", kind.String(), "err", ErrNativeAPI)
		return BufferHandle{}
	}
	size = max(size, len(data))
	h := b.buffers.insert(bufferObj{id: id, kind: kind, usage: usage, target: target, store: &bufferStore{size: size, refs: 1}})
	if size > 0 {
		b.bindBufferTarget(kind, target, id)
		b.gl.BufferData(target, size, bytesPtr(data), glBufferUsage(usage))
		runtime.KeepAlive(data)
	}
	logCreated("buffer", h, "kind", kind.String(), "size", size)
	return BufferHandle{h}
}

// bindBufferTarget binds a buffer. Index buffer bindings are vertex array
// state, so the vertex array is unbound first; the next draw rebinds it.
func (b *Backend) bindBufferTarget(kind BufferKind, target, id uint32) {
	if kind == BufferIndex && b.Cap(CapVertexArrayObject) {
		b.bindVAO(0)
	}
	b.gl.BindBuffer(target, id)
}

// UpdateBuffer writes data at offset. A write past the end of the buffer
// reallocates it when offset is 0 and is rejected otherwise.
func (b *Backend) UpdateBuffer(h BufferHandle, offset int, data []byte) bool {
	buf, ok := b.buffers.get(h.handle)
	if !ok {
		b.stale("UpdateBuffer", h.handle)
		return false
	}
	if len(data) == 0 {
		return true
	}
	b.bindBufferTarget(buf.kind, buf.target, buf.id)
	switch {
	case offset+len(data) <= buf.store.size:
		b.gl.BufferSubData(buf.target, offset, len(data), bytesPtr(data))
	case offset == 0:
		b.gl.BufferData(buf.target, len(data), bytesPtr(data), glBufferUsage(buf.usage))
		buf.store.size = len(data)
	default:
		runtime.KeepAlive(data)
		return b.assert(false, "buffer write out of range",
			"op", "UpdateBuffer", "offset", offset, "len", len(data), "size", buf.store.size)
	}
	runtime.KeepAlive(data)
	return true
}

// AliasBuffer returns a second handle over the native buffer behind h,
// typed as kind. Writes through either handle are visible through the
// other. It returns the null handle when h is stale or kind is not
// supported.
func (b *Backend) AliasBuffer(h BufferHandle, kind BufferKind) BufferHandle {
	if c, gated := bufferKindCap(kind); gated && !b.require(c, "AliasBuffer") {
		return BufferHandle{}
	}
	buf, ok := b.buffers.get(h.handle)
	if !ok {
		b.stale("AliasBuffer", h.handle)
		return BufferHandle{}
	}
	target, ok := glBufferTarget(kind)
	if !ok {
		slogger().Error("native error", "op", "AliasBuffer",
			"error", glErrorString(gl.INVALID_ENUM), "kind", kind.String(), "err", ErrNativeAPI)
		return BufferHandle{}
	}
	alias := *buf
	alias.kind = kind
	alias.target = target
	alias.store.refs++
	a := b.buffers.insert(alias)
	logCreated("buffer alias", a, "kind", kind.String(), "of", h.String())
	return BufferHandle{a}
}

// ReleaseBuffer releases a buffer handle. The native buffer is deleted
// with its last handle.
func (b *Backend) ReleaseBuffer(h BufferHandle) {
	buf, ok := b.buffers.remove(h.handle)
	if !ok {
		b.stale("ReleaseBuffer", h.handle)
		return
	}
	buf.store.refs--
	if buf.store.refs > 0 {
		return
	}
	b.gl.DeleteBuffers(buf.id)
}

// SameBuffer reports whether two handles refer to the same native buffer.
func (b *Backend) SameBuffer(x, y BufferHandle) bool {
	bx, ok := b.buffers.get(x.handle)
	if !ok {
		return false
	}
	by, ok := b.buffers.get(y.handle)
	return ok && bx.id == by.id
}

// BufferSize returns the size of a buffer in bytes.
func (b *Backend) BufferSize(h BufferHandle) int {
	buf, ok := b.buffers.get(h.handle)
	if !ok {
		return 0
	}
	return buf.store.size
}

// BufferKindOf returns the kind a buffer was created with.
func (b *Backend) BufferKindOf(h BufferHandle) BufferKind {
	buf, ok := b.buffers.get(h.handle)
	if !ok {
		return 0
	}
	return buf.kind
}
