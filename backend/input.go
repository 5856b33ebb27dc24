package backend

import (
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

type attribLayoutObj struct {
	entries []AttribEntry
}

// InputAssemblerDesc describes the vertex and index buffers of a draw.
// Strides[i] and Offsets[i] apply to Buffers[i]; AttribEntry.Slot indexes
// Buffers.
type InputAssemblerDesc struct {
	Layout        AttribLayoutHandle
	Buffers       []BufferHandle
	Strides       []int
	Offsets       []int
	Index         BufferHandle
	IndexFormat   gputypes.IndexFormat
	PatchVertices int
}

type inputAssemblerObj struct {
	desc    InputAssemblerDesc
	entries []AttribEntry
	vaos    map[ProgramHandle]uint32
}

// CreateAttribLayout creates a vertex attribute layout. Every entry must
// have a native vertex format.
func (b *Backend) CreateAttribLayout(entries []AttribEntry) AttribLayoutHandle {
	for _, e := range entries {
		if _, ok := glVertexFormat(e.Format); !ok {
			b.assert(false, "invalid vertex format", "op", "CreateAttribLayout", "attrib", e.Name)
			return AttribLayoutHandle{}
		}
	}
	h := b.layouts.insert(attribLayoutObj{entries: append([]AttribEntry(nil), entries...)})
	logCreated("attrib layout", h, "attribs", len(entries))
	return AttribLayoutHandle{h}
}

// ReleaseAttribLayout releases an attribute layout. Input assemblers
// created from it keep their own copy.
func (b *Backend) ReleaseAttribLayout(h AttribLayoutHandle) {
	if _, ok := b.layouts.remove(h.handle); !ok {
		b.stale("ReleaseAttribLayout", h.handle)
	}
}

// CreateInputAssembler binds buffers to an attribute layout.
func (b *Backend) CreateInputAssembler(desc InputAssemblerDesc) InputAssemblerHandle {
	l, ok := b.layouts.get(desc.Layout.handle)
	if !ok {
		b.stale("CreateInputAssembler", desc.Layout.handle)
		return InputAssemblerHandle{}
	}
	if !b.assert(len(desc.Strides) == len(desc.Buffers), "stride count mismatch",
		"op", "CreateInputAssembler", "buffers", len(desc.Buffers), "strides", len(desc.Strides)) {
		return InputAssemblerHandle{}
	}
	for _, e := range l.entries {
		if !b.assert(e.Slot >= 0 && e.Slot < len(desc.Buffers), "attribute slot out of range",
			"op", "CreateInputAssembler", "attrib", e.Name, "slot", e.Slot) {
			return InputAssemblerHandle{}
		}
	}
	if desc.PatchVertices > 0 && !b.require(CapTessellation, "CreateInputAssembler") {
		return InputAssemblerHandle{}
	}
	desc.Buffers = append([]BufferHandle(nil), desc.Buffers...)
	desc.Strides = append([]int(nil), desc.Strides...)
	desc.Offsets = append([]int(nil), desc.Offsets...)
	h := b.assemblers.insert(inputAssemblerObj{
		desc:    desc,
		entries: append([]AttribEntry(nil), l.entries...),
		vaos:    make(map[ProgramHandle]uint32),
	})
	return InputAssemblerHandle{h}
}

// ReleaseInputAssembler releases an input assembler and its vertex
// arrays. The buffers are not released.
func (b *Backend) ReleaseInputAssembler(h InputAssemblerHandle) {
	ia, ok := b.assemblers.remove(h.handle)
	if !ok {
		b.stale("ReleaseInputAssembler", h.handle)
		return
	}
	for _, vao := range ia.vaos {
		if b.state.vao == vao {
			b.bindVAO(0)
		}
		b.gl.DeleteVertexArrays(vao)
	}
	if b.state.curAssembly == h {
		b.state.curAssembly = InputAssemblerHandle{}
	}
}

// SetInputAssembler makes ia and program current for the following draws.
// With vertex array objects the attribute setup is recorded once per
// program; without them it is replayed on every call.
func (b *Backend) SetInputAssembler(h InputAssemblerHandle, p ProgramHandle) bool {
	ia, ok := b.assemblers.get(h.handle)
	if !ok {
		b.stale("SetInputAssembler", h.handle)
		return false
	}
	prog, ok := b.programs.get(p.handle)
	if !ok {
		b.stale("SetInputAssembler", p.handle)
		return false
	}
	b.useProgram(prog.id)
	if b.Cap(CapVertexArrayObject) {
		if vao, ok := ia.vaos[p]; ok {
			b.bindVAO(vao)
		} else {
			vao = b.gl.GenVertexArrays(1)
			b.bindVAO(vao)
			b.setupAttribs(ia, prog, 0)
			ia.vaos[p] = vao
		}
	} else {
		b.state.attribs = b.setupAttribs(ia, prog, b.state.attribs)
	}
	b.state.curAssembly = h
	b.state.curIAProg = p
	return true
}

// setupAttribs binds the vertex buffers and attribute pointers of ia for
// prog. enabled is the set of attribute arrays already enabled; arrays
// no longer used are disabled. It returns the new set.
func (b *Backend) setupAttribs(ia *inputAssemblerObj, prog *programObj, enabled uint32) uint32 {
	var used uint32
	for _, e := range ia.entries {
		loc := b.attribLocation(prog, e.Name)
		if loc < 0 || loc >= 32 {
			continue
		}
		buf, ok := b.buffers.get(ia.desc.Buffers[e.Slot].handle)
		if !ok {
			b.stale("SetInputAssembler", ia.desc.Buffers[e.Slot].handle)
			continue
		}
		vf, _ := glVertexFormat(e.Format)
		offset := e.Offset
		if e.Slot < len(ia.desc.Offsets) {
			offset += ia.desc.Offsets[e.Slot]
		}
		b.gl.BindBuffer(gl.ARRAY_BUFFER, buf.id)
		b.gl.VertexAttribPointer(uint32(loc), vf.components, vf.typ, vf.normalized,
			int32(ia.desc.Strides[e.Slot]), uintptr(offset))
		bit := uint32(1) << uint32(loc)
		if enabled == ^uint32(0) || enabled&bit == 0 {
			b.gl.EnableVertexAttribArray(uint32(loc))
		}
		used |= bit
	}
	if enabled != ^uint32(0) {
		for stale := enabled &^ used; stale != 0; stale &= stale - 1 {
			b.gl.DisableVertexAttribArray(uint32(bits.TrailingZeros32(stale)))
		}
	}
	if !ia.desc.Index.IsNull() {
		if ib, ok := b.buffers.get(ia.desc.Index.handle); ok {
			b.gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
		}
	}
	return used
}

// attribLocation resolves an attribute by reflection, falling back to a
// native query for programs linked without reflection.
func (b *Backend) attribLocation(prog *programObj, name string) int32 {
	for _, a := range prog.attribs {
		if a.Name == name {
			return a.Location
		}
	}
	if len(prog.attribs) > 0 {
		return -1
	}
	return b.gl.GetAttribLocation(prog.id, name)
}

// InputAssembler returns the current input assembler.
func (b *Backend) InputAssembler() InputAssemblerHandle { return b.state.curAssembly }

// currentAssembly resolves the current input assembler for a draw.
func (b *Backend) currentAssembly(op string) (*inputAssemblerObj, bool) {
	ia, ok := b.assemblers.get(b.state.curAssembly.handle)
	if !ok {
		b.assert(false, "no input assembler", "op", op)
		return nil, false
	}
	if vao, ok := ia.vaos[b.state.curIAProg]; ok {
		b.bindVAO(vao)
	}
	return ia, true
}

// drawMode translates mode and, for patches, sets the patch size.
func (b *Backend) drawMode(op string, mode DrawMode, ia *inputAssemblerObj) (uint32, bool) {
	if mode != DrawPatches {
		return glDrawMode(mode), true
	}
	if !b.requireExt(CapTessellation, op) {
		return 0, false
	}
	verts := ia.desc.PatchVertices
	if verts <= 0 {
		verts = 3
	}
	b.ext.PatchParameteri(glPatchVertices, int32(verts))
	return glPatches, true
}

// Draw draws count vertices starting at start with the current input
// assembler.
func (b *Backend) Draw(mode DrawMode, start, count int) {
	ia, ok := b.currentAssembly("Draw")
	if !ok || count <= 0 {
		return
	}
	m, ok := b.drawMode("Draw", mode, ia)
	if !ok {
		return
	}
	b.gl.DrawArrays(m, int32(start), int32(count))
}

// DrawIndexed draws count indices starting at index start of the current
// input assembler's index buffer.
func (b *Backend) DrawIndexed(mode DrawMode, start, count int) {
	ia, ok := b.currentAssembly("DrawIndexed")
	if !ok || count <= 0 {
		return
	}
	if !b.assert(!ia.desc.Index.IsNull(), "input assembler has no index buffer", "op", "DrawIndexed") {
		return
	}
	m, ok := b.drawMode("DrawIndexed", mode, ia)
	if !ok {
		return
	}
	typ, size := glIndexType(ia.desc.IndexFormat)
	b.gl.DrawElements(m, int32(count), typ, uintptr(start*size))
}

// DrawInstanced draws instances copies of a vertex range.
func (b *Backend) DrawInstanced(mode DrawMode, start, count, instances int) {
	if !b.tierAtLeast3() {
		b.unsupported("DrawInstanced")
		return
	}
	ia, ok := b.currentAssembly("DrawInstanced")
	if !ok || count <= 0 || instances <= 0 {
		return
	}
	m, ok := b.drawMode("DrawInstanced", mode, ia)
	if !ok {
		return
	}
	b.gl.DrawArraysInstanced(m, int32(start), int32(count), int32(instances))
}

// DrawIndexedInstanced draws instances copies of an index range.
func (b *Backend) DrawIndexedInstanced(mode DrawMode, start, count, instances int) {
	if !b.tierAtLeast3() {
		b.unsupported("DrawIndexedInstanced")
		return
	}
	ia, ok := b.currentAssembly("DrawIndexedInstanced")
	if !ok || count <= 0 || instances <= 0 {
		return
	}
	if !b.assert(!ia.desc.Index.IsNull(), "input assembler has no index buffer", "op", "DrawIndexedInstanced") {
		return
	}
	m, ok := b.drawMode("DrawIndexedInstanced", mode, ia)
	if !ok {
		return
	}
	typ, size := glIndexType(ia.desc.IndexFormat)
	b.gl.DrawElementsInstanced(m, int32(count), typ, uintptr(start*size), int32(instances))
}
