package paths

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/render"
)

// Uniforms written by RenderGeometryPath when the program declares them.
const (
	UniformPathWidth  = "PathWidth"
	UniformBeginTaper = "BeginTaper"
	UniformEndTaper   = "EndTaper"
)

type subKey struct {
	sub    *SubPath
	closed bool
}

// pathCache holds the GPU resources of one path. Geometry resources and
// the path object are never alive at the same time.
type pathCache struct {
	subs    []subKey
	blob    *Blob
	blobSrc string

	segments []segment
	patches  int
	vertices backend.BufferHandle
	capacity int
	layout   backend.AttribLayoutHandle
	ia       backend.InputAssemblerHandle

	object backend.PathObjectHandle

	bounds Rect
}

// Manager prepares and renders vector paths. Apart from the sub-path
// buffer accessors it must be used from the thread owning the rendering
// context.
type Manager struct {
	b       *backend.Backend
	streams *iostream.Factory

	// mu guards the anchors and dirty state of every SubPath.
	mu sync.Mutex

	caches    map[*Path]*pathCache
	blobs     map[string]*Blob
	cover     coverQuad
	stencilDS backend.DepthStencilHandle
	coverDS   backend.DepthStencilHandle
}

// NewManager creates a path manager. streams resolves path blob sources
// and may be nil when no path uses one.
func NewManager(b *backend.Backend, streams *iostream.Factory) *Manager {
	return &Manager{
		b:       b,
		streams: streams,
		caches:  make(map[*Path]*pathCache),
		blobs:   make(map[string]*Blob),
	}
}

// SetPathSubPathData replaces the anchors of sp. It is safe to call from
// any goroutine.
func (m *Manager) SetPathSubPathData(sp *SubPath, anchors []Anchor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp.anchors = append(sp.anchors[:0], anchors...)
	sp.dirty = true
}

// ResizePathSubPathBuffer grows or shrinks the anchor buffer of sp to n
// entries; new anchors are zero. It is safe to call from any goroutine.
func (m *Manager) ResizePathSubPathBuffer(sp *SubPath, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n = max(n, 0)
	if n == len(sp.anchors) {
		return
	}
	if n < len(sp.anchors) {
		sp.anchors = sp.anchors[:n]
	} else {
		sp.anchors = append(sp.anchors, make([]Anchor, n-len(sp.anchors))...)
	}
	sp.dirty = true
}

// PathSubPathBuffer returns a copy of the anchors of sp. It is safe to
// call from any goroutine.
func (m *Manager) PathSubPathBuffer(sp *SubPath) []Anchor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(sp.anchors)
}

func (m *Manager) cacheFor(p *Path) *pathCache {
	c, ok := m.caches[p]
	if !ok {
		c = &pathCache{}
		m.caches[p] = c
	}
	return c
}

// blob loads a path blob once per source. Failed loads are cached too.
func (m *Manager) blob(source string) *Blob {
	if b, ok := m.blobs[source]; ok {
		return b
	}
	var blob *Blob
	if m.streams != nil {
		if r := m.streams.StreamForFile(source, false); r != nil {
			var err error
			blob, err = DecodeBlob(r)
			r.Close()
			if err != nil {
				slogger().Error("path blob load failed", "source", source, "err", err)
				blob = nil
			}
		}
	}
	m.blobs[source] = blob
	return blob
}

// PrepareForRender brings the GPU resources of p up to date with its
// dirty flags. It reports whether p can be rendered.
func (m *Manager) PrepareForRender(p *Path) bool {
	c := m.cacheFor(p)

	var o outline
	if p.source == "" {
		keys := make([]subKey, len(p.subPaths))
		snaps := make([]subPathSnapshot, len(p.subPaths))
		changed := false
		m.mu.Lock()
		for i, s := range p.subPaths {
			keys[i] = subKey{sub: s, closed: s.closed}
			snaps[i] = subPathSnapshot{closed: s.closed, anchors: slices.Clone(s.anchors)}
			if s.dirty {
				changed = true
				s.dirty = false
			}
		}
		m.mu.Unlock()
		if changed || !slices.Equal(keys, c.subs) || c.blob != nil {
			p.dirty |= DirtySourceData
		}
		c.subs, c.blob, c.blobSrc = keys, nil, ""
		o = outlineFromSubPaths(snaps)
	} else {
		blob := m.blob(p.source)
		if blob != c.blob || p.source != c.blobSrc {
			p.dirty |= DirtySourceData
		}
		c.subs, c.blob, c.blobSrc = nil, blob, p.source
		if blob == nil {
			return false
		}
		o = outlineFromBlob(blob)
	}

	if p.dirty&DirtyPathType != 0 {
		if p.typ == GeometryPath {
			m.releaseObject(c)
		} else {
			m.releaseGeometry(c)
		}
	}

	var ok bool
	switch p.typ {
	case GeometryPath:
		ok = m.prepareGeometry(p, c, o)
	case PaintedPath:
		ok = m.preparePainted(p, c, o)
	}
	if ok {
		slogger().Debug("path prepared", "type", p.typ.String(), "dirty", p.dirty.String(), "patches", c.patches)
		p.dirty = 0
	}
	return ok
}

func (m *Manager) prepareGeometry(p *Path, c *pathCache, o outline) bool {
	if p.dirty&(geometryFlags|DirtyPathType) == 0 {
		return true
	}
	if !m.b.Cap(backend.CapTessellation) {
		slogger().Warn("geometry paths need tessellation shaders")
		return false
	}
	ts := tessellation{width: p.width, linearError: p.linearError, begin: p.begin, end: p.end}
	segs := ts.run(o.contours())
	data := floatBytes(patchData(segs))

	if len(data) > c.capacity {
		m.releaseGeometry(c)
		b := m.b
		c.vertices = b.CreateBuffer(backend.BufferVertex, backend.UsageDynamic, len(data), data)
		if c.vertices.IsNull() {
			return false
		}
		c.capacity = len(data)
		c.layout = b.CreateAttribLayout([]backend.AttribEntry{
			{Name: "attr_pos", Format: gputypes.VertexFormatFloat32x4},
		})
		c.ia = b.CreateInputAssembler(backend.InputAssemblerDesc{
			Layout:        c.layout,
			Buffers:       []backend.BufferHandle{c.vertices},
			Strides:       []int{16},
			Offsets:       []int{0},
			PatchVertices: patchVec4s,
		})
		if c.ia.IsNull() {
			m.releaseGeometry(c)
			return false
		}
	} else if len(data) > 0 && !m.b.UpdateBuffer(c.vertices, 0, data) {
		return false
	}
	c.segments = segs
	c.patches = len(segs)
	c.bounds = segmentBounds(segs, p.width)
	return true
}

func (m *Manager) preparePainted(p *Path, c *pathCache, o outline) bool {
	b := m.b
	if !b.Cap(backend.CapPathRendering) {
		slogger().Warn("painted paths need native path rendering")
		return false
	}
	dirty := p.dirty
	if c.object.IsNull() {
		c.object = b.CreatePathObject()
		if c.object.IsNull() {
			return false
		}
		dirty |= DirtySourceData | DirtyWidth
	}
	if dirty&DirtySourceData != 0 {
		b.SetPathObjectCommands(c.object, o.cmds, o.coords)
	}
	if dirty&DirtyWidth != 0 {
		b.SetPathObjectStroke(c.object, p.width, backend.PathCapFlat)
	}
	if dirty&(DirtySourceData|DirtyWidth) != 0 {
		box, ok := b.PathObjectBounds(c.object)
		if !ok {
			return false
		}
		c.bounds = Rect{Min: Vec2{box[0], box[1]}, Max: Vec2{box[2], box[3]}}
	}
	return true
}

// Bounds returns the bounds of p as of its last preparation.
func (m *Manager) Bounds(p *Path) (Rect, bool) {
	c, ok := m.caches[p]
	if !ok {
		return Rect{}, false
	}
	return c.bounds, true
}

// Patches returns the number of tessellation patches of a prepared
// geometry path.
func (m *Manager) Patches(p *Path) int {
	if c, ok := m.caches[p]; ok {
		return c.patches
	}
	return 0
}

// RenderGeometryPath draws the patches of a prepared geometry path with
// prog, which must contain tessellation stages consuming patches of five
// vec4 vertices.
func (m *Manager) RenderGeometryPath(p *Path, prog backend.ProgramHandle) bool {
	c, ok := m.caches[p]
	if !ok || p.typ != GeometryPath || c.ia.IsNull() || c.patches == 0 {
		return false
	}
	b := m.b
	if !b.SetInputAssembler(c.ia, prog) {
		return false
	}
	m.setUniform(prog, UniformPathWidth, backend.TypeFloat, p.width)
	m.setUniform(prog, UniformBeginTaper, backend.TypeVec4, []float32{p.begin.Width, p.begin.Opacity, 0, 0})
	m.setUniform(prog, UniformEndTaper, backend.TypeVec4, []float32{p.end.Width, p.end.Opacity, 0, 0})
	b.Draw(backend.DrawPatches, 0, c.patches*patchVec4s)
	return true
}

func (m *Manager) setUniform(prog backend.ProgramHandle, name string, typ backend.ShaderDataType, v any) {
	if loc := m.b.UniformLocation(prog, name); loc >= 0 {
		m.b.SetUniformValue(prog, loc, 1, typ, v)
	}
}

func (m *Manager) ensureStates() {
	if !m.stencilDS.IsNull() {
		return
	}
	keep := backend.StencilOp{
		Fail:      gputypes.StencilOperationKeep,
		DepthFail: gputypes.StencilOperationKeep,
		Pass:      gputypes.StencilOperationKeep,
	}
	always := backend.StencilFunc{Compare: gputypes.CompareFunctionAlways, Mask: 0xFF}
	m.stencilDS = m.b.CreateDepthStencilState(backend.DepthStencilDesc{
		DepthEnable:   true,
		DepthFunc:     gputypes.CompareFunctionAlways,
		StencilEnable: true,
		FrontFunc:     always,
		BackFunc:      always,
		FrontOp:       keep,
		BackOp:        keep,
	})
	reset := backend.StencilOp{
		Fail:      gputypes.StencilOperationZero,
		DepthFail: gputypes.StencilOperationZero,
		Pass:      gputypes.StencilOperationZero,
	}
	covered := backend.StencilFunc{Compare: gputypes.CompareFunctionNotEqual, Mask: 0xFF}
	m.coverDS = m.b.CreateDepthStencilState(backend.DepthStencilDesc{
		DepthEnable:   true,
		DepthWrite:    true,
		DepthFunc:     gputypes.CompareFunctionLessEqual,
		StencilEnable: true,
		FrontFunc:     covered,
		BackFunc:      covered,
		FrontOp:       reset,
		BackOp:        reset,
	})
}

// RenderPaintedPath stencils a prepared painted path and covers its
// bounds with prog. The stencil pass ignores depth; the cover pass
// writes only stencilled pixels and clears the stencil behind it. The
// target must have a stencil buffer.
func (m *Manager) RenderPaintedPath(p *Path, prog backend.ProgramHandle) bool {
	c, ok := m.caches[p]
	if !ok || p.typ != PaintedPath || c.object.IsNull() || c.bounds.Empty() {
		return false
	}
	b := m.b
	if !m.cover.ensure(b) {
		return false
	}
	saved := render.SaveState(b)
	defer saved.Restore()

	m.ensureStates()
	b.SetDepthStencilState(m.stencilDS)
	b.SetColorWrites(false, false, false, false)
	if p.width > 0 {
		b.StencilStrokePath(c.object, 1, 0xFF)
	} else {
		b.StencilFillPath(c.object, 0xFF)
	}
	b.SetColorWrites(true, true, true, true)

	b.SetDepthStencilState(m.coverDS)
	m.cover.update(b, c.bounds)
	if !b.SetInputAssembler(m.cover.ia, prog) {
		return false
	}
	b.DrawIndexed(backend.DrawTriangles, 0, 6)
	return true
}

func (m *Manager) releaseGeometry(c *pathCache) {
	b := m.b
	if !c.ia.IsNull() {
		b.ReleaseInputAssembler(c.ia)
	}
	if !c.layout.IsNull() {
		b.ReleaseAttribLayout(c.layout)
	}
	if !c.vertices.IsNull() {
		b.ReleaseBuffer(c.vertices)
	}
	c.ia, c.layout, c.vertices = backend.InputAssemblerHandle{}, backend.AttribLayoutHandle{}, backend.BufferHandle{}
	c.capacity, c.patches, c.segments = 0, 0, nil
}

func (m *Manager) releaseObject(c *pathCache) {
	if !c.object.IsNull() {
		m.b.ReleasePathObject(c.object)
		c.object = backend.PathObjectHandle{}
	}
}

// ReleasePath releases the GPU resources of p. A later PrepareForRender
// rebuilds them.
func (m *Manager) ReleasePath(p *Path) {
	c, ok := m.caches[p]
	if !ok {
		return
	}
	m.releaseGeometry(c)
	m.releaseObject(c)
	delete(m.caches, p)
	p.dirty |= DirtySourceData
}

// Release releases every path and the shared render resources.
func (m *Manager) Release() {
	for p := range m.caches {
		m.ReleasePath(p)
	}
	m.cover.release(m.b)
	if !m.stencilDS.IsNull() {
		m.b.ReleaseDepthStencilState(m.stencilDS)
		m.b.ReleaseDepthStencilState(m.coverDS)
		m.stencilDS, m.coverDS = backend.DepthStencilHandle{}, backend.DepthStencilHandle{}
	}
	clear(m.blobs)
}

func floatBytes(v []float32) []byte {
	out := make([]byte, 0, len(v)*4)
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

// coverQuad is the rectangle drawn over a stencilled path.
type coverQuad struct {
	vertices backend.BufferHandle
	indices  backend.BufferHandle
	layout   backend.AttribLayoutHandle
	ia       backend.InputAssemblerHandle
}

func (q *coverQuad) ensure(b *backend.Backend) bool {
	if !q.ia.IsNull() {
		return true
	}
	ib := make([]byte, 0, 12)
	for _, i := range [...]uint16{0, 1, 2, 0, 2, 3} {
		ib = binary.LittleEndian.AppendUint16(ib, i)
	}
	q.vertices = b.CreateBuffer(backend.BufferVertex, backend.UsageDynamic, 4*3*4, nil)
	q.indices = b.CreateBuffer(backend.BufferIndex, backend.UsageStatic, len(ib), ib)
	q.layout = b.CreateAttribLayout([]backend.AttribEntry{
		{Name: "attr_pos", Format: gputypes.VertexFormatFloat32x3},
	})
	q.ia = b.CreateInputAssembler(backend.InputAssemblerDesc{
		Layout:      q.layout,
		Buffers:     []backend.BufferHandle{q.vertices},
		Strides:     []int{12},
		Offsets:     []int{0},
		Index:       q.indices,
		IndexFormat: gputypes.IndexFormatUint16,
	})
	if q.ia.IsNull() {
		slogger().Error("path cover quad creation failed")
		q.release(b)
		return false
	}
	return true
}

func (q *coverQuad) update(b *backend.Backend, r Rect) {
	b.UpdateBuffer(q.vertices, 0, floatBytes([]float32{
		r.Min.X, r.Min.Y, 0,
		r.Max.X, r.Min.Y, 0,
		r.Max.X, r.Max.Y, 0,
		r.Min.X, r.Max.Y, 0,
	}))
}

func (q *coverQuad) release(b *backend.Backend) {
	if !q.ia.IsNull() {
		b.ReleaseInputAssembler(q.ia)
	}
	if !q.layout.IsNull() {
		b.ReleaseAttribLayout(q.layout)
	}
	if !q.indices.IsNull() {
		b.ReleaseBuffer(q.indices)
	}
	if !q.vertices.IsNull() {
		b.ReleaseBuffer(q.vertices)
	}
	*q = coverQuad{}
}
