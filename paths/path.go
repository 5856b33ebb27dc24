package paths

import "strings"

// DirtyFlags record which inputs of a path changed since it was last
// prepared.
type DirtyFlags uint8

// Dirty flags.
const (
	DirtySourceData DirtyFlags = 1 << iota
	DirtyBeginTaper
	DirtyEndTaper
	DirtyWidth
	DirtyCPUError
	DirtyPathType
)

// geometryFlags force a rebuild of the tessellation patches.
const geometryFlags = DirtySourceData | DirtyBeginTaper | DirtyEndTaper | DirtyWidth | DirtyCPUError

func (f DirtyFlags) String() string {
	if f == 0 {
		return "Clean"
	}
	names := [...]string{"SourceData", "BeginTaper", "EndTaper", "Width", "CPUError", "PathType"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// PathType selects how a path is rendered.
type PathType uint8

// Path types.
const (
	// GeometryPath is tessellated on the GPU from cubic patches.
	GeometryPath PathType = iota
	// PaintedPath is stencilled with a native path object and covered
	// with the material.
	PaintedPath
)

func (t PathType) String() string {
	if t == PaintedPath {
		return "Painted"
	}
	return "Geometry"
}

// Capping is the end treatment of a geometry path.
type Capping uint8

// Cappings.
const (
	CapNone Capping = iota
	CapTaper
)

// Taper describes one end of a geometry path.
type Taper struct {
	Cap Capping
	// Length is the distance along the path over which the width fades.
	// It is clamped to half the path length.
	Length float32
	// Width and Opacity are the multipliers at the very tip.
	Width, Opacity float32
}

func (t Taper) enabled() bool { return t.Cap == CapTaper && t.Length > 0 }

// Anchor is a point of a sub-path with its incoming and outgoing
// tangent handles given as angle (radians) and distance.
type Anchor struct {
	Position    Vec2
	InAngle     float32
	InDistance  float32
	OutAngle    float32
	OutDistance float32
}

func (a Anchor) in() Vec2  { return a.Position.Add(polar(a.InAngle, a.InDistance)) }
func (a Anchor) out() Vec2 { return a.Position.Add(polar(a.OutAngle, a.OutDistance)) }

// SubPath is a sequence of anchors joined by cubic segments. Its anchors
// are set through Manager.SetPathSubPathData, which may be called from
// another goroutine.
type SubPath struct {
	closed  bool
	anchors []Anchor
	dirty   bool
}

// NewSubPath returns an empty sub-path.
func NewSubPath(closed bool) *SubPath { return &SubPath{closed: closed, dirty: true} }

// Closed reports whether the last anchor joins the first.
func (s *SubPath) Closed() bool { return s.closed }

// SetClosed opens or closes the sub-path.
func (s *SubPath) SetClosed(closed bool) { s.closed = closed }

// Path is a vector path node. Its setters record dirty flags consumed by
// Manager.PrepareForRender.
type Path struct {
	typ         PathType
	subPaths    []*SubPath
	source      string
	width       float32
	begin, end  Taper
	linearError float32
	dirty       DirtyFlags
}

// NewPath returns an empty path of the given type.
func NewPath(t PathType) *Path {
	return &Path{typ: t, linearError: 1, dirty: DirtySourceData | DirtyPathType}
}

// Type returns the render type.
func (p *Path) Type() PathType { return p.typ }

// Dirty returns the pending dirty flags.
func (p *Path) Dirty() DirtyFlags { return p.dirty }

// SetType switches between tessellated and stencilled rendering.
func (p *Path) SetType(t PathType) {
	if p.typ != t {
		p.typ = t
		p.dirty |= DirtyPathType
	}
}

// SetSubPaths replaces the sub-path list. Structural changes are
// detected when the path is prepared.
func (p *Path) SetSubPaths(subs ...*SubPath) {
	p.subPaths = append(p.subPaths[:0:0], subs...)
}

// SubPaths returns the sub-path list.
func (p *Path) SubPaths() []*SubPath { return p.subPaths }

// SetSource makes the path render a path blob instead of its sub-paths.
// An empty source switches back to the sub-paths.
func (p *Path) SetSource(source string) {
	if p.source != source {
		p.source = source
		p.dirty |= DirtySourceData
	}
}

// Source returns the path blob name.
func (p *Path) Source() string { return p.source }

// SetWidth sets the stroke width.
func (p *Path) SetWidth(w float32) {
	if p.width != w {
		p.width = w
		p.dirty |= DirtyWidth
	}
}

// Width returns the stroke width.
func (p *Path) Width() float32 { return p.width }

// SetBeginTaper sets the treatment of the path start.
func (p *Path) SetBeginTaper(t Taper) {
	if p.begin != t {
		p.begin = t
		p.dirty |= DirtyBeginTaper
	}
}

// SetEndTaper sets the treatment of the path end.
func (p *Path) SetEndTaper(t Taper) {
	if p.end != t {
		p.end = t
		p.dirty |= DirtyEndTaper
	}
}

// SetLinearError sets the subdivision tolerance in path units. Values
// below 1 are raised to 1 when tessellating.
func (p *Path) SetLinearError(e float32) {
	if p.linearError != e {
		p.linearError = e
		p.dirty |= DirtyCPUError
	}
}
