package paths

import (
	"slices"

	"github.com/chewxy/math32"

	"github.com/gogpu/glrender/backend"
)

// minLinearError is the floor of the subdivision tolerance.
const minLinearError = 1.0

// maxSubdivision bounds the recursion depth per equation.
const maxSubdivision = 10

// joinEpsilon is the smallest tangent cross product treated as a corner.
const joinEpsilon = 1e-3

// Taper mode bits stored in each patch.
const (
	taperBeginBit = 1
	taperEndBit   = 2
)

// patchVec4s is the number of vec4 records per patch.
const patchVec4s = 5

// outline is the command stream shared by both render types.
type outline struct {
	cmds   []backend.PathCommand
	coords []float32
}

type subPathSnapshot struct {
	closed  bool
	anchors []Anchor
}

func outlineFromSubPaths(subs []subPathSnapshot) outline {
	var o outline
	for _, s := range subs {
		if len(s.anchors) == 0 {
			continue
		}
		first := s.anchors[0]
		o.moveTo(first.Position)
		for i := 1; i < len(s.anchors); i++ {
			prev, cur := s.anchors[i-1], s.anchors[i]
			o.cubicTo(prev.out(), cur.in(), cur.Position)
		}
		if s.closed && len(s.anchors) > 1 {
			last := s.anchors[len(s.anchors)-1]
			o.cubicTo(last.out(), first.in(), first.Position)
			o.cmds = append(o.cmds, backend.PathClose)
		}
	}
	return o
}

func outlineFromBlob(b *Blob) outline {
	return outline{cmds: b.Commands, coords: b.Coords}
}

func (o *outline) moveTo(p Vec2) {
	o.cmds = append(o.cmds, backend.PathMoveTo)
	o.coords = append(o.coords, p.X, p.Y)
}

func (o *outline) cubicTo(c1, c2, p Vec2) {
	o.cmds = append(o.cmds, backend.PathCubicTo)
	o.coords = append(o.coords, c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
}

// contour is a sub-path as a list of cubic equations.
type contour struct {
	equations []Cubic
	closed    bool
}

// contours splits the command stream at MoveTo. Close adds a straight
// closing equation when the contour does not end at its start.
func (o outline) contours() []contour {
	var out []contour
	var cur contour
	var start, pen Vec2
	coords := o.coords
	flush := func() {
		if len(cur.equations) > 0 {
			out = append(out, cur)
		}
		cur = contour{}
	}
	for _, c := range o.cmds {
		switch c {
		case backend.PathMoveTo:
			flush()
			pen = Vec2{coords[0], coords[1]}
			start = pen
			coords = coords[2:]
		case backend.PathCubicTo:
			eq := Cubic{
				P0: pen,
				C1: Vec2{coords[0], coords[1]},
				C2: Vec2{coords[2], coords[3]},
				P3: Vec2{coords[4], coords[5]},
			}
			cur.equations = append(cur.equations, eq)
			pen = eq.P3
			coords = coords[6:]
		case backend.PathClose:
			if pen.Sub(start).Length() > epsilon {
				cur.equations = append(cur.equations, Cubic{pen, pen.Lerp(start, 1.0/3), pen.Lerp(start, 2.0/3), start})
			}
			cur.closed = true
			pen = start
			flush()
		}
	}
	flush()
	return out
}

// segment is one result cubic of the subdivision.
type segment struct {
	Cubic
	equation  int
	length    float32
	taper     [2]float32
	taperMode uint8
	adjIn     Vec2
	adjOut    Vec2
	u         [2]float32
}

func newSegment(c Cubic, eq int) segment {
	return segment{Cubic: c, equation: eq, length: c.Length(), taper: [2]float32{1, 1}, adjIn: c.P0, adjOut: c.P3}
}

// tessellation holds the settings of one rebuild.
type tessellation struct {
	width       float32
	linearError float32
	begin, end  Taper
}

func (ts tessellation) tolerance() float32 {
	return math32.Max(ts.linearError, minLinearError)
}

// run produces the patch segments of every contour. The begin taper
// applies to the start of the first contour and the end taper to the end
// of the last one; both are clamped to half the length of the whole path.
func (ts tessellation) run(cs []contour) []segment {
	tol := ts.tolerance()
	parts := make([][]segment, len(cs))
	var pathLength float32
	first, last := -1, -1
	for i, c := range cs {
		for j, eq := range c.equations {
			parts[i] = subdivide(parts[i], eq, j, tol, 0)
		}
		if len(parts[i]) == 0 {
			continue
		}
		pathLength += totalLength(parts[i])
		if first < 0 {
			first = i
		}
		last = i
	}

	var out []segment
	for i, c := range cs {
		if len(parts[i]) == 0 {
			continue
		}
		var begin, end Taper
		if i == first {
			begin = ts.begin
		}
		if i == last {
			end = ts.end
		}
		out = append(out, ts.finish(c, parts[i], begin, end, pathLength/2)...)
	}
	return out
}

// contour tessellates a single contour as a whole path.
func (ts tessellation) contour(c contour) []segment {
	return ts.run([]contour{c})
}

// finish applies tapers, texture coordinates and adjoining points to the
// subdivided segments of one contour. limit caps the taper lengths.
func (ts tessellation) finish(c contour, segs []segment, begin, end Taper, limit float32) []segment {
	total := totalLength(segs)

	if begin.enabled() && total > 0 {
		d := math32.Min(math32.Min(begin.Length, limit), total)
		var k int
		segs, k = splitAt(segs, d)
		var cum float32
		for i := range segs[:k] {
			s := &segs[i]
			s.taper = [2]float32{cum / d, math32.Min((cum+s.length)/d, 1)}
			s.taperMode |= taperBeginBit
			cum += s.length
		}
		segs[0].taper[0] = 0
		segs[k-1].taper[1] = 1
	}
	if end.enabled() && total > 0 {
		d := math32.Min(math32.Min(end.Length, limit), total)
		var k int
		segs, k = splitAt(segs, totalLength(segs)-d)
		if k < len(segs) {
			var rest float32
			for i := len(segs) - 1; i >= k; i-- {
				s := &segs[i]
				s.taper = [2]float32{math32.Min((rest+s.length)/d, 1), rest / d}
				s.taperMode |= taperEndBit
				rest += s.length
			}
			segs[k].taper[0] = 1
			segs[len(segs)-1].taper[1] = 0
		}
	}

	var cum float32
	total = totalLength(segs)
	for i := range segs {
		s := &segs[i]
		if total > 0 {
			s.u = [2]float32{cum / total, (cum + s.length) / total}
		}
		cum += s.length
	}

	for i := 1; i < len(segs); i++ {
		ts.adjoin(&segs[i-1], &segs[i])
	}
	if c.closed && len(segs) > 1 {
		ts.adjoin(&segs[len(segs)-1], &segs[0])
	}
	return segs
}

// subdivide appends eq to segs, halving it until it is flat within tol.
func subdivide(segs []segment, eq Cubic, index int, tol float32, depth int) []segment {
	if depth >= maxSubdivision || eq.flatness() <= tol {
		return append(segs, newSegment(eq, index))
	}
	a, b := eq.Split(0.5)
	segs = subdivide(segs, a, index, tol, depth+1)
	return subdivide(segs, b, index, tol, depth+1)
}

func totalLength(segs []segment) float32 {
	var l float32
	for _, s := range segs {
		l += s.length
	}
	return l
}

// splitAt splits the segment containing the distance d from the start
// so that a segment boundary falls exactly at d. It returns the segments
// and the number of them covering [0, d]. A boundary already at d yields
// a zero-length segment.
func splitAt(segs []segment, d float32) ([]segment, int) {
	var cum float32
	for i, s := range segs {
		if cum+s.length > d {
			t := s.paramAt(d - cum)
			a, b := s.Split(t)
			first, second := s, s
			first.Cubic, first.length = a, a.Length()
			second.Cubic, second.length = b, b.Length()
			first.adjIn, first.adjOut = a.P0, a.P3
			second.adjIn, second.adjOut = b.P0, b.P3
			segs[i] = first
			segs = slices.Insert(segs, i+1, second)
			return segs, i + 1
		}
		cum += s.length
	}
	return segs, len(segs)
}

// adjoin replaces the shared corner of two segments of different
// equations when the path turns there.
func (ts tessellation) adjoin(a, b *segment) {
	if a.equation == b.equation && a.P3 == b.P0 {
		return
	}
	ta, tb := a.EndTangent(), b.StartTangent()
	if math32.Abs(ta.Cross(tb)) <= joinEpsilon {
		return
	}
	half := ts.width / 2
	corner := a.P3.Add(ta.Perp().Mul(half).Add(tb.Perp().Mul(half)).Mul(0.5))
	a.adjOut = corner
	b.adjIn = corner
}

// patchData lays out the segments as patches of five vec4.
func patchData(segs []segment) []float32 {
	data := make([]float32, 0, len(segs)*patchVec4s*4)
	for _, s := range segs {
		data = append(data,
			s.P0.X, s.P0.Y, s.C1.X, s.C1.Y,
			s.C2.X, s.C2.Y, s.P3.X, s.P3.Y,
			s.adjIn.X, s.adjIn.Y, s.adjOut.X, s.adjOut.Y,
			s.taper[0], s.taper[1], float32(s.taperMode), 0,
			s.u[0], s.u[1], 0, 0,
		)
	}
	return data
}

// segmentBounds returns the control hull of segs grown by half the
// stroke width.
func segmentBounds(segs []segment, width float32) Rect {
	if len(segs) == 0 {
		return Rect{}
	}
	r := segs[0].hull()
	for _, s := range segs[1:] {
		h := s.hull()
		r = r.include(h.Min).include(h.Max)
	}
	return r.inset(-width / 2)
}
