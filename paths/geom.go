package paths

import "github.com/chewxy/math32"

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Cross returns the z component of the cross product.
func (v Vec2) Cross(w Vec2) float32 { return v.X*w.Y - v.Y*w.X }

// Length returns the euclidean length.
func (v Vec2) Length() float32 { return math32.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Perp returns v rotated by 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Lerp interpolates between v and w.
func (v Vec2) Lerp(w Vec2, t float32) Vec2 {
	return Vec2{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// polar returns the vector of length d in direction angle (radians).
func polar(angle, d float32) Vec2 {
	return Vec2{math32.Cos(angle) * d, math32.Sin(angle) * d}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Vec2
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }

// Width returns the horizontal extent.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

func (r Rect) include(p Vec2) Rect {
	return Rect{
		Min: Vec2{math32.Min(r.Min.X, p.X), math32.Min(r.Min.Y, p.Y)},
		Max: Vec2{math32.Max(r.Max.X, p.X), math32.Max(r.Max.Y, p.Y)},
	}
}

func (r Rect) inset(d float32) Rect {
	return Rect{Min: Vec2{r.Min.X + d, r.Min.Y + d}, Max: Vec2{r.Max.X - d, r.Max.Y - d}}
}

// Cubic is a cubic Bezier segment.
type Cubic struct {
	P0, C1, C2, P3 Vec2
}

// Eval returns the point at t.
func (c Cubic) Eval(t float32) Vec2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Vec2{
		a*c.P0.X + b*c.C1.X + d*c.C2.X + e*c.P3.X,
		a*c.P0.Y + b*c.C1.Y + d*c.C2.Y + e*c.P3.Y,
	}
}

// Split divides c at t with De Casteljau's algorithm.
func (c Cubic) Split(t float32) (Cubic, Cubic) {
	p01 := c.P0.Lerp(c.C1, t)
	p12 := c.C1.Lerp(c.C2, t)
	p23 := c.C2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)
	return Cubic{c.P0, p01, p012, mid}, Cubic{mid, p123, p23, c.P3}
}

// StartTangent returns the direction the curve leaves P0 in. Coincident
// control points fall back to the next distinct one.
func (c Cubic) StartTangent() Vec2 {
	for _, p := range [...]Vec2{c.C1, c.C2, c.P3} {
		if d := p.Sub(c.P0); d.Length() > epsilon {
			return d.Normalize()
		}
	}
	return Vec2{}
}

// EndTangent returns the direction the curve arrives at P3 in.
func (c Cubic) EndTangent() Vec2 {
	for _, p := range [...]Vec2{c.C2, c.C1, c.P0} {
		if d := c.P3.Sub(p); d.Length() > epsilon {
			return d.Normalize()
		}
	}
	return Vec2{}
}

// lengthSteps is the chord count of the arc length estimate.
const lengthSteps = 16

// Length estimates the arc length by summing chords.
func (c Cubic) Length() float32 { return c.lengthTo(1) }

func (c Cubic) lengthTo(t float32) float32 {
	var l float32
	prev := c.P0
	for i := 1; i <= lengthSteps; i++ {
		p := c.Eval(t * float32(i) / lengthSteps)
		l += p.Sub(prev).Length()
		prev = p
	}
	return l
}

// paramAt returns the t at which the arc length from P0 reaches d.
func (c Cubic) paramAt(d float32) float32 {
	total := c.Length()
	switch {
	case d <= 0 || total <= 0:
		return 0
	case d >= total:
		return 1
	}
	lo, hi := float32(0), float32(1)
	for range 32 {
		mid := (lo + hi) / 2
		if c.lengthTo(mid) < d {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// flatness returns the largest distance of a control point from the
// chord; zero for any straight segment.
func (c Cubic) flatness() float32 {
	chord := c.P3.Sub(c.P0)
	if chord.Length() <= epsilon {
		return math32.Max(c.C1.Sub(c.P0).Length(), c.C2.Sub(c.P0).Length())
	}
	dir := chord.Normalize()
	a := math32.Abs(c.C1.Sub(c.P0).Cross(dir))
	b := math32.Abs(c.C2.Sub(c.P0).Cross(dir))
	return math32.Max(a, b)
}

func (c Cubic) hull() Rect {
	r := Rect{Min: c.P0, Max: c.P0}
	return r.include(c.C1).include(c.C2).include(c.P3)
}

const epsilon = 1e-5
