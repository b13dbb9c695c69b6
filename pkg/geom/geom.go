// Package geom provides the small amount of 2D math graphview needs:
// vectors, axis-aligned rectangles and a cubic Bézier helper.
//
// All values are plain structs passed by value. Nothing here allocates.
package geom

import "math"

// Vec2 is a point or displacement in two dimensions.
type Vec2 struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2        { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2        { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2   { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Div(s float64) Vec2     { return Vec2{a.X / s, a.Y / s} }
func (a Vec2) Dot(b Vec2) float64     { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64           { return math.Hypot(a.X, a.Y) }
func (a Vec2) LenSq() float64         { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Dist(b Vec2) float64    { return a.Sub(b).Len() }
func (a Vec2) Perp() Vec2             { return Vec2{-a.Y, a.X} }
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Normalized returns the unit vector in the direction of a, or the zero
// vector when a has no length.
func (a Vec2) Normalized() Vec2 {
	l := a.Len()
	if l == 0 || !IsFinite(l) {
		return Vec2{}
	}
	return a.Div(l)
}

// ClampLen returns a scaled down to max length if it is longer.
func (a Vec2) ClampLen(max float64) Vec2 {
	if l := a.Len(); l > max && l > 0 {
		return a.Scale(max / l)
	}
	return a
}

// Finite reports whether both components are finite.
func (a Vec2) Finite() bool { return IsFinite(a.X) && IsFinite(a.Y) }

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Rect is an axis-aligned rectangle. Min is the top-left corner in screen
// conventions (y grows downward).
type Rect struct {
	Min Vec2 `json:"min" toml:"min"`
	Max Vec2 `json:"max" toml:"max"`
}

// R builds a rectangle from two corners in any order.
func R(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// FromSize builds a rectangle anchored at the origin.
func FromSize(w, h float64) Rect { return Rect{Max: Vec2{w, h}} }

// FromCenter builds a rectangle of the given size around c.
func FromCenter(c, size Vec2) Rect {
	half := size.Scale(0.5)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return Vec2{r.Width(), r.Height()} }
func (r Rect) Center() Vec2    { return r.Min.Lerp(r.Max, 0.5) }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and o overlap, edges included.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Expand grows r by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Min: r.Min.Sub(Vec2{d, d}), Max: r.Max.Add(Vec2{d, d})}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Valid reports whether the corners are finite and ordered.
func (r Rect) Valid() bool {
	return r.Min.Finite() && r.Max.Finite() && r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

// Bezier is a cubic Bézier curve.
type Bezier [4]Vec2

// At evaluates the curve at t in [0,1].
func (b Bezier) At(t float64) Vec2 {
	u := 1 - t
	p := b[0].Scale(u * u * u)
	p = p.Add(b[1].Scale(3 * u * u * t))
	p = p.Add(b[2].Scale(3 * u * t * t))
	return p.Add(b[3].Scale(t * t * t))
}

// Flatten samples the curve into n+1 points.
func (b Bezier) Flatten(n int) []Vec2 {
	if n < 1 {
		n = 1
	}
	pts := make([]Vec2, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = b.At(float64(i) / float64(n))
	}
	return pts
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSq()
	if l2 == 0 {
		return p.Dist(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Dist(a.Add(ab.Scale(t)))
}

// PolylineDistance returns the distance from p to the nearest segment of pts.
func PolylineDistance(p Vec2, pts []Vec2) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, SegmentDistance(p, pts[i-1], pts[i]))
	}
	return best
}
