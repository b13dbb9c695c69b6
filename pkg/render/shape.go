package render

import (
	"math"

	"github.com/matzehuels/graphview/pkg/geom"
)

// ShapeKind is how an edge is drawn.
type ShapeKind string

const (
	ShapeStraight ShapeKind = "straight"
	ShapeCurved   ShapeKind = "curved"
	ShapeLoop     ShapeKind = "loop"
)

// curveSamples is the number of segments a curve is flattened into for
// picking.
const curveSamples = 24

var (
	upLeft  = geom.V(-math.Sqrt2/2, -math.Sqrt2/2)
	upRight = geom.V(math.Sqrt2/2, -math.Sqrt2/2)
)

// edgePath resolves the screen-space control points of an edge between two
// discs. Straight edges return two points, curves and loops four.
func edgePath(src, dst geom.Vec2, srcR, dstR float64, loop bool, order int, zoom float64, st Style) (ShapeKind, []geom.Vec2) {
	if loop {
		return loopPath(src, srcR, order, st)
	}
	dir := dst.Sub(src)
	if dir.Len() == 0 {
		return ShapeStraight, []geom.Vec2{src, dst}
	}
	if order == 0 || st.CurveSize == 0 {
		u := dir.Normalized()
		return ShapeStraight, []geom.Vec2{src.Add(u.Scale(srcR)), dst.Sub(u.Scale(dstR))}
	}

	offset := dir.Perp().Normalized().Scale(st.CurveSize * float64(order) * zoom)
	c1 := src.Add(dir.Scale(1.0 / 3)).Add(offset)
	c2 := src.Add(dir.Scale(2.0 / 3)).Add(offset)
	start := src.Add(c1.Sub(src).Normalized().Scale(srcR))
	end := dst.Add(c2.Sub(dst).Normalized().Scale(dstR))
	return ShapeCurved, []geom.Vec2{start, c1, c2, end}
}

// loopPath draws a self-loop above the node; higher orders nest outside
// lower ones.
func loopPath(center geom.Vec2, r float64, order int, st Style) (ShapeKind, []geom.Vec2) {
	size := r * (st.LoopSize + float64(order))
	start := center.Add(upLeft.Scale(r))
	end := center.Add(upRight.Scale(r))
	c1 := center.Add(upLeft.Scale(r + size)).Add(geom.V(0, -size/2))
	c2 := center.Add(upRight.Scale(r + size)).Add(geom.V(0, -size/2))
	return ShapeLoop, []geom.Vec2{start, c1, c2, end}
}

// polyline samples a resolved path for distance checks.
func polyline(kind ShapeKind, pts []geom.Vec2) []geom.Vec2 {
	if kind == ShapeStraight || len(pts) != 4 {
		return pts
	}
	return geom.Bezier{pts[0], pts[1], pts[2], pts[3]}.Flatten(curveSamples)
}

// midpoint returns the label anchor of a path.
func midpoint(kind ShapeKind, pts []geom.Vec2) geom.Vec2 {
	if kind == ShapeStraight || len(pts) != 4 {
		return pts[0].Lerp(pts[len(pts)-1], 0.5)
	}
	return geom.Bezier{pts[0], pts[1], pts[2], pts[3]}.At(0.5)
}

func pathBounds(pts []geom.Vec2) geom.Rect {
	r := geom.R(pts[0], pts[0])
	for _, p := range pts[1:] {
		r = r.Union(geom.R(p, p))
	}
	return r
}
