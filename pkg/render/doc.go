// Package render maps a graph and its transform to drawing primitives.
//
// # Overview
//
// [Build] resolves every node to a screen-space disc and every edge to one
// of three shapes:
//
//   - straight: a segment between two distinct nodes at order 0
//   - curved: a cubic Bézier bent perpendicular to the segment by
//     CurveSize × order × zoom, so parallel edges fan out
//   - loop: a cubic Bézier anchored at 45° on top of the node, growing
//     with the edge order
//
// The resulting [Frame] is plain data. Hosts paint it with whatever canvas
// they have and use [Frame.NodeAt] and [Frame.EdgeAt] for picking.
// Elements outside the viewport are kept with Visible set to false.
//
// # Snapshots
//
// [ToDOT] writes the current positions as a Graphviz document with pinned
// coordinates, and [RenderSVG] renders such a document in-process:
//
//	dot := render.ToDOT(g, render.DOTOptions{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz] with the neato engine.
package render
