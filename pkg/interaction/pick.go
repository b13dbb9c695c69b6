package interaction

import (
	"math"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/transform"
)

// NodeAt returns the node whose screen disc contains screen. The disc
// radius is the node radius times the zoom. Overlapping nodes resolve to
// the one inserted last, which is drawn on top.
func NodeAt(g *graph.Graph, t *transform.Transform, screen geom.Vec2) (graph.NodeID, bool) {
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		r := n.Radius * t.Zoom()
		if t.ToScreen(n.Pos).Dist(screen) <= r {
			return n.ID, true
		}
	}
	return 0, false
}

// StraightEdgeAt picks the closest edge drawn as a straight segment within
// tolerance pixels. Self-loops are skipped.
func StraightEdgeAt(g *graph.Graph, t *transform.Transform, screen geom.Vec2, tolerance float64) (graph.EdgeID, bool) {
	best, found := graph.EdgeID(0), false
	bestDist := math.Inf(1)
	for _, e := range g.Edges() {
		if e.IsLoop() {
			continue
		}
		src, _ := g.Node(e.Source)
		dst, _ := g.Node(e.Target)
		d := geom.SegmentDistance(screen, t.ToScreen(src.Pos), t.ToScreen(dst.Pos))
		if d <= tolerance && d < bestDist {
			best, bestDist, found = e.ID, d, true
		}
	}
	return best, found
}
