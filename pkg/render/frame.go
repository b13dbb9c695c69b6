package render

import (
	"math"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/transform"
)

// NodeShape is a node resolved to screen space.
type NodeShape struct {
	ID       graph.NodeID `json:"id"`
	Center   geom.Vec2    `json:"center"`
	Radius   float64      `json:"radius"`
	Color    string       `json:"color"`
	Label    string       `json:"label,omitempty"`
	Selected bool         `json:"selected,omitempty"`
	Hovered  bool         `json:"hovered,omitempty"`
	Dragged  bool         `json:"dragged,omitempty"`
	Visible  bool         `json:"visible"`
}

// EdgeShape is an edge resolved to screen space. Points holds two points for
// straight edges and the four Bézier control points otherwise.
type EdgeShape struct {
	ID       graph.EdgeID `json:"id"`
	Source   graph.NodeID `json:"source"`
	Target   graph.NodeID `json:"target"`
	Kind     ShapeKind    `json:"kind"`
	Order    int          `json:"order"`
	Points   []geom.Vec2  `json:"points"`
	Width    float64      `json:"width"`
	Color    string       `json:"color"`
	Directed bool         `json:"directed"`
	Label    string       `json:"label,omitempty"`
	LabelPos geom.Vec2    `json:"label_pos"`
	Selected bool         `json:"selected,omitempty"`
	Hovered  bool         `json:"hovered,omitempty"`
	Visible  bool         `json:"visible"`
}

// Frame is everything a host needs to paint one frame.
type Frame struct {
	Viewport geom.Rect   `json:"viewport"`
	Zoom     float64     `json:"zoom"`
	Pan      geom.Vec2   `json:"pan"`
	Nodes    []NodeShape `json:"nodes"`
	Edges    []EdgeShape `json:"edges"`
	// Selection is the rubber-band rectangle while one is being drawn.
	Selection *geom.Rect `json:"selection,omitempty"`
}

// Build resolves g under t. Nodes and edges keep their insertion order,
// which is also the paint order.
func Build(g *graph.Graph, t *transform.Transform, viewport geom.Rect, st Style) Frame {
	f := Frame{
		Viewport: viewport,
		Zoom:     t.Zoom(),
		Pan:      t.Pan(),
		Nodes:    make([]NodeShape, 0, g.NodeCount()),
		Edges:    make([]EdgeShape, 0, g.EdgeCount()),
	}

	index := make(map[graph.NodeID]int, g.NodeCount())
	for _, n := range g.Nodes() {
		center := t.ToScreen(n.Pos)
		r := st.nodeRadius(n) * t.Zoom()
		shape := NodeShape{
			ID:       n.ID,
			Center:   center,
			Radius:   r,
			Color:    st.nodeColor(n),
			Selected: n.Selected,
			Hovered:  n.Hovered,
			Dragged:  n.Dragged,
			Visible:  geom.FromCenter(center, geom.V(2*r, 2*r)).Intersects(viewport),
		}
		if st.Labels || n.Hovered || n.Selected {
			shape.Label = n.DisplayLabel()
		}
		index[n.ID] = len(f.Nodes)
		f.Nodes = append(f.Nodes, shape)
	}

	for _, e := range g.Edges() {
		src, dst := f.Nodes[index[e.Source]], f.Nodes[index[e.Target]]
		f.Edges = append(f.Edges, resolveEdge(e, src, dst, g.IsDirected(), t.Zoom(), viewport, st))
	}
	return f
}

func resolveEdge(e *graph.Edge, src, dst NodeShape, directed bool, zoom float64, viewport geom.Rect, st Style) EdgeShape {
	kind, pts := edgePath(src.Center, dst.Center, src.Radius, dst.Radius, e.IsLoop(), e.Order, zoom, st)
	return EdgeShape{
		ID:       e.ID,
		Source:   e.Source,
		Target:   e.Target,
		Kind:     kind,
		Order:    e.Order,
		Points:   pts,
		Width:    st.edgeWidth(e) * zoom,
		Color:    st.edgeColor(e),
		Directed: directed,
		Label:    e.Label,
		LabelPos: midpoint(kind, pts),
		Selected: e.Selected,
		Hovered:  e.Hovered,
		Visible:  pathBounds(pts).Intersects(viewport),
	}
}

// Polyline returns the edge path flattened into line segments.
func (e EdgeShape) Polyline() []geom.Vec2 {
	return polyline(e.Kind, e.Points)
}

// NodeAt returns the topmost node whose disc contains screen.
func (f *Frame) NodeAt(screen geom.Vec2) (graph.NodeID, bool) {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		n := f.Nodes[i]
		if n.Center.Dist(screen) <= n.Radius {
			return n.ID, true
		}
	}
	return 0, false
}

// EdgeAt returns the edge closest to screen within tolerance pixels plus
// half the edge width.
func (f *Frame) EdgeAt(screen geom.Vec2, tolerance float64) (graph.EdgeID, bool) {
	return nearestEdge(f.Edges, screen, tolerance)
}

func nearestEdge(edges []EdgeShape, screen geom.Vec2, tolerance float64) (graph.EdgeID, bool) {
	best, found := graph.EdgeID(0), false
	bestDist := math.Inf(1)
	for _, e := range edges {
		d := geom.PolylineDistance(screen, polyline(e.Kind, e.Points))
		if d <= tolerance+e.Width/2 && d < bestDist {
			best, bestDist, found = e.ID, d, true
		}
	}
	return best, found
}

// Picker resolves edges under the pointer from the live graph, without
// building a whole frame.
type Picker struct {
	g     *graph.Graph
	t     *transform.Transform
	style Style
}

// NewPicker creates a picker over g as seen through t.
func NewPicker(g *graph.Graph, t *transform.Transform, st Style) *Picker {
	return &Picker{g: g, t: t, style: st}
}

// EdgeAt returns the edge closest to screen within tolerance pixels.
func (p *Picker) EdgeAt(screen geom.Vec2, tolerance float64) (graph.EdgeID, bool) {
	zoom := p.t.Zoom()
	shapes := make([]EdgeShape, 0, p.g.EdgeCount())
	for _, e := range p.g.Edges() {
		src, _ := p.g.Node(e.Source)
		dst, _ := p.g.Node(e.Target)
		kind, pts := edgePath(p.t.ToScreen(src.Pos), p.t.ToScreen(dst.Pos),
			p.style.nodeRadius(src)*zoom, p.style.nodeRadius(dst)*zoom, e.IsLoop(), e.Order, zoom, p.style)
		shapes = append(shapes, EdgeShape{ID: e.ID, Kind: kind, Points: pts, Width: p.style.edgeWidth(e) * zoom})
	}
	return nearestEdge(shapes, screen, tolerance)
}
