package render

import (
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/graph"
)

// Style defaults.
const (
	DefaultLoopSize  = 3.0
	DefaultCurveSize = 20.0
)

// Colors is the palette used for element states.
type Colors struct {
	Node         string `json:"node" toml:"node" koanf:"node"`
	NodeSelected string `json:"node_selected" toml:"node_selected" koanf:"node_selected"`
	NodeHovered  string `json:"node_hovered" toml:"node_hovered" koanf:"node_hovered"`
	NodeDragged  string `json:"node_dragged" toml:"node_dragged" koanf:"node_dragged"`
	Edge         string `json:"edge" toml:"edge" koanf:"edge"`
	EdgeSelected string `json:"edge_selected" toml:"edge_selected" koanf:"edge_selected"`
	EdgeHovered  string `json:"edge_hovered" toml:"edge_hovered" koanf:"edge_hovered"`
}

// Style controls how elements are drawn.
type Style struct {
	// NodeRadius replaces the radius of nodes that have none.
	NodeRadius float64 `json:"node_radius" toml:"node_radius" koanf:"node_radius"`
	// EdgeWidth replaces the width of edges that have none.
	EdgeWidth float64 `json:"edge_width" toml:"edge_width" koanf:"edge_width"`
	// LoopSize scales self-loops relative to the node radius.
	LoopSize float64 `json:"loop_size" toml:"loop_size" koanf:"loop_size"`
	// CurveSize is the perpendicular offset per order step of parallel edges.
	CurveSize float64 `json:"curve_size" toml:"curve_size" koanf:"curve_size"`
	// Labels shows every node label; otherwise only hovered and selected
	// nodes are labeled.
	Labels bool   `json:"labels" toml:"labels" koanf:"labels"`
	Colors Colors `json:"colors" toml:"colors" koanf:"colors"`
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{
		NodeRadius: graph.DefaultNodeRadius,
		EdgeWidth:  graph.DefaultEdgeWidth,
		LoopSize:   DefaultLoopSize,
		CurveSize:  DefaultCurveSize,
		Colors: Colors{
			Node:         "#4c78a8",
			NodeSelected: "#f58518",
			NodeHovered:  "#72b7b2",
			NodeDragged:  "#e45756",
			Edge:         "#9d9d9d",
			EdgeSelected: "#f58518",
			EdgeHovered:  "#54a24b",
		},
	}
}

func (s Style) Validate() error {
	return errors.First(
		errors.ValidatePositive("style.node_radius", s.NodeRadius),
		errors.ValidatePositive("style.edge_width", s.EdgeWidth),
		errors.ValidateNonNegative("style.loop_size", s.LoopSize),
		errors.ValidateNonNegative("style.curve_size", s.CurveSize),
	)
}

func (s Style) nodeColor(n *graph.Node) string {
	switch {
	case n.Color != "":
		return n.Color
	case n.Dragged:
		return s.Colors.NodeDragged
	case n.Selected:
		return s.Colors.NodeSelected
	case n.Hovered:
		return s.Colors.NodeHovered
	}
	return s.Colors.Node
}

func (s Style) edgeColor(e *graph.Edge) string {
	switch {
	case e.Color != "":
		return e.Color
	case e.Selected:
		return s.Colors.EdgeSelected
	case e.Hovered:
		return s.Colors.EdgeHovered
	}
	return s.Colors.Edge
}

func (s Style) nodeRadius(n *graph.Node) float64 {
	if n.Radius > 0 {
		return n.Radius
	}
	return s.NodeRadius
}

func (s Style) edgeWidth(e *graph.Edge) float64 {
	if e.Width > 0 {
		return e.Width
	}
	return s.EdgeWidth
}
