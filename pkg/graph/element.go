package graph

import (
	"strconv"

	"github.com/matzehuels/graphview/pkg/geom"
)

// Visual defaults applied when an element is created.
const (
	DefaultNodeRadius = 5.0
	DefaultEdgeWidth  = 2.0
)

// NodeID identifies a node within one Graph.
type NodeID uint64

// EdgeID identifies an edge within one Graph.
type EdgeID uint64

func (id NodeID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id EdgeID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Node is a vertex with a graph-space position and interaction flags.
type Node struct {
	ID      NodeID
	Pos     geom.Vec2
	Payload any // opaque host data

	Label  string  // display label; empty means the decimal id
	Color  string  // optional color override, e.g. "#ff8800"
	Radius float64 // visual size hint in graph units

	Selected bool
	Dragged  bool
	Hovered  bool

	placed bool
}

// DisplayLabel returns the label if set, otherwise the id.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID.String()
}

// Placed reports whether the node has been given a position, either at
// creation or by a layout or drag.
func (n *Node) Placed() bool { return n.placed }

// Edge is a directed connection between two nodes. Source and Target may be
// equal (self-loop).
type Edge struct {
	ID      EdgeID
	Source  NodeID
	Target  NodeID
	Payload any

	// Order disambiguates edges between the same pair of nodes.
	// 0 is drawn straight; higher orders curve progressively further out.
	Order int

	Label string
	Color string
	Width float64

	Selected bool
	Hovered  bool
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e *Edge) IsLoop() bool { return e.Source == e.Target }

// Other returns the endpoint of e that is not id. For self-loops it returns id.
func (e *Edge) Other(id NodeID) NodeID {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}
