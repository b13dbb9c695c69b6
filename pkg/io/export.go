package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphview/pkg/graph"
)

// WriteJSON encodes g as indented JSON. Nodes keep the ids they were read
// with; other nodes are written under their numeric id.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	directed := g.IsDirected()
	out := document{
		Directed: &directed,
		Nodes:    make([]node, 0, g.NodeCount()),
		Edges:    make([]edge, 0, g.EdgeCount()),
	}

	names := make(map[graph.NodeID]string, g.NodeCount())
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID.String(), Color: n.Color}
		if data, ok := n.Payload.(NodeData); ok && data.ID != "" {
			nd.ID, nd.Meta = data.ID, data.Meta
		}
		if n.Label != nd.ID {
			nd.Label = n.Label
		}
		if n.Radius != graph.DefaultNodeRadius {
			nd.Radius = n.Radius
		}
		if n.Placed() {
			x, y := n.Pos.X, n.Pos.Y
			nd.X, nd.Y = &x, &y
		}
		names[n.ID] = nd.ID
		out.Nodes = append(out.Nodes, nd)
	}

	for _, e := range g.Edges() {
		ed := edge{From: names[e.Source], To: names[e.Target], Label: e.Label, Color: e.Color}
		if e.Width != graph.DefaultEdgeWidth {
			ed.Width = e.Width
		}
		if data, ok := e.Payload.(EdgeData); ok {
			ed.Meta = data.Meta
		}
		out.Edges = append(out.Edges, ed)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
