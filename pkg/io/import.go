package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// ReadJSON decodes a JSON graph from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}

	directed := true
	if doc.Directed != nil {
		directed = *doc.Directed
	}
	g := graph.New(graph.Directed(directed))

	ids := make(map[string]graph.NodeID, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has no id", i)
		}
		if _, dup := ids[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}

		data := NodeData{ID: n.ID, Meta: n.Meta}
		var id graph.NodeID
		if n.X != nil && n.Y != nil {
			pos := geom.V(*n.X, *n.Y)
			if !pos.Finite() {
				return nil, errors.New(errors.ErrCodeInvalidInput, "node %q has a non-finite position", n.ID)
			}
			id = g.AddNodeAt(data, pos)
		} else {
			id = g.AddNode(data)
		}

		nd, _ := g.Node(id)
		nd.Label = n.Label
		if nd.Label == "" {
			nd.Label = n.ID
		}
		nd.Color = n.Color
		if n.Radius > 0 {
			nd.Radius = n.Radius
		}
		ids[n.ID] = id
	}

	for _, e := range doc.Edges {
		from, ok := ids[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := ids[e.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
		var payload any
		if len(e.Meta) > 0 {
			payload = EdgeData{Meta: e.Meta}
		}
		eid, err := g.AddEdge(from, to, payload)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		ed, _ := g.Edge(eid)
		ed.Label, ed.Color = e.Label, e.Color
		if e.Width > 0 {
			ed.Width = e.Width
		}
	}
	return g, nil
}

// ImportJSON reads the JSON graph file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
