package graph

import (
	"slices"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
)

// Option configures a Graph at construction.
type Option func(*Graph)

// Directed sets whether edge direction matters for parallel-edge ordering.
// Graphs are directed by default. In an undirected graph a→b and b→a are
// siblings of the same pair and share one order sequence.
func Directed(directed bool) Option {
	return func(g *Graph) { g.directed = directed }
}

// CascadeRemove sets the default node removal policy. When true,
// [Graph.RemoveNode] removes incident edges instead of failing.
func CascadeRemove(cascade bool) Option {
	return func(g *Graph) { g.cascade = cascade }
}

// Graph is a mutable multigraph with stable ids.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	nodeOrder []NodeID
	edgeOrder []EdgeID

	outgoing map[NodeID][]EdgeID
	incoming map[NodeID][]EdgeID

	nextNode NodeID
	nextEdge EdgeID

	directed bool
	cascade  bool
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make(map[NodeID]*Node),
		edges:    make(map[EdgeID]*Edge),
		outgoing: make(map[NodeID][]EdgeID),
		incoming: make(map[NodeID][]EdgeID),
		directed: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsDirected reports whether the graph orders parallel edges per direction.
func (g *Graph) IsDirected() bool { return g.directed }

// Cascade reports the default node removal policy.
func (g *Graph) Cascade() bool { return g.cascade }

// SetCascade changes the default node removal policy.
func (g *Graph) SetCascade(cascade bool) { g.cascade = cascade }

// =============================================================================
// Nodes
// =============================================================================

// AddNode adds an unplaced node at the origin and returns its id.
// Placement layouts (random, circular, hierarchical) position unplaced nodes.
func (g *Graph) AddNode(payload any) NodeID {
	return g.addNode(payload, geom.Vec2{}, false)
}

// AddNodeAt adds a node at pos. A non-finite pos is replaced by the origin
// and the node is left unplaced.
func (g *Graph) AddNodeAt(payload any, pos geom.Vec2) NodeID {
	if !pos.Finite() {
		return g.addNode(payload, geom.Vec2{}, false)
	}
	return g.addNode(payload, pos, true)
}

func (g *Graph) addNode(payload any, pos geom.Vec2, placed bool) NodeID {
	id := g.nextNode
	g.nextNode++
	g.nodes[id] = &Node{
		ID:      id,
		Pos:     pos,
		Payload: payload,
		Radius:  DefaultNodeRadius,
		placed:  placed,
	}
	g.nodeOrder = append(g.nodeOrder, id)
	return id
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []NodeID { return slices.Clone(g.nodeOrder) }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// SetNodePosition moves a node and marks it placed.
func (g *Graph) SetNodePosition(id NodeID, pos geom.Vec2) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.InvalidOperation("unknown node %d", id)
	}
	if !pos.Finite() {
		return errors.DegenerateGeometry("non-finite position %v for node %d", pos, id)
	}
	n.Pos = pos
	n.placed = true
	return nil
}

// MarkUnplaced clears the placed flag on every node so the next placement
// layout positions the whole graph.
func (g *Graph) MarkUnplaced() {
	for _, n := range g.nodes {
		n.placed = false
	}
}

// RemoveNode removes a node using the graph's cascade policy.
// Without cascade, a node with incident edges is not removed and an
// INVALID_OPERATION error is returned.
func (g *Graph) RemoveNode(id NodeID) error {
	return g.removeNode(id, g.cascade)
}

// RemoveNodeCascade removes a node together with all of its incident edges,
// regardless of the graph's policy.
func (g *Graph) RemoveNodeCascade(id NodeID) error {
	return g.removeNode(id, true)
}

func (g *Graph) removeNode(id NodeID, cascade bool) error {
	if _, ok := g.nodes[id]; !ok {
		return errors.InvalidOperation("unknown node %d", id)
	}
	incident := g.IncidentEdges(id)
	if len(incident) > 0 && !cascade {
		return errors.InvalidOperation("node %d has %d incident edges; remove them first or enable cascade", id, len(incident))
	}
	for _, eid := range incident {
		if err := g.RemoveEdge(eid); err != nil {
			return err
		}
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(n NodeID) bool { return n == id })
	return nil
}

// =============================================================================
// Edges
// =============================================================================

// AddEdge connects source to target and returns the new edge id.
// It fails with INVALID_OPERATION if either endpoint does not exist.
func (g *Graph) AddEdge(source, target NodeID, payload any) (EdgeID, error) {
	if _, ok := g.nodes[source]; !ok {
		return 0, errors.InvalidOperation("unknown source node %d", source)
	}
	if _, ok := g.nodes[target]; !ok {
		return 0, errors.InvalidOperation("unknown target node %d", target)
	}

	id := g.nextEdge
	g.nextEdge++
	e := &Edge{
		ID:      id,
		Source:  source,
		Target:  target,
		Payload: payload,
		Width:   DefaultEdgeWidth,
	}
	e.Order = g.nextOrder(source, target)

	g.edges[id] = e
	g.edgeOrder = append(g.edgeOrder, id)
	g.outgoing[source] = append(g.outgoing[source], id)
	g.incoming[target] = append(g.incoming[target], id)

	g.separateDirections(e)
	return id, nil
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// EdgeIDs returns all edge ids in insertion order.
func (g *Graph) EdgeIDs() []EdgeID { return slices.Clone(g.edgeOrder) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = g.edges[id]
	}
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// RemoveEdge removes an edge and compacts the orders of its siblings.
func (g *Graph) RemoveEdge(id EdgeID) error {
	e, ok := g.edges[id]
	if !ok {
		return errors.InvalidOperation("unknown edge %d", id)
	}
	drop := func(ids []EdgeID) []EdgeID {
		return slices.DeleteFunc(ids, func(x EdgeID) bool { return x == id })
	}
	g.outgoing[e.Source] = drop(g.outgoing[e.Source])
	g.incoming[e.Target] = drop(g.incoming[e.Target])
	g.edgeOrder = drop(g.edgeOrder)
	delete(g.edges, id)

	for _, s := range g.siblings(e.Source, e.Target) {
		if s.Order > e.Order {
			s.Order--
		}
	}
	return nil
}

// =============================================================================
// Adjacency
// =============================================================================

// Outgoing returns the ids of edges leaving id, in insertion order.
func (g *Graph) Outgoing(id NodeID) []EdgeID { return slices.Clone(g.outgoing[id]) }

// Incoming returns the ids of edges entering id, in insertion order.
func (g *Graph) Incoming(id NodeID) []EdgeID { return slices.Clone(g.incoming[id]) }

// InDegree returns the number of edges entering id, self-loops included.
func (g *Graph) InDegree(id NodeID) int { return len(g.incoming[id]) }

// OutDegree returns the number of edges leaving id, self-loops included.
func (g *Graph) OutDegree(id NodeID) int { return len(g.outgoing[id]) }

// IncidentEdges returns the ids of every edge touching id. Self-loops are
// listed once. Outgoing edges come first, then incoming.
func (g *Graph) IncidentEdges(id NodeID) []EdgeID {
	out := slices.Clone(g.outgoing[id])
	for _, eid := range g.incoming[id] {
		if e := g.edges[eid]; e != nil && !e.IsLoop() {
			out = append(out, eid)
		}
	}
	return out
}

// Successors returns the distinct targets of edges leaving id, in edge
// insertion order.
func (g *Graph) Successors(id NodeID) []NodeID {
	return g.collect(g.outgoing[id], func(e *Edge) NodeID { return e.Target })
}

// Predecessors returns the distinct sources of edges entering id.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	return g.collect(g.incoming[id], func(e *Edge) NodeID { return e.Source })
}

// Neighbors returns the distinct nodes adjacent to id in either direction,
// excluding id itself.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	var out []NodeID
	seen := map[NodeID]bool{id: true}
	for _, eid := range g.IncidentEdges(id) {
		other := g.edges[eid].Other(id)
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

func (g *Graph) collect(ids []EdgeID, pick func(*Edge) NodeID) []NodeID {
	var out []NodeID
	seen := make(map[NodeID]bool, len(ids))
	for _, eid := range ids {
		n := pick(g.edges[eid])
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// EdgesBetween returns the edges from a to b, sorted by order then id.
// In an undirected graph edges from b to a are included as well.
func (g *Graph) EdgesBetween(a, b NodeID) []*Edge {
	var out []*Edge
	for _, eid := range g.outgoing[a] {
		if e := g.edges[eid]; e.Target == b {
			out = append(out, e)
		}
	}
	if !g.directed && a != b {
		for _, eid := range g.outgoing[b] {
			if e := g.edges[eid]; e.Target == a {
				out = append(out, e)
			}
		}
	}
	slices.SortFunc(out, func(x, y *Edge) int {
		if x.Order != y.Order {
			return x.Order - y.Order
		}
		return cmpID(x.ID, y.ID)
	})
	return out
}

func cmpID(a, b EdgeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// =============================================================================
// Selection
// =============================================================================

// SelectedNodes returns the ids of selected nodes in insertion order.
func (g *Graph) SelectedNodes() []NodeID {
	var out []NodeID
	for _, id := range g.nodeOrder {
		if g.nodes[id].Selected {
			out = append(out, id)
		}
	}
	return out
}

// SelectedEdges returns the ids of selected edges in insertion order.
func (g *Graph) SelectedEdges() []EdgeID {
	var out []EdgeID
	for _, id := range g.edgeOrder {
		if g.edges[id].Selected {
			out = append(out, id)
		}
	}
	return out
}

// SetNodeSelected sets the selected flag of a node.
func (g *Graph) SetNodeSelected(id NodeID, selected bool) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.InvalidOperation("unknown node %d", id)
	}
	n.Selected = selected
	return nil
}

// SetEdgeSelected sets the selected flag of an edge.
func (g *Graph) SetEdgeSelected(id EdgeID, selected bool) error {
	e, ok := g.edges[id]
	if !ok {
		return errors.InvalidOperation("unknown edge %d", id)
	}
	e.Selected = selected
	return nil
}

// ClearSelection deselects every node and edge.
func (g *Graph) ClearSelection() {
	for _, n := range g.nodes {
		n.Selected = false
	}
	for _, e := range g.edges {
		e.Selected = false
	}
}

// =============================================================================
// Geometry
// =============================================================================

// Bounds returns the bounding box of all node positions. ok is false for an
// empty graph.
func (g *Graph) Bounds() (r geom.Rect, ok bool) {
	for i, id := range g.nodeOrder {
		p := g.nodes[id].Pos
		pr := geom.Rect{Min: p, Max: p}
		if i == 0 {
			r = pr
			continue
		}
		r = r.Union(pr)
	}
	return r, len(g.nodeOrder) > 0
}

// VisualBounds is like Bounds but inflates every node by its radius.
func (g *Graph) VisualBounds() (r geom.Rect, ok bool) {
	for i, id := range g.nodeOrder {
		n := g.nodes[id]
		nr := geom.Rect{Min: n.Pos, Max: n.Pos}.Expand(n.Radius)
		if i == 0 {
			r = nr
			continue
		}
		r = r.Union(nr)
	}
	return r, len(g.nodeOrder) > 0
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that adjacency indices agree with the edge set: every edge
// endpoint exists, every edge appears exactly once in its source's outgoing
// and its target's incoming list, and no list refers to a removed edge.
func (g *Graph) Validate() error {
	if len(g.nodeOrder) != len(g.nodes) || len(g.edgeOrder) != len(g.edges) {
		return errors.New(errors.ErrCodeInternal, "order index out of sync")
	}
	for _, e := range g.edges {
		if _, ok := g.nodes[e.Source]; !ok {
			return errors.New(errors.ErrCodeInternal, "edge %d has dangling source %d", e.ID, e.Source)
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return errors.New(errors.ErrCodeInternal, "edge %d has dangling target %d", e.ID, e.Target)
		}
		if c := count(g.outgoing[e.Source], e.ID); c != 1 {
			return errors.New(errors.ErrCodeInternal, "edge %d listed %d times in outgoing of %d", e.ID, c, e.Source)
		}
		if c := count(g.incoming[e.Target], e.ID); c != 1 {
			return errors.New(errors.ErrCodeInternal, "edge %d listed %d times in incoming of %d", e.ID, c, e.Target)
		}
	}
	for _, adj := range []map[NodeID][]EdgeID{g.outgoing, g.incoming} {
		for nid, ids := range adj {
			if _, ok := g.nodes[nid]; !ok && len(ids) > 0 {
				return errors.New(errors.ErrCodeInternal, "adjacency for removed node %d", nid)
			}
			for _, eid := range ids {
				if _, ok := g.edges[eid]; !ok {
					return errors.New(errors.ErrCodeInternal, "node %d refers to removed edge %d", nid, eid)
				}
			}
		}
	}
	return nil
}

func count(ids []EdgeID, id EdgeID) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}
