package graph

// siblings returns the edges that share an order sequence with an edge from
// source to target: same direction in a directed graph, either direction in
// an undirected one.
func (g *Graph) siblings(source, target NodeID) []*Edge {
	var out []*Edge
	for _, eid := range g.outgoing[source] {
		if e := g.edges[eid]; e.Target == target {
			out = append(out, e)
		}
	}
	if !g.directed && source != target {
		for _, eid := range g.outgoing[target] {
			if e := g.edges[eid]; e.Target == source {
				out = append(out, e)
			}
		}
	}
	return out
}

// nextOrder returns the smallest order not used by an existing sibling.
func (g *Graph) nextOrder(source, target NodeID) int {
	used := make(map[int]bool)
	for _, e := range g.siblings(source, target) {
		used[e.Order] = true
	}
	order := 0
	for used[order] {
		order++
	}
	return order
}

// separateDirections bumps every edge between e's endpoints by one when e
// and an opposite-direction edge both sit at order 0. Only directed,
// non-loop edges are affected.
func (g *Graph) separateDirections(e *Edge) {
	if !g.directed || e.IsLoop() || e.Order != 0 {
		return
	}
	opposite := g.siblings(e.Target, e.Source)
	collides := false
	for _, o := range opposite {
		if o.Order == 0 {
			collides = true
			break
		}
	}
	if !collides {
		return
	}
	for _, s := range g.siblings(e.Source, e.Target) {
		s.Order++
	}
	for _, o := range opposite {
		o.Order++
	}
}
