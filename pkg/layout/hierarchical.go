package layout

import (
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// Hierarchical arranges nodes in levels once, until reset.
//
// Column indices grow along the level axis' perpendicular: x for
// [TopDown], y for [LeftRight]. Positions start at the origin; hosts fit
// the result to the viewport.
type Hierarchical struct {
	state HierarchicalState
}

func (h *Hierarchical) Kind() Kind    { return KindHierarchical }
func (h *Hierarchical) Running() bool { return !h.state.Triggered }

func (h *Hierarchical) State() State {
	hs := h.state
	return State{Kind: KindHierarchical, Hierarchical: &hs}
}

func (h *Hierarchical) SetState(s State) error {
	if s.Kind != KindHierarchical {
		return kindMismatch(KindHierarchical, s.Kind)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	h.state = *s.withDefaults().Hierarchical
	return nil
}

func (h *Hierarchical) Step(g *graph.Graph, _ geom.Rect) {
	if h.state.Triggered {
		return
	}
	var cells map[graph.NodeID]cell
	switch h.state.Ranking {
	case RankLongestPath:
		cells = longestPathCells(g)
	default:
		cells = treeCells(g, h.state.CenterParent)
	}
	for _, n := range g.Nodes() {
		c, ok := cells[n.ID]
		if !ok {
			continue
		}
		setPosition(g, n, KindHierarchical, h.position(c))
	}
	h.state.Triggered = true
}

func (h *Hierarchical) position(c cell) geom.Vec2 {
	level := float64(c.row) * h.state.RowDist
	across := c.col * h.state.ColDist
	if h.state.Orientation == LeftRight {
		return geom.V(level, across)
	}
	return geom.V(across, level)
}

// cell is a level and a (possibly fractional) column.
type cell struct {
	row int
	col float64
}

// =============================================================================
// Tree ranking
// =============================================================================

// treeCells packs depth-first subtrees left to right. Roots are nodes
// without incoming edges (self-loops aside); nodes only reachable through
// cycles are started from the lowest id of each source component.
func treeCells(g *graph.Graph, centerParent bool) map[graph.NodeID]cell {
	t := &treePacker{
		g:       g,
		center:  centerParent,
		visited: make(map[graph.NodeID]bool),
		cells:   make(map[graph.NodeID]cell),
	}
	nextCol := 0
	start := func(id graph.NodeID) {
		if t.visited[id] {
			return
		}
		t.visited[id] = true
		nextCol = t.build(id, 0, nextCol) + 1
	}

	for _, id := range g.NodeIDs() {
		if onlySelfLoops(g, id) {
			start(id)
		}
	}
	for _, id := range sourceComponentLeaders(g) {
		start(id)
	}
	for _, id := range g.NodeIDs() {
		start(id)
	}
	return t.cells
}

type treePacker struct {
	g       *graph.Graph
	center  bool
	visited map[graph.NodeID]bool
	cells   map[graph.NodeID]cell
}

// build places id's subtree starting at startCol and returns the largest
// column it used.
func (t *treePacker) build(id graph.NodeID, row, startCol int) int {
	maxCol := startCol
	childCol := startCol
	hadChild := false
	for _, child := range t.g.Successors(id) {
		if t.visited[child] {
			continue
		}
		t.visited[child] = true
		hadChild = true
		childMax := t.build(child, row+1, childCol)
		maxCol = max(maxCol, childMax)
		childCol = childMax + 1
	}

	col := float64(startCol)
	if t.center && hadChild {
		col = float64(startCol+maxCol) / 2
	}
	t.cells[id] = cell{row: row, col: col}
	return maxCol
}

// onlySelfLoops reports whether id has no predecessors besides itself.
func onlySelfLoops(g *graph.Graph, id graph.NodeID) bool {
	for _, p := range g.Predecessors(id) {
		if p != id {
			return false
		}
	}
	return true
}

// =============================================================================
// Longest-path ranking
// =============================================================================

// longestPathCells ranks the condensation of g by longest path from its
// sources. Members of one component share a rank; columns within a rank
// follow node insertion order.
func longestPathCells(g *graph.Graph) map[graph.NodeID]cell {
	comps, compOf := components(g)

	succ := make([]map[int]bool, len(comps))
	indeg := make([]int, len(comps))
	for i := range succ {
		succ[i] = make(map[int]bool)
	}
	for _, e := range g.Edges() {
		a, b := compOf[e.Source], compOf[e.Target]
		if a != b && !succ[a][b] {
			succ[a][b] = true
			indeg[b]++
		}
	}

	rank := make([]int, len(comps))
	var queue []int
	for c := range comps {
		if indeg[c] == 0 {
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		next := make([]int, 0, len(succ[c]))
		for s := range succ[c] {
			next = append(next, s)
		}
		slices.Sort(next)
		for _, s := range next {
			rank[s] = max(rank[s], rank[c]+1)
			if indeg[s]--; indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	cells := make(map[graph.NodeID]cell, g.NodeCount())
	cols := make(map[int]int)
	for _, id := range g.NodeIDs() {
		r := rank[compOf[id]]
		cells[id] = cell{row: r, col: float64(cols[r])}
		cols[r]++
	}
	return cells
}

// =============================================================================
// Strongly connected components
// =============================================================================

// components returns the strongly connected components of g ordered by
// their earliest member in insertion order, each sorted by node id, plus
// the component index of every node.
func components(g *graph.Graph) ([][]graph.NodeID, map[graph.NodeID]int) {
	dg := simple.NewDirectedGraph()
	for _, id := range g.NodeIDs() {
		dg.AddNode(simple.Node(int64(id)))
	}
	for _, e := range g.Edges() {
		from, to := int64(e.Source), int64(e.Target)
		if from == to || dg.HasEdgeFromTo(from, to) {
			continue
		}
		dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
	}

	position := make(map[graph.NodeID]int, g.NodeCount())
	for i, id := range g.NodeIDs() {
		position[id] = i
	}

	var comps [][]graph.NodeID
	for _, scc := range topo.TarjanSCC(dg) {
		comps = append(comps, nodeIDs(scc))
	}
	first := func(c []graph.NodeID) int {
		best := len(position)
		for _, id := range c {
			best = min(best, position[id])
		}
		return best
	}
	slices.SortFunc(comps, func(a, b []graph.NodeID) int { return first(a) - first(b) })

	compOf := make(map[graph.NodeID]int, g.NodeCount())
	for i, c := range comps {
		for _, id := range c {
			compOf[id] = i
		}
	}
	return comps, compOf
}

// sourceComponentLeaders returns the lowest node id of every component with
// no edges entering it from another component.
func sourceComponentLeaders(g *graph.Graph) []graph.NodeID {
	comps, compOf := components(g)
	entered := make([]bool, len(comps))
	for _, e := range g.Edges() {
		if a, b := compOf[e.Source], compOf[e.Target]; a != b {
			entered[b] = true
		}
	}
	var leaders []graph.NodeID
	for i, c := range comps {
		if !entered[i] {
			leaders = append(leaders, c[0])
		}
	}
	return leaders
}

func nodeIDs(nodes []gonum.Node) []graph.NodeID {
	ids := make([]graph.NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = graph.NodeID(n.ID())
	}
	slices.Sort(ids)
	return ids
}
