// Package changes records what happened to a graph during a frame so a host
// can mirror it into its own data model.
//
// A [Reporter] brackets each frame: BeginFrame snapshots node state,
// interaction code records [Event] values as they happen, and EndFrame diffs
// the graph against the snapshot to produce [Change] entries. Position
// changes within the reporter's epsilon are never reported.
package changes

import (
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// DefaultEpsilon is the smallest position delta worth reporting.
const DefaultEpsilon = 1e-3

// Kind is the category of a change.
type Kind string

const (
	KindLocation      Kind = "location"
	KindSelected      Kind = "selected"
	KindDragged       Kind = "dragged"
	KindClicked       Kind = "clicked"
	KindDoubleClicked Kind = "double_clicked"
)

// Change is one recorded difference. For edge changes Edge is set and
// IsEdge is true; otherwise Node identifies the element.
type Change struct {
	Kind   Kind         `json:"kind"`
	IsEdge bool         `json:"is_edge,omitempty"`
	Node   graph.NodeID `json:"node"`
	Edge   graph.EdgeID `json:"edge,omitempty"`

	// KindLocation
	From geom.Vec2 `json:"from,omitzero"`
	To   geom.Vec2 `json:"to,omitzero"`

	// KindSelected, KindDragged: flag value before and after.
	Before bool `json:"before,omitempty"`
	After  bool `json:"after,omitempty"`
}

type nodeSnapshot struct {
	pos      geom.Vec2
	selected bool
	dragged  bool
}

// Reporter accumulates changes and events for one frame at a time.
// It is not safe for concurrent use.
type Reporter struct {
	epsilon   float64
	nodes     map[graph.NodeID]nodeSnapshot
	edges     map[graph.EdgeID]bool
	changes   []Change
	events    []Event
	callbacks []func([]Change)
}

// NewReporter creates a reporter that ignores position deltas of at most
// epsilon. Non-positive or non-finite values select DefaultEpsilon.
func NewReporter(epsilon float64) *Reporter {
	if !geom.IsFinite(epsilon) || epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Reporter{
		epsilon: epsilon,
		nodes:   make(map[graph.NodeID]nodeSnapshot),
		edges:   make(map[graph.EdgeID]bool),
	}
}

// Epsilon returns the position threshold.
func (r *Reporter) Epsilon() float64 { return r.epsilon }

// BeginFrame clears the record and snapshots g.
func (r *Reporter) BeginFrame(g *graph.Graph) {
	r.changes = r.changes[:0]
	r.events = r.events[:0]
	clear(r.nodes)
	clear(r.edges)
	for _, n := range g.Nodes() {
		r.nodes[n.ID] = nodeSnapshot{pos: n.Pos, selected: n.Selected, dragged: n.Dragged}
	}
	for _, e := range g.Edges() {
		r.edges[e.ID] = e.Selected
	}
}

// Record appends an interaction event. Clicks also produce a change entry.
func (r *Reporter) Record(ev Event) {
	r.events = append(r.events, ev)
	switch ev.Type {
	case EventNodeClick:
		r.changes = append(r.changes, Change{Kind: KindClicked, Node: ev.Node})
	case EventNodeDoubleClick:
		r.changes = append(r.changes, Change{Kind: KindDoubleClicked, Node: ev.Node})
	case EventEdgeClick:
		r.changes = append(r.changes, Change{Kind: KindClicked, IsEdge: true, Edge: ev.Edge})
	}
}

// EndFrame diffs g against the snapshot taken by BeginFrame. Elements added
// during the frame have no snapshot and are not reported.
func (r *Reporter) EndFrame(g *graph.Graph) {
	for _, n := range g.Nodes() {
		before, ok := r.nodes[n.ID]
		if !ok {
			continue
		}
		if n.Pos.Dist(before.pos) > r.epsilon {
			r.changes = append(r.changes, Change{Kind: KindLocation, Node: n.ID, From: before.pos, To: n.Pos})
		}
		if n.Selected != before.selected {
			r.changes = append(r.changes, Change{Kind: KindSelected, Node: n.ID, Before: before.selected, After: n.Selected})
		}
		if n.Dragged != before.dragged {
			r.changes = append(r.changes, Change{Kind: KindDragged, Node: n.ID, Before: before.dragged, After: n.Dragged})
		}
	}
	for _, e := range g.Edges() {
		before, ok := r.edges[e.ID]
		if ok && e.Selected != before {
			r.changes = append(r.changes, Change{Kind: KindSelected, IsEdge: true, Edge: e.ID, Before: before, After: e.Selected})
		}
	}
}

// Changes returns the current record without clearing it.
func (r *Reporter) Changes() []Change {
	return append([]Change(nil), r.changes...)
}

// Drain returns and clears the recorded changes, then passes them to every
// OnChange callback.
func (r *Reporter) Drain() []Change {
	out := append([]Change(nil), r.changes...)
	r.changes = r.changes[:0]
	if len(out) > 0 {
		for _, fn := range r.callbacks {
			fn(out)
		}
	}
	return out
}

// Events returns and clears the recorded events.
func (r *Reporter) Events() []Event {
	out := append([]Event(nil), r.events...)
	r.events = r.events[:0]
	return out
}

// OnChange registers fn to receive every non-empty Drain result.
func (r *Reporter) OnChange(fn func([]Change)) {
	if fn != nil {
		r.callbacks = append(r.callbacks, fn)
	}
}
