package changes

import (
	"testing"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

func setup(t *testing.T) (*graph.Graph, graph.NodeID, graph.NodeID, graph.EdgeID) {
	t.Helper()
	g := graph.New()
	a := g.AddNodeAt(nil, geom.V(0, 0))
	b := g.AddNodeAt(nil, geom.V(10, 0))
	e, err := g.AddEdge(a, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g, a, b, e
}

func TestLocationEpsilon(t *testing.T) {
	tests := []struct {
		name  string
		delta geom.Vec2
		want  int
	}{
		{"no move", geom.Vec2{}, 0},
		{"within epsilon", geom.V(0.0005, 0), 0},
		{"at epsilon", geom.V(0.001, 0), 0},
		{"beyond epsilon", geom.V(0.5, 0.5), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, a, _, _ := setup(t)
			r := NewReporter(1e-3)
			r.BeginFrame(g)
			_ = g.SetNodePosition(a, tt.delta)
			r.EndFrame(g)
			got := r.Drain()
			if len(got) != tt.want {
				t.Fatalf("Drain() = %+v, want %d entries", got, tt.want)
			}
			if tt.want == 1 && (got[0].Kind != KindLocation || got[0].To != tt.delta) {
				t.Errorf("change = %+v", got[0])
			}
		})
	}
}

func TestFlagChanges(t *testing.T) {
	g, a, b, e := setup(t)
	r := NewReporter(0)
	r.BeginFrame(g)
	_ = g.SetNodeSelected(a, true)
	nb, _ := g.Node(b)
	nb.Dragged = true
	_ = g.SetEdgeSelected(e, true)
	r.EndFrame(g)

	got := r.Drain()
	want := []Change{
		{Kind: KindSelected, Node: a, After: true},
		{Kind: KindDragged, Node: b, After: true},
		{Kind: KindSelected, IsEdge: true, Edge: e, After: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Drain() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRecordClicks(t *testing.T) {
	g, a, _, e := setup(t)
	r := NewReporter(DefaultEpsilon)
	r.BeginFrame(g)
	r.Record(Event{Type: EventNodeClick, Node: a})
	r.Record(Event{Type: EventNodeDoubleClick, Node: a})
	r.Record(Event{Type: EventEdgeClick, Edge: e})
	r.Record(Event{Type: EventPan, Delta: geom.V(1, 1)})
	r.EndFrame(g)

	changes := r.Drain()
	if len(changes) != 3 {
		t.Fatalf("Drain() = %+v, want 3 click changes", changes)
	}
	if changes[2].Kind != KindClicked || !changes[2].IsEdge {
		t.Errorf("edge click change = %+v", changes[2])
	}
	if events := r.Events(); len(events) != 4 {
		t.Errorf("Events() = %d entries, want 4", len(events))
	}
	if events := r.Events(); len(events) != 0 {
		t.Errorf("second Events() = %d entries, want 0", len(events))
	}
}

func TestDrainClearsAndNotifies(t *testing.T) {
	g, a, _, _ := setup(t)
	r := NewReporter(DefaultEpsilon)
	var seen [][]Change
	r.OnChange(func(c []Change) { seen = append(seen, c) })
	r.OnChange(nil)

	r.BeginFrame(g)
	_ = g.SetNodePosition(a, geom.V(5, 5))
	r.EndFrame(g)

	if got := r.Drain(); len(got) != 1 {
		t.Fatalf("Drain() = %+v", got)
	}
	if got := r.Drain(); len(got) != 0 {
		t.Errorf("second Drain() = %+v, want empty", got)
	}
	if len(seen) != 1 {
		t.Errorf("callback ran %d times, want 1", len(seen))
	}
}

func TestBeginFrameClears(t *testing.T) {
	g, a, _, _ := setup(t)
	r := NewReporter(DefaultEpsilon)
	r.BeginFrame(g)
	r.Record(Event{Type: EventNodeClick, Node: a})
	r.BeginFrame(g)
	if got := r.Changes(); len(got) != 0 {
		t.Errorf("Changes() after BeginFrame = %+v", got)
	}
}

func TestAddedNodesIgnored(t *testing.T) {
	g, _, _, _ := setup(t)
	r := NewReporter(DefaultEpsilon)
	r.BeginFrame(g)
	g.AddNodeAt(nil, geom.V(100, 100))
	r.EndFrame(g)
	if got := r.Drain(); len(got) != 0 {
		t.Errorf("Drain() = %+v, want empty", got)
	}
}

func TestNewReporterDefaultsEpsilon(t *testing.T) {
	if got := NewReporter(-1).Epsilon(); got != DefaultEpsilon {
		t.Errorf("Epsilon() = %v, want %v", got, DefaultEpsilon)
	}
}

func TestEventCategories(t *testing.T) {
	if !(Event{Type: EventNodeHoverEnter}).IsNode() {
		t.Error("hover enter should be a node event")
	}
	if !(Event{Type: EventEdgeSelect}).IsEdge() {
		t.Error("edge select should be an edge event")
	}
	if (Event{Type: EventZoom}).IsNode() || (Event{Type: EventZoom}).IsEdge() {
		t.Error("zoom is neither a node nor an edge event")
	}
}
