package interaction

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/graphview/pkg/changes"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/transform"
)

type recorder struct {
	events []changes.Event
}

func (r *recorder) Record(ev changes.Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []changes.EventType {
	var out []changes.EventType
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) has(typ changes.EventType) bool {
	for _, ev := range r.events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

type fixture struct {
	g   *graph.Graph
	t   *transform.Transform
	c   *Controller
	rec *recorder
	now time.Time
}

// newFixture builds two nodes at (100,100) and (200,100) joined by an edge.
func newFixture(t *testing.T, s Settings) *fixture {
	t.Helper()
	g := graph.New()
	a := g.AddNodeAt(nil, geom.V(100, 100))
	b := g.AddNodeAt(nil, geom.V(200, 100))
	if _, err := g.AddEdge(a, b, nil); err != nil {
		t.Fatal(err)
	}
	return &fixture{
		g:   g,
		t:   transform.Default(),
		c:   NewController(s),
		rec: &recorder{},
		now: time.Unix(1000, 0),
	}
}

func (f *fixture) frame(in Input) {
	in.PointerPresent = true
	if in.Time.IsZero() {
		in.Time = f.now
	}
	f.c.Update(Scene{Graph: f.g, Transform: f.t}, in, f.rec)
}

func (f *fixture) press(x, y float64, mod bool) {
	f.frame(Input{Pointer: geom.V(x, y), Primary: true, Shift: mod})
}

func (f *fixture) move(x, y float64, mod bool) { f.press(x, y, mod) }

func (f *fixture) release(x, y float64, mod bool) {
	f.frame(Input{Pointer: geom.V(x, y), Shift: mod})
}

func (f *fixture) click(x, y float64, mod bool) {
	f.press(x, y, mod)
	f.release(x, y, mod)
}

func (f *fixture) node(id graph.NodeID) *graph.Node {
	n, _ := f.g.Node(id)
	return n
}

func TestDragMovesNode(t *testing.T) {
	f := newFixture(t, AllEnabled())

	f.press(100, 100, false)
	f.move(101, 100, false)
	if f.node(0).Pos != geom.V(100, 100) || f.node(0).Dragged {
		t.Fatal("movement within the drag threshold should not drag")
	}

	f.move(120, 130, false)
	if f.c.State() != StateDragging {
		t.Errorf("State() = %v, want dragging", f.c.State())
	}
	if !f.node(0).Dragged {
		t.Error("node should be flagged dragged")
	}
	if got := f.node(0).Pos; got != geom.V(120, 130) {
		t.Errorf("node at %v, want (120,130)", got)
	}

	f.release(120, 130, false)
	if f.node(0).Dragged {
		t.Error("release should clear the dragged flag")
	}
	if got := f.node(0).Pos; got != geom.V(120, 130) {
		t.Errorf("node at %v after release, want (120,130)", got)
	}
	if !f.rec.has(changes.EventNodeDragStart) || !f.rec.has(changes.EventNodeDragEnd) || !f.rec.has(changes.EventNodeMove) {
		t.Errorf("events = %v", f.rec.types())
	}
	if f.rec.has(changes.EventNodeClick) {
		t.Error("a drag must not count as a click")
	}
}

func TestDragScalesByZoom(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.t.SetZoom(2)

	f.press(200, 200, false)
	f.move(220, 200, false)
	f.release(220, 200, false)
	if got := f.node(0).Pos; math.Abs(got.X-110) > 1e-9 || got.Y != 100 {
		t.Errorf("node at %v, want (110,100)", got)
	}
}

func TestDragDisabled(t *testing.T) {
	f := newFixture(t, DefaultSettings())
	f.press(100, 100, false)
	f.move(150, 150, false)
	f.release(150, 150, false)
	if got := f.node(0).Pos; got != geom.V(100, 100) {
		t.Errorf("node moved to %v with dragging disabled", got)
	}
	if len(f.rec.events) != 0 {
		t.Errorf("events = %v, want none", f.rec.types())
	}
}

func TestClickTogglesSelection(t *testing.T) {
	f := newFixture(t, AllEnabled())

	f.click(100, 100, false)
	if !f.node(0).Selected {
		t.Fatal("click should select")
	}
	f.now = f.now.Add(time.Second)
	f.click(100, 100, false)
	if f.node(0).Selected {
		t.Error("second click should deselect")
	}
	if !f.rec.has(changes.EventNodeDeselect) {
		t.Errorf("events = %v", f.rec.types())
	}
}

func TestClickReplacesOrExtendsSelection(t *testing.T) {
	tests := []struct {
		name     string
		modifier bool
		want     bool
	}{
		{"plain click replaces", false, false},
		{"modifier click extends", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, AllEnabled())
			f.click(100, 100, false)
			f.now = f.now.Add(time.Second)
			f.click(200, 100, tt.modifier)
			if !f.node(1).Selected {
				t.Error("clicked node should be selected")
			}
			if got := f.node(0).Selected; got != tt.want {
				t.Errorf("first node selected = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoubleClick(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want bool
	}{
		{"within window", 100 * time.Millisecond, true},
		{"outside window", time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, AllEnabled())
			f.click(100, 100, false)
			f.now = f.now.Add(tt.gap)
			f.click(100, 100, false)
			if got := f.rec.has(changes.EventNodeDoubleClick); got != tt.want {
				t.Errorf("double click = %v, want %v (events %v)", got, tt.want, f.rec.types())
			}
		})
	}
}

func TestClickEmptyDeselectsAll(t *testing.T) {
	f := newFixture(t, AllEnabled())
	_ = f.g.SetNodeSelected(0, true)
	_ = f.g.SetNodeSelected(1, true)
	_ = f.g.SetEdgeSelected(0, true)

	f.click(400, 400, false)
	if len(f.g.SelectedNodes()) != 0 || len(f.g.SelectedEdges()) != 0 {
		t.Errorf("selection not cleared: nodes %v edges %v", f.g.SelectedNodes(), f.g.SelectedEdges())
	}
}

func TestEdgeClick(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.click(150, 102, false)
	e, _ := f.g.Edge(0)
	if !e.Selected {
		t.Error("edge should be selected")
	}
	if !f.rec.has(changes.EventEdgeClick) || !f.rec.has(changes.EventEdgeSelect) {
		t.Errorf("events = %v", f.rec.types())
	}
}

func TestRectangleSelect(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.press(50, 50, true)
	if f.c.State() != StateSelecting {
		t.Fatalf("State() = %v, want selecting", f.c.State())
	}
	f.move(250, 150, true)
	r, ok := f.c.SelectionRect()
	if !ok || r.Max != geom.V(250, 150) {
		t.Errorf("SelectionRect() = %v, %v", r, ok)
	}
	f.release(250, 150, true)
	if got := f.g.SelectedNodes(); len(got) != 2 {
		t.Errorf("SelectedNodes() = %v, want both", got)
	}
	if f.t.Pan() != (geom.Vec2{}) {
		t.Error("rectangle select should not pan")
	}
}

func TestPan(t *testing.T) {
	f := newFixture(t, DefaultSettings())
	f.press(400, 400, false)
	f.move(410, 405, false)
	f.release(410, 405, false)
	if got := f.t.Pan(); got != geom.V(10, 5) {
		t.Errorf("Pan() = %v, want (10,5)", got)
	}
	if !f.rec.has(changes.EventPan) {
		t.Errorf("events = %v", f.rec.types())
	}
}

func TestPanDisabled(t *testing.T) {
	s := DefaultSettings()
	s.Navigation.ZoomAndPan = false
	f := newFixture(t, s)
	f.press(400, 400, false)
	f.move(410, 405, false)
	f.frame(Input{Pointer: geom.V(410, 405), Wheel: 1})
	if f.t.Pan() != (geom.Vec2{}) || f.t.Zoom() != 1 {
		t.Errorf("transform changed: zoom %v pan %v", f.t.Zoom(), f.t.Pan())
	}
}

func TestWheelZoomsAtPointer(t *testing.T) {
	f := newFixture(t, DefaultSettings())
	anchor := geom.V(300, 200)
	before := f.t.ToGraph(anchor)
	f.frame(Input{Pointer: anchor, Wheel: 1})
	if math.Abs(f.t.Zoom()-1.1) > 1e-9 {
		t.Errorf("Zoom() = %v, want 1.1", f.t.Zoom())
	}
	if after := f.t.ToGraph(anchor); after.Dist(before) > 1e-9 {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
	if !f.rec.has(changes.EventZoom) {
		t.Errorf("events = %v", f.rec.types())
	}
}

func TestHover(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.frame(Input{Pointer: geom.V(101, 101)})
	if !f.node(0).Hovered || f.c.State() != StateHovering {
		t.Fatalf("hover not entered: state %v", f.c.State())
	}
	if id, ok := f.c.Target(); !ok || id != 0 {
		t.Errorf("Target() = %v, %v", id, ok)
	}
	f.frame(Input{Pointer: geom.V(200, 100)})
	if f.node(0).Hovered || !f.node(1).Hovered {
		t.Error("hover should move to the second node")
	}
	f.frame(Input{Pointer: geom.V(500, 500)})
	if f.node(1).Hovered || f.c.State() != StateIdle {
		t.Errorf("hover not left: state %v", f.c.State())
	}
	want := []changes.EventType{
		changes.EventNodeHoverEnter, changes.EventNodeHoverLeave, changes.EventNodeHoverEnter, changes.EventNodeHoverLeave,
	}
	if got := f.rec.types(); len(got) != len(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestNodeAtLastInsertedWins(t *testing.T) {
	g := graph.New()
	g.AddNodeAt(nil, geom.V(0, 0))
	top := g.AddNodeAt(nil, geom.V(2, 0))
	tr := transform.Default()
	if id, ok := NodeAt(g, tr, geom.V(1, 0)); !ok || id != top {
		t.Errorf("NodeAt() = %v, %v, want %v", id, ok, top)
	}
	if _, ok := NodeAt(g, tr, geom.V(50, 50)); ok {
		t.Error("NodeAt() hit empty space")
	}
	tr.SetZoom(10)
	if _, ok := NodeAt(g, tr, geom.V(60, 0)); !ok {
		t.Error("hit radius should scale with zoom")
	}
}

func TestRemovedDragTargetResets(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.press(200, 100, false)
	f.move(220, 100, false)
	if err := f.g.RemoveNodeCascade(1); err != nil {
		t.Fatal(err)
	}
	f.move(240, 100, false)
	if f.c.State() == StateDragging {
		t.Error("controller should leave dragging when the target disappears")
	}
}

func TestEffective(t *testing.T) {
	tests := []struct {
		name string
		in   Interaction
		want Interaction
	}{
		{"dragging", Interaction{Dragging: true}, Interaction{Dragging: true, Clicking: true, Hover: true}},
		{"node multi", Interaction{NodeMultiSelection: true},
			Interaction{NodeMultiSelection: true, NodeSelection: true, Clicking: true, Hover: true}},
		{"edge multi", Interaction{EdgeMultiSelection: true},
			Interaction{EdgeMultiSelection: true, EdgeSelection: true, EdgeClicking: true, Clicking: true, Hover: true}},
		{"edge clicking", Interaction{EdgeClicking: true}, Interaction{EdgeClicking: true, Hover: true}},
		{"nothing", Interaction{}, Interaction{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Effective(); got != tt.want {
				t.Errorf("Effective() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSetSettingsRejectsInvalid(t *testing.T) {
	c := NewController(DefaultSettings())
	bad := DefaultSettings()
	bad.Navigation.ZoomSpeed = 5
	if err := c.SetSettings(bad); err == nil {
		t.Fatal("SetSettings() should reject zoom speed above 1")
	}
	if c.Settings().Navigation.ZoomSpeed != DefaultZoomSpeed {
		t.Error("previous settings should be kept")
	}
}

// absent runs a frame with the pointer off the surface.
func (f *fixture) absent(primary bool) {
	f.c.Update(Scene{Graph: f.g, Transform: f.t}, Input{Primary: primary, Time: f.now}, f.rec)
}

func TestDragFreezesWhilePointerAbsent(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.press(100, 100, false)
	f.move(120, 100, false)

	f.absent(true)
	if got := f.node(0).Pos; got != geom.V(120, 100) {
		t.Fatalf("node at %v while pointer absent, want (120,100)", got)
	}
	if f.c.State() != StateDragging || !f.node(0).Dragged {
		t.Errorf("State() = %v, dragged = %v; drag should survive an absent frame", f.c.State(), f.node(0).Dragged)
	}

	f.move(130, 100, false)
	if got := f.node(0).Pos; got != geom.V(130, 100) {
		t.Errorf("node at %v after pointer returned, want (130,100)", got)
	}

	f.absent(false)
	if f.node(0).Dragged || f.c.State() == StateDragging {
		t.Error("release without a pointer should still end the drag")
	}
	if got := f.node(0).Pos; got != geom.V(130, 100) {
		t.Errorf("node at %v after release, want (130,100)", got)
	}
}

func TestPressWithoutPointerIgnored(t *testing.T) {
	f := newFixture(t, AllEnabled())
	origin := f.g.AddNodeAt(nil, geom.V(0, 0))

	f.absent(true)
	if f.c.State() == StateDragging {
		t.Error("press without a pointer must not start a drag")
	}
	f.absent(true)
	f.absent(false)
	if f.node(origin).Selected || f.rec.has(changes.EventNodeClick) {
		t.Errorf("events = %v, want no click", f.rec.types())
	}
	if got := f.node(origin).Pos; got != geom.V(0, 0) {
		t.Errorf("node at %v, want (0,0)", got)
	}
}

func TestMovedPressIsNotAClick(t *testing.T) {
	s := DefaultSettings()
	s.Interaction.NodeSelection = true

	f := newFixture(t, s)
	f.press(100, 100, false)
	f.move(400, 400, false)
	f.release(400, 400, false)
	if f.node(0).Selected {
		t.Error("a press that left the drag threshold should not select")
	}
	if f.rec.has(changes.EventNodeClick) || f.rec.has(changes.EventNodeSelect) {
		t.Errorf("events = %v", f.rec.types())
	}
	if got := f.node(0).Pos; got != geom.V(100, 100) {
		t.Errorf("node moved to %v with dragging disabled", got)
	}

	f.click(100, 100, false)
	if !f.node(0).Selected {
		t.Error("a click within the threshold should still select")
	}
}

func TestWheelZoomOut(t *testing.T) {
	tests := []struct {
		name  string
		wheel float64
		want  float64
	}{
		{"one notch", -1, 1 / 1.1},
		{"two notches", 2, 1.1 * 1.1},
		{"raw delta clamps", -120, transform.DefaultOptions().MinZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultSettings())
			f.frame(Input{Pointer: geom.V(300, 200), Wheel: tt.wheel})
			if got := f.t.Zoom(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Zoom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraggingAccessor(t *testing.T) {
	f := newFixture(t, AllEnabled())
	f.press(100, 100, false)
	if f.c.Dragging() {
		t.Error("Dragging() = true right after a press, want false")
	}
	f.move(120, 100, false)
	if !f.c.Dragging() {
		t.Error("Dragging() = false past the threshold, want true")
	}
	f.release(120, 100, false)
	if f.c.Dragging() {
		t.Error("Dragging() = true after release, want false")
	}
}
