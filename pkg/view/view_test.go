package view

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/graphview/pkg/changes"
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/interaction"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/observability"
	"github.com/matzehuels/graphview/pkg/store"
)

var viewport = geom.FromSize(800, 600)

func twoNodes(t *testing.T, a, b geom.Vec2) (*graph.Graph, graph.NodeID, graph.NodeID) {
	t.Helper()
	g := graph.New()
	x := g.AddNodeAt(nil, a)
	y := g.AddNodeAt(nil, b)
	if _, err := g.AddEdge(x, y, nil); err != nil {
		t.Fatal(err)
	}
	return g, x, y
}

func mustView(t *testing.T, g *graph.Graph, opts ...Option) *GraphView {
	t.Helper()
	v, err := New(g, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func at(p geom.Vec2, primary bool) interaction.Input {
	return interaction.Input{Pointer: p, PointerPresent: true, Primary: primary}
}

func hasChange(cs []changes.Change, kind changes.Kind, id graph.NodeID) bool {
	for _, c := range cs {
		if c.Kind == kind && !c.IsEdge && c.Node == id {
			return true
		}
	}
	return false
}

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}

	g := graph.New()
	bad := interaction.DefaultSettings()
	bad.Navigation.ZoomSpeed = 5
	if _, err := New(g, WithSettings(bad)); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("invalid settings: err = %v", err)
	}
	if _, err := New(g, WithLayoutState(layout.State{Kind: "spiral"})); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("invalid layout: err = %v", err)
	}
}

func TestFramePlacesUnplacedNodes(t *testing.T) {
	g := graph.New()
	a := g.AddNode(nil)
	b := g.AddNode(nil)
	v := mustView(t, g)

	f := v.Frame(context.Background(), interaction.Input{}, viewport)
	if len(f.Nodes) != 2 {
		t.Fatalf("frame has %d nodes", len(f.Nodes))
	}
	for _, id := range []graph.NodeID{a, b} {
		n, _ := g.Node(id)
		if !n.Placed() {
			t.Errorf("node %d not placed", id)
		}
	}
	if v.Layout().Running() {
		t.Error("random layout should stop after placing")
	}
}

func TestFrameDragReportsChanges(t *testing.T) {
	g, a, _ := twoNodes(t, geom.V(100, 100), geom.V(300, 100))
	v := mustView(t, g, WithSettings(interaction.AllEnabled()))
	ctx := context.Background()

	v.Frame(ctx, at(geom.V(100, 100), true), viewport)
	v.Frame(ctx, at(geom.V(150, 120), true), viewport)
	if v.InteractionState() != interaction.StateDragging {
		t.Fatalf("state = %s, want dragging", v.InteractionState())
	}
	v.Frame(ctx, at(geom.V(150, 120), false), viewport)

	n, _ := g.Node(a)
	if n.Pos != geom.V(150, 120) {
		t.Errorf("dragged node at %v, want (150,120)", n.Pos)
	}
	if n.Dragged {
		t.Error("drag flag not cleared on release")
	}

	cs := v.DrainChanges()
	if !hasChange(cs, changes.KindLocation, a) || !hasChange(cs, changes.KindDragged, a) {
		t.Errorf("changes = %+v", cs)
	}
	if more := v.DrainChanges(); len(more) != 0 {
		t.Errorf("second drain returned %d changes", len(more))
	}

	var types []changes.EventType
	for _, ev := range v.DrainEvents() {
		types = append(types, ev.Type)
	}
	want := map[changes.EventType]bool{changes.EventNodeDragStart: false, changes.EventNodeMove: false, changes.EventNodeDragEnd: false}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("missing event %s in %v", typ, types)
		}
	}
}

func TestFrameClickSelects(t *testing.T) {
	g, a, _ := twoNodes(t, geom.V(100, 100), geom.V(300, 100))
	v := mustView(t, g, WithSettings(interaction.AllEnabled()))

	var seen [][]changes.Change
	v.OnChange(func(cs []changes.Change) { seen = append(seen, cs) })

	ctx := context.Background()
	v.Frame(ctx, at(geom.V(100, 100), true), viewport)
	v.Frame(ctx, at(geom.V(100, 100), false), viewport)

	n, _ := g.Node(a)
	if !n.Selected {
		t.Fatal("click did not select the node")
	}
	cs := v.DrainChanges()
	if !hasChange(cs, changes.KindClicked, a) || !hasChange(cs, changes.KindSelected, a) {
		t.Errorf("changes = %+v", cs)
	}
	if len(seen) != 1 {
		t.Errorf("OnChange called %d times, want 1", len(seen))
	}
}

func TestDragWakesConvergedForce(t *testing.T) {
	g, a, _ := twoNodes(t, geom.V(390, 300), geom.V(410, 300))
	v := mustView(t, g,
		WithLayoutState(layout.DefaultState(layout.KindForceDirected)),
		WithSettings(interaction.AllEnabled()))
	ctx := context.Background()
	v.Frame(ctx, interaction.Input{}, viewport)

	if _, err := v.FastForward(ctx, layout.FastForward{Mode: layout.ModeSteps, Steps: layout.MaxIterations}); err != nil {
		t.Fatal(err)
	}
	if v.Layout().Running() {
		t.Fatal("layout did not converge")
	}

	n, _ := g.Node(a)
	p := v.Transform().ToScreen(n.Pos)
	v.Frame(ctx, at(p, true), viewport)
	v.Frame(ctx, at(p, false), viewport)
	if v.Layout().Running() {
		t.Error("a click without a drag should leave a converged layout stopped")
	}

	v.Frame(ctx, at(p, true), viewport)
	v.Frame(ctx, at(p.Add(geom.V(40, 0)), true), viewport)
	if !v.Layout().Running() {
		t.Error("dragging a node should restart a converged force layout")
	}
}

func TestSetLayout(t *testing.T) {
	g, _, _ := twoNodes(t, geom.V(0, 0), geom.V(10, 0))
	v := mustView(t, g)

	if err := v.SetLayout(layout.DefaultState(layout.KindCircular)); err != nil {
		t.Fatal(err)
	}
	if v.Layout().Kind() != layout.KindCircular {
		t.Errorf("kind = %s", v.Layout().Kind())
	}
	if err := v.SetLayout(layout.State{Kind: "spiral"}); err == nil {
		t.Error("SetLayout accepted an unknown kind")
	}
	if v.Layout().Kind() != layout.KindCircular {
		t.Error("failed SetLayout replaced the layout")
	}
	if err := v.SetLayoutState(layout.DefaultState(layout.KindRandom)); err == nil {
		t.Error("SetLayoutState accepted a different kind")
	}

	s := v.LayoutState()
	s.Circular.FixedRadius = 120
	if err := v.SetLayoutState(s); err != nil {
		t.Fatal(err)
	}
	if got := v.LayoutState().Circular.FixedRadius; got != 120 {
		t.Errorf("FixedRadius = %v, want 120", got)
	}
}

func TestResetLayout(t *testing.T) {
	g, _, _ := twoNodes(t, geom.V(0, 0), geom.V(10, 0))
	v := mustView(t, g, WithLayoutState(layout.DefaultState(layout.KindCircular)))
	v.Frame(context.Background(), interaction.Input{}, viewport)
	if v.Layout().Running() {
		t.Fatal("circular layout should stop after one frame")
	}
	v.ResetLayout()
	if !v.Layout().Running() {
		t.Error("ResetLayout should rearm the layout")
	}
}

func TestSaveLoadState(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	state := layout.DefaultState(layout.KindCircular)
	state.Circular.FixedRadius = 42
	g, _, _ := twoNodes(t, geom.V(0, 0), geom.V(10, 0))
	v := mustView(t, g, WithID("main"), WithStore(st), WithLayoutState(state))
	if err := v.SaveState(ctx); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	w := mustView(t, g, WithID("main"), WithStore(st))
	if err := w.LoadState(ctx); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if w.Layout().Kind() != layout.KindCircular || w.LayoutState().Circular.FixedRadius != 42 {
		t.Errorf("loaded state = %+v", w.LayoutState())
	}

	other := mustView(t, g, WithID("other"), WithStore(st))
	if err := other.LoadState(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadState without entry: err = %v, want NOT_FOUND", err)
	}

	if err := w.DeleteState(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.LoadState(ctx); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadState after delete: err = %v", err)
	}
}

func TestDefaultIDs(t *testing.T) {
	g := graph.New()
	a, b := mustView(t, g), mustView(t, g)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q and %q should be distinct and non-empty", a.ID(), b.ID())
	}
	if a.StateKey() != store.StateKey(a.ID()) {
		t.Errorf("StateKey = %q", a.StateKey())
	}
}

func TestFitToScreen(t *testing.T) {
	g, _, _ := twoNodes(t, geom.V(-2000, 0), geom.V(2000, 500))
	s := interaction.DefaultSettings()
	s.Navigation.FitToScreen = true
	v := mustView(t, g, WithSettings(s))

	f := v.Frame(context.Background(), interaction.Input{}, viewport)
	for _, n := range f.Nodes {
		if !viewport.Contains(n.Center) {
			t.Errorf("node %d at %v outside viewport", n.ID, n.Center)
		}
	}

	v2 := mustView(t, g)
	v2.Fit(viewport)
	if z := v2.Transform().Zoom(); z >= 1 {
		t.Errorf("Fit zoom = %v, want < 1", z)
	}
}

type frameCounter struct {
	frames atomic.Int32
}

func (c *frameCounter) OnFrame(context.Context, int, int, int, time.Duration) { c.frames.Add(1) }

func TestFrameHooks(t *testing.T) {
	hooks := &frameCounter{}
	observability.SetFrameHooks(hooks)
	defer observability.Reset()

	g, _, _ := twoNodes(t, geom.V(0, 0), geom.V(10, 0))
	v := mustView(t, g)
	for i := 0; i < 3; i++ {
		v.Frame(context.Background(), interaction.Input{}, viewport)
	}
	if got := hooks.frames.Load(); got != 3 {
		t.Errorf("OnFrame called %d times, want 3", got)
	}
}

func TestSetGraph(t *testing.T) {
	g, _, _ := twoNodes(t, geom.V(0, 0), geom.V(10, 0))
	v := mustView(t, g, WithLayoutState(layout.DefaultState(layout.KindCircular)))
	v.Frame(context.Background(), interaction.Input{}, viewport)

	next := graph.New()
	next.AddNode(nil)
	if err := v.SetGraph(next); err != nil {
		t.Fatal(err)
	}
	if v.Graph() != next {
		t.Error("graph not replaced")
	}
	if !v.Layout().Running() {
		t.Error("SetGraph should restart the layout")
	}
	if err := v.SetGraph(nil); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("SetGraph(nil) err = %v", err)
	}
}
