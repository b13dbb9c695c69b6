// Package interaction turns raw pointer input into graph and viewport
// changes.
//
// A [Controller] is a small state machine driven once per frame:
//
//	idle ──press on node──▶ dragging(id) ──release──▶ idle
//	idle ──press on empty─▶ panning      ──release──▶ idle
//	idle ──modifier+press─▶ selecting    ──release──▶ idle
//	idle ◀──pointer over node──▶ hovering(id)
//
// A press on a node only becomes a drag once the pointer travels beyond the
// drag threshold; a release before that is a click. Every effect is
// reported to a [Recorder] as a [changes.Event].
package interaction

import (
	"math"
	"time"

	"github.com/matzehuels/graphview/pkg/changes"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/transform"
)

// State is the controller's current mode.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateDragging
	StatePanning
	StateSelecting
)

var stateNames = [...]string{"idle", "hovering", "dragging", "panning", "selecting"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Recorder receives interaction events.
type Recorder interface {
	Record(changes.Event)
}

// EdgePicker resolves the edge under a screen position.
type EdgePicker interface {
	EdgeAt(screen geom.Vec2, tolerance float64) (graph.EdgeID, bool)
}

// Scene is what the controller acts on during a frame. Edges may be nil,
// in which case edges are picked as straight segments.
type Scene struct {
	Graph     *graph.Graph
	Transform *transform.Transform
	Edges     EdgePicker
}

// Controller tracks pointer state across frames. It is not safe for
// concurrent use.
type Controller struct {
	settings Settings
	clock    func() time.Time

	state   State
	target  graph.NodeID // hovering or dragging
	hovered graph.NodeID
	hovers  bool

	prevPrimary bool
	pressPos    geom.Vec2
	lastPos     geom.Vec2
	moved       bool // pointer left the drag threshold since the press
	dragging    bool // the press on target became a drag

	lastClick     graph.NodeID
	lastClickAt   time.Time
	haveLastClick bool
}

// NewController creates a controller with the given settings.
func NewController(s Settings) *Controller {
	return &Controller{settings: s, clock: time.Now}
}

func (c *Controller) Settings() Settings { return c.settings }

// SetSettings replaces the settings. Invalid settings are rejected with a
// CONFIGURATION_ERROR and the previous ones are kept.
func (c *Controller) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	return nil
}

// State returns the current mode.
func (c *Controller) State() State { return c.state }

// Target returns the hovered or dragged node, if any.
func (c *Controller) Target() (graph.NodeID, bool) {
	if c.state == StateHovering || c.state == StateDragging {
		return c.target, true
	}
	return 0, false
}

// Dragging reports whether a press on a node has turned into a drag. A
// press that has not left the drag threshold is still a potential click.
func (c *Controller) Dragging() bool { return c.state == StateDragging && c.dragging }

// SelectionRect returns the rubber-band rectangle in screen space while
// selecting.
func (c *Controller) SelectionRect() (geom.Rect, bool) {
	if c.state != StateSelecting {
		return geom.Rect{}, false
	}
	return geom.R(c.pressPos, c.lastPos), true
}

// Reset returns to idle, releasing any drag and hover flags held on g.
func (c *Controller) Reset(g *graph.Graph) {
	if c.state == StateDragging && c.dragging {
		if n, ok := g.Node(c.target); ok {
			n.Dragged = false
		}
	}
	if c.hovers {
		if n, ok := g.Node(c.hovered); ok {
			n.Hovered = false
		}
	}
	*c = Controller{settings: c.settings, clock: c.clock}
}

// Update processes one frame of input.
func (c *Controller) Update(sc Scene, in Input, rec Recorder) {
	eff := c.settings.Interaction.Effective()
	g, t := sc.Graph, sc.Transform

	if c.state == StateDragging {
		if _, ok := g.Node(c.target); !ok {
			c.state = StateIdle
			c.dragging = false
		}
	}

	c.wheel(t, in, rec)

	pressed := in.Primary && !c.prevPrimary
	released := !in.Primary && c.prevPrimary
	switch {
	case pressed:
		c.press(sc, in, eff)
	case in.Primary:
		c.hold(sc, in, eff, rec)
	case released:
		c.release(sc, in, eff, rec)
	}

	if !in.Primary {
		c.hover(g, t, in, eff, rec)
	}
	c.prevPrimary = in.Primary
	if in.PointerPresent {
		c.lastPos = in.Pointer
	}
}

func (c *Controller) wheel(t *transform.Transform, in Input, rec Recorder) {
	nav := c.settings.Navigation
	if !nav.ZoomAndPan || in.Wheel == 0 || !in.PointerPresent {
		return
	}
	before := t.Zoom()
	t.ZoomAt(in.Pointer, math.Pow(1+nav.ZoomSpeed, in.Wheel))
	if t.Zoom() != before {
		rec.Record(changes.Event{Type: changes.EventZoom, Zoom: t.Zoom()})
	}
}

// press ignores a press without a pointer; the button is still tracked so
// the matching release is not mistaken for a new press.
func (c *Controller) press(sc Scene, in Input, eff Interaction) {
	if !in.PointerPresent {
		return
	}
	c.pressPos = in.Pointer
	c.lastPos = in.Pointer
	c.moved = false
	c.dragging = false

	if id, ok := NodeAt(sc.Graph, sc.Transform, in.Pointer); ok {
		c.state = StateDragging
		c.target = id
		return
	}
	if in.Modifier() && eff.NodeMultiSelection {
		c.state = StateSelecting
		return
	}
	c.state = StatePanning
}

// hold freezes drags and pans while the pointer is absent.
func (c *Controller) hold(sc Scene, in Input, eff Interaction, rec Recorder) {
	if !in.PointerPresent {
		return
	}
	if in.Pointer.Dist(c.pressPos) > c.settings.Interaction.DragThreshold {
		c.moved = true
	}

	switch c.state {
	case StateDragging:
		if !eff.Dragging || !c.moved {
			return
		}
		n, ok := sc.Graph.Node(c.target)
		if !ok {
			return
		}
		from := c.lastPos
		if !c.dragging {
			c.dragging = true
			n.Dragged = true
			from = c.pressPos
			rec.Record(changes.Event{Type: changes.EventNodeDragStart, Node: n.ID})
		}
		delta := in.Pointer.Sub(from).Div(sc.Transform.Zoom())
		if delta == (geom.Vec2{}) {
			return
		}
		old := n.Pos
		if err := sc.Graph.SetNodePosition(n.ID, old.Add(delta)); err == nil {
			rec.Record(changes.Event{Type: changes.EventNodeMove, Node: n.ID, From: old, To: n.Pos})
		}

	case StatePanning:
		if !c.settings.Navigation.ZoomAndPan {
			return
		}
		delta := in.Pointer.Sub(c.lastPos)
		if delta == (geom.Vec2{}) {
			return
		}
		sc.Transform.PanBy(delta)
		rec.Record(changes.Event{Type: changes.EventPan, Delta: delta})
	}
}

func (c *Controller) release(sc Scene, in Input, eff Interaction, rec Recorder) {
	state := c.state
	c.state = StateIdle
	g := sc.Graph
	pos := in.Pointer
	if !in.PointerPresent {
		pos = c.lastPos
	}

	switch state {
	case StateDragging:
		if c.dragging {
			c.dragging = false
			if n, ok := g.Node(c.target); ok {
				n.Dragged = false
			}
			rec.Record(changes.Event{Type: changes.EventNodeDragEnd, Node: c.target})
			return
		}
		if !c.moved && eff.clickable() {
			c.clickNode(g, c.target, in, eff, rec)
		}

	case StatePanning:
		if c.moved || !eff.clickable() {
			return
		}
		if id, ok := c.pickEdge(sc, pos); ok && (eff.EdgeClicking || eff.EdgeSelection) {
			c.clickEdge(g, id, in, eff, rec)
			return
		}
		if eff.NodeSelection {
			deselectNodes(g, rec)
		}
		if eff.EdgeSelection {
			deselectEdges(g, rec)
		}

	case StateSelecting:
		rect := geom.R(c.pressPos, pos)
		for _, n := range g.Nodes() {
			if n.Selected || !rect.Contains(sc.Transform.ToScreen(n.Pos)) {
				continue
			}
			n.Selected = true
			rec.Record(changes.Event{Type: changes.EventNodeSelect, Node: n.ID})
		}
	}
}

func (c *Controller) clickNode(g *graph.Graph, id graph.NodeID, in Input, eff Interaction, rec Recorder) {
	n, ok := g.Node(id)
	if !ok {
		return
	}
	if eff.Clicking {
		rec.Record(changes.Event{Type: changes.EventNodeClick, Node: id})
		now := in.Time
		if now.IsZero() {
			now = c.clock()
		}
		if c.haveLastClick && c.lastClick == id && now.Sub(c.lastClickAt) <= c.settings.Interaction.DoubleClickWindow {
			rec.Record(changes.Event{Type: changes.EventNodeDoubleClick, Node: id})
			c.haveLastClick = false
		} else {
			c.lastClick, c.lastClickAt, c.haveLastClick = id, now, true
		}
	}

	if !eff.NodeSelection {
		return
	}
	if n.Selected {
		n.Selected = false
		rec.Record(changes.Event{Type: changes.EventNodeDeselect, Node: id})
		return
	}
	if !(eff.NodeMultiSelection && in.Modifier()) {
		deselectNodes(g, rec)
		deselectEdges(g, rec)
	}
	n.Selected = true
	rec.Record(changes.Event{Type: changes.EventNodeSelect, Node: id})
}

func (c *Controller) clickEdge(g *graph.Graph, id graph.EdgeID, in Input, eff Interaction, rec Recorder) {
	e, ok := g.Edge(id)
	if !ok {
		return
	}
	if eff.EdgeClicking {
		rec.Record(changes.Event{Type: changes.EventEdgeClick, Edge: id})
	}
	if !eff.EdgeSelection {
		return
	}
	if e.Selected {
		e.Selected = false
		rec.Record(changes.Event{Type: changes.EventEdgeDeselect, Edge: id})
		return
	}
	if !(eff.EdgeMultiSelection && in.Modifier()) {
		deselectNodes(g, rec)
		deselectEdges(g, rec)
	}
	e.Selected = true
	rec.Record(changes.Event{Type: changes.EventEdgeSelect, Edge: id})
}

func (c *Controller) hover(g *graph.Graph, t *transform.Transform, in Input, eff Interaction, rec Recorder) {
	if !eff.Hover {
		return
	}
	id, hit := graph.NodeID(0), false
	if in.PointerPresent {
		id, hit = NodeAt(g, t, in.Pointer)
	}
	if c.hovers && (!hit || id != c.hovered) {
		if n, ok := g.Node(c.hovered); ok {
			n.Hovered = false
		}
		rec.Record(changes.Event{Type: changes.EventNodeHoverLeave, Node: c.hovered})
		c.hovers = false
	}
	if hit && !c.hovers {
		if n, ok := g.Node(id); ok {
			n.Hovered = true
		}
		rec.Record(changes.Event{Type: changes.EventNodeHoverEnter, Node: id})
		c.hovered, c.hovers = id, true
	}
	if c.state == StateIdle || c.state == StateHovering {
		c.state = StateIdle
		if c.hovers {
			c.state = StateHovering
			c.target = c.hovered
		}
	}
}

func (c *Controller) pickEdge(sc Scene, screen geom.Vec2) (graph.EdgeID, bool) {
	tol := c.settings.Interaction.EdgeTolerance
	if sc.Edges != nil {
		return sc.Edges.EdgeAt(screen, tol)
	}
	return StraightEdgeAt(sc.Graph, sc.Transform, screen, tol)
}

func deselectNodes(g *graph.Graph, rec Recorder) {
	for _, id := range g.SelectedNodes() {
		_ = g.SetNodeSelected(id, false)
		rec.Record(changes.Event{Type: changes.EventNodeDeselect, Node: id})
	}
}

func deselectEdges(g *graph.Graph, rec Recorder) {
	for _, id := range g.SelectedEdges() {
		_ = g.SetEdgeSelected(id, false)
		rec.Record(changes.Event{Type: changes.EventEdgeDeselect, Edge: id})
	}
}
