package changes

import (
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// EventType names an interaction event.
type EventType string

const (
	EventPan             EventType = "pan"
	EventZoom            EventType = "zoom"
	EventNodeMove        EventType = "node_move"
	EventNodeDragStart   EventType = "node_drag_start"
	EventNodeDragEnd     EventType = "node_drag_end"
	EventNodeSelect      EventType = "node_select"
	EventNodeDeselect    EventType = "node_deselect"
	EventNodeClick       EventType = "node_click"
	EventNodeDoubleClick EventType = "node_double_click"
	EventNodeHoverEnter  EventType = "node_hover_enter"
	EventNodeHoverLeave  EventType = "node_hover_leave"
	EventEdgeClick       EventType = "edge_click"
	EventEdgeSelect      EventType = "edge_select"
	EventEdgeDeselect    EventType = "edge_deselect"
)

// Event is a user interaction reported by the controller. Only the fields
// relevant to Type are set.
type Event struct {
	Type EventType    `json:"type"`
	Node graph.NodeID `json:"node,omitempty"`
	Edge graph.EdgeID `json:"edge,omitempty"`

	// NodeMove: graph-space positions. Pan: screen-space delta.
	From  geom.Vec2 `json:"from,omitzero"`
	To    geom.Vec2 `json:"to,omitzero"`
	Delta geom.Vec2 `json:"delta,omitzero"`

	// Zoom
	Zoom float64 `json:"zoom,omitempty"`
}

// IsNode reports whether the event concerns a node.
func (e Event) IsNode() bool {
	switch e.Type {
	case EventNodeMove, EventNodeDragStart, EventNodeDragEnd, EventNodeSelect, EventNodeDeselect,
		EventNodeClick, EventNodeDoubleClick, EventNodeHoverEnter, EventNodeHoverLeave:
		return true
	}
	return false
}

// IsEdge reports whether the event concerns an edge.
func (e Event) IsEdge() bool {
	switch e.Type {
	case EventEdgeClick, EventEdgeSelect, EventEdgeDeselect:
		return true
	}
	return false
}
