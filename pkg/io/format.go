package io

// NodeData is the payload ReadJSON attaches to every node.
type NodeData struct {
	ID   string         `json:"id"`
	Meta map[string]any `json:"meta,omitempty"`
}

// EdgeData is the payload ReadJSON attaches to every edge.
type EdgeData struct {
	Meta map[string]any `json:"meta,omitempty"`
}

type document struct {
	Directed *bool  `json:"directed,omitempty"`
	Nodes    []node `json:"nodes"`
	Edges    []edge `json:"edges"`
}

type node struct {
	ID     string         `json:"id"`
	Label  string         `json:"label,omitempty"`
	X      *float64       `json:"x,omitempty"`
	Y      *float64       `json:"y,omitempty"`
	Color  string         `json:"color,omitempty"`
	Radius float64        `json:"radius,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type edge struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Label string         `json:"label,omitempty"`
	Color string         `json:"color,omitempty"`
	Width float64        `json:"width,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}
