// Package layout positions graph nodes.
//
// Every algorithm implements [Layout]: a per-frame Step over the graph plus a
// serializable [State] that carries both tunable parameters and simulation
// bookkeeping. The state is the single source of truth for whether a layout
// is still running, so a host can persist it, edit it and hand it back
// without losing progress.
//
// # Algorithms
//
//   - [KindRandom]: one-shot uniform scatter of unplaced nodes.
//   - [KindHierarchical]: one-shot layered placement (tree or longest-path ranking).
//   - [KindCircular]: one-shot placement on a circle, sorted by label.
//   - [KindForceDirected]: Fruchterman-Reingold simulation with cooling and
//     convergence detection.
//   - [KindForceDirectedExtras]: the same simulation plus an ordered list of
//     extra forces such as center gravity.
//
// Layouts never move nodes whose Dragged flag is set, and never write a
// non-finite position: a node whose update would be degenerate keeps its
// last good position.
//
// # Usage
//
//	l, err := layout.New(layout.DefaultState(layout.KindForceDirected))
//	if err != nil {
//	    return err
//	}
//	for l.Running() {
//	    l.Step(g, viewport)
//	}
package layout

import (
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// Kind identifies a layout algorithm.
type Kind string

const (
	KindRandom              Kind = "random"
	KindHierarchical        Kind = "hierarchical"
	KindCircular            Kind = "circular"
	KindForceDirected       Kind = "force_directed"
	KindForceDirectedExtras Kind = "force_directed_extras"
)

// Kinds lists every supported layout kind.
var Kinds = []Kind{KindRandom, KindHierarchical, KindCircular, KindForceDirected, KindForceDirectedExtras}

// Valid reports whether k names a known algorithm.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Layout is a placement algorithm stepped once per frame.
type Layout interface {
	// Kind returns the algorithm identifier.
	Kind() Kind

	// Step advances the layout by one frame. area is the viewport rectangle
	// the host reports for the frame.
	Step(g *graph.Graph, area geom.Rect)

	// Running reports whether further steps can still move nodes.
	Running() bool

	// State returns a copy of the current parameters and bookkeeping.
	State() State

	// SetState replaces the state. Invalid parameters are rejected with a
	// CONFIGURATION_ERROR and the previous state is kept.
	SetState(State) error
}

// New creates the layout selected by s.Kind, initialized from s.
func New(s State) (Layout, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.withDefaults()
	var l Layout
	switch s.Kind {
	case KindRandom:
		l = &Random{}
	case KindHierarchical:
		l = &Hierarchical{}
	case KindCircular:
		l = &Circular{}
	case KindForceDirected:
		l = &ForceDirected{kind: KindForceDirected}
	case KindForceDirectedExtras:
		l = &ForceDirected{kind: KindForceDirectedExtras}
	}
	if err := l.SetState(s); err != nil {
		return nil, err
	}
	return l, nil
}

// MustNew is like New but panics on error. Intended for defaults and tests.
func MustNew(s State) Layout {
	l, err := New(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Restart clears the bookkeeping of l so that it runs again from its
// current parameters.
func Restart(l Layout) {
	// A reset state passes validation whenever the current one did.
	_ = l.SetState(l.State().Reset())
}

func kindMismatch(want Kind, got Kind) error {
	return errors.Configuration("state kind %q does not match layout %q", got, want)
}

// setPosition moves a node unless it is being dragged or pos is degenerate.
// It reports whether the node moved.
func setPosition(g *graph.Graph, n *graph.Node, kind Kind, pos geom.Vec2) bool {
	if n.Dragged {
		return false
	}
	if !pos.Finite() {
		degenerate(kind, n.ID)
		return false
	}
	return g.SetNodePosition(n.ID, pos) == nil
}
