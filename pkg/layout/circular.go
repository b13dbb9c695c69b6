package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// Circular places nodes evenly on a circle around the area center, starting
// at the top and going clockwise in screen coordinates.
type Circular struct {
	state CircularState
}

func (c *Circular) Kind() Kind    { return KindCircular }
func (c *Circular) Running() bool { return !c.state.Triggered }

func (c *Circular) State() State {
	cs := c.state
	return State{Kind: KindCircular, Circular: &cs}
}

func (c *Circular) SetState(s State) error {
	if s.Kind != KindCircular {
		return kindMismatch(KindCircular, s.Kind)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.state = *s.withDefaults().Circular
	return nil
}

// Radius returns the circle radius used for n nodes.
func (c *Circular) Radius(n int) float64 {
	if c.state.FixedRadius > 0 {
		return c.state.FixedRadius
	}
	return c.state.BaseRadius + c.state.RadiusPerNode*float64(n)
}

func (c *Circular) Step(g *graph.Graph, area geom.Rect) {
	if c.state.Triggered {
		return
	}
	nodes := g.Nodes()
	switch c.state.Sort {
	case SortAlphabetical:
		slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
			return cmp.Compare(a.DisplayLabel(), b.DisplayLabel())
		})
	case SortReverse:
		slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
			return cmp.Compare(b.DisplayLabel(), a.DisplayLabel())
		})
	}

	center := area.Center()
	if !center.Finite() {
		center = geom.Vec2{}
	}
	radius := c.Radius(len(nodes))
	step := 2 * math.Pi / float64(max(len(nodes), 1))
	for i, n := range nodes {
		angle := -math.Pi/2 + float64(i)*step
		pos := center.Add(geom.V(math.Cos(angle), math.Sin(angle)).Scale(radius))
		setPosition(g, n, KindCircular, pos)
	}
	c.state.Triggered = true
}
