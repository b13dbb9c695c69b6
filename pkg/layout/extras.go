package layout

import (
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// ExtraKind identifies an extra force.
type ExtraKind string

const (
	ExtraCenterGravity ExtraKind = "center_gravity"
	ExtraSeparation    ExtraKind = "separation"
)

// Default extra parameters.
const (
	DefaultGravity            = 0.3
	DefaultSeparationStrength = 1.0

	// separationFactor scales the sum of radii when MinDistance is 0.
	separationFactor = 2.2
)

// ExtraState is the serializable form of one extra force. Parameters that do
// not apply to Kind are ignored.
type ExtraState struct {
	Kind    ExtraKind `json:"kind" toml:"kind"`
	Enabled bool      `json:"enabled" toml:"enabled"`

	// center_gravity
	C float64 `json:"c,omitempty" toml:"c,omitempty"`

	// separation
	MinDistance float64 `json:"min_distance,omitempty" toml:"min_distance,omitempty"`
	Strength    float64 `json:"strength,omitempty" toml:"strength,omitempty"`
}

// DefaultExtra returns an enabled extra of kind with default parameters.
func DefaultExtra(kind ExtraKind) ExtraState {
	switch kind {
	case ExtraCenterGravity:
		return ExtraState{Kind: kind, Enabled: true, C: DefaultGravity}
	case ExtraSeparation:
		return ExtraState{Kind: kind, Enabled: true, Strength: DefaultSeparationStrength}
	}
	return ExtraState{Kind: kind}
}

func (e ExtraState) Validate() error {
	switch e.Kind {
	case ExtraCenterGravity:
		return errors.ValidateNonNegative("center_gravity.c", e.C)
	case ExtraSeparation:
		return errors.First(
			errors.ValidateNonNegative("separation.min_distance", e.MinDistance),
			errors.ValidateNonNegative("separation.strength", e.Strength),
		)
	}
	return errors.Configuration("unknown extra force %q", e.Kind)
}

// Extra is an additional force accumulated after the base forces.
//
// Apply adds into disp, which is indexed like nodes. k is the ideal edge
// length of the current step.
type Extra interface {
	State() ExtraState
	Apply(nodes []*graph.Node, disp []geom.Vec2, area geom.Rect, k float64)
}

// NewExtra builds the force described by s.
func NewExtra(s ExtraState) (Extra, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case ExtraCenterGravity:
		return &CenterGravity{Enabled: s.Enabled, C: s.C}, nil
	default:
		return &Separation{Enabled: s.Enabled, MinDistance: s.MinDistance, Strength: s.Strength}, nil
	}
}

// CenterGravity pulls every node toward the center of the area.
type CenterGravity struct {
	Enabled bool
	C       float64
}

func (c *CenterGravity) State() ExtraState {
	return ExtraState{Kind: ExtraCenterGravity, Enabled: c.Enabled, C: c.C}
}

func (c *CenterGravity) Apply(nodes []*graph.Node, disp []geom.Vec2, area geom.Rect, _ float64) {
	if !c.Enabled || c.C == 0 {
		return
	}
	center := area.Center()
	for i, n := range nodes {
		disp[i] = disp[i].Add(center.Sub(n.Pos).Scale(c.C))
	}
}

// Separation pushes apart pairs of nodes that sit closer than their minimum
// distance, proportionally to the overlap.
type Separation struct {
	Enabled bool
	// MinDistance is the minimum center distance; 0 derives it from the
	// node radii.
	MinDistance float64
	Strength    float64
}

func (s *Separation) State() ExtraState {
	return ExtraState{Kind: ExtraSeparation, Enabled: s.Enabled, MinDistance: s.MinDistance, Strength: s.Strength}
}

func (s *Separation) Apply(nodes []*graph.Node, disp []geom.Vec2, _ geom.Rect, k float64) {
	if !s.Enabled || s.Strength == 0 {
		return
	}
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			min := s.MinDistance
			if min == 0 {
				min = separationFactor * (nodes[i].Radius + nodes[j].Radius) / 2
			}
			delta := nodes[i].Pos.Sub(nodes[j].Pos)
			d := delta.Len()
			if min <= 0 || d >= min {
				continue
			}
			dir := delta.Normalized()
			if d == 0 {
				dir = tieBreak(nodes[i].ID, nodes[j].ID)
			}
			push := dir.Scale((min - d) * s.Strength * k / min)
			disp[i] = disp[i].Add(push)
			disp[j] = disp[j].Sub(push)
		}
	}
}
