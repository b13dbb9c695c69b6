package layout

import (
	"math"

	"github.com/matzehuels/graphview/pkg/errors"
)

// State is the serializable state of a layout. Kind selects the variant;
// only the section belonging to that variant is meaningful.
type State struct {
	Kind         Kind               `json:"kind" toml:"kind"`
	Random       *RandomState       `json:"random,omitempty" toml:"random,omitempty"`
	Hierarchical *HierarchicalState `json:"hierarchical,omitempty" toml:"hierarchical,omitempty"`
	Circular     *CircularState     `json:"circular,omitempty" toml:"circular,omitempty"`
	Force        *ForceState        `json:"force,omitempty" toml:"force,omitempty"`
	Extras       []ExtraState       `json:"extras" toml:"extras"`
}

// RandomState configures the random scatter.
type RandomState struct {
	Seed      uint64  `json:"seed" toml:"seed"`
	Spread    float64 `json:"spread" toml:"spread"`
	Relayout  bool    `json:"relayout" toml:"relayout"`
	Triggered bool    `json:"triggered" toml:"triggered"`
}

// Orientation is the growth direction of a hierarchical layout.
type Orientation string

const (
	TopDown   Orientation = "top_down"
	LeftRight Orientation = "left_right"
)

// Ranking selects how hierarchical levels are assigned.
type Ranking string

const (
	// RankTree assigns levels by depth-first traversal from the roots.
	RankTree Ranking = "tree"
	// RankLongestPath assigns levels by longest path over the condensation.
	RankLongestPath Ranking = "longest_path"
)

// HierarchicalState configures the layered layout.
type HierarchicalState struct {
	RowDist      float64     `json:"row_dist" toml:"row_dist"`
	ColDist      float64     `json:"col_dist" toml:"col_dist"`
	CenterParent bool        `json:"center_parent" toml:"center_parent"`
	Orientation  Orientation `json:"orientation" toml:"orientation"`
	Ranking      Ranking     `json:"ranking" toml:"ranking"`
	Triggered    bool        `json:"triggered" toml:"triggered"`
}

// SortOrder orders nodes around a circular layout.
type SortOrder string

const (
	SortAlphabetical SortOrder = "alphabetical"
	SortReverse      SortOrder = "reverse"
	SortNone         SortOrder = "none"
)

// CircularState configures the circular layout.
type CircularState struct {
	Sort          SortOrder `json:"sort" toml:"sort"`
	FixedRadius   float64   `json:"fixed_radius" toml:"fixed_radius"`
	BaseRadius    float64   `json:"base_radius" toml:"base_radius"`
	RadiusPerNode float64   `json:"radius_per_node" toml:"radius_per_node"`
	Triggered     bool      `json:"triggered" toml:"triggered"`
}

// ForceState holds Fruchterman-Reingold parameters and bookkeeping.
type ForceState struct {
	Running bool `json:"running" toml:"running"`

	DT              float64 `json:"dt" toml:"dt"`
	Epsilon         float64 `json:"epsilon" toml:"epsilon"`
	Damping         float64 `json:"damping" toml:"damping"`
	MaxStep         float64 `json:"max_step" toml:"max_step"`
	KScale          float64 `json:"k_scale" toml:"k_scale"`
	CAttract        float64 `json:"c_attract" toml:"c_attract"`
	CRepulse        float64 `json:"c_repulse" toml:"c_repulse"`
	Cooling         float64 `json:"cooling" toml:"cooling"`
	MinStep         float64 `json:"min_step" toml:"min_step"`
	EnergyThreshold float64 `json:"energy_threshold" toml:"energy_threshold"`
	StableSteps     int     `json:"stable_steps" toml:"stable_steps"`

	// Bookkeeping
	Temperature float64 `json:"temperature" toml:"temperature"`
	Energy      float64 `json:"energy" toml:"energy"`
	StepCount   int     `json:"step_count" toml:"step_count"`
	StableCount int     `json:"stable_count" toml:"stable_count"`
}

// Defaults for each variant.
const (
	DefaultSpread = 250.0

	DefaultRowDist = 50.0
	DefaultColDist = 50.0

	DefaultBaseRadius    = 50.0
	DefaultRadiusPerNode = 5.0
)

// DefaultRandom returns the default random scatter state.
func DefaultRandom() RandomState {
	return RandomState{Spread: DefaultSpread}
}

// DefaultHierarchical returns the default layered layout state.
func DefaultHierarchical() HierarchicalState {
	return HierarchicalState{
		RowDist:     DefaultRowDist,
		ColDist:     DefaultColDist,
		Orientation: TopDown,
		Ranking:     RankTree,
	}
}

// DefaultCircular returns the default circular layout state.
func DefaultCircular() CircularState {
	return CircularState{
		Sort:          SortAlphabetical,
		BaseRadius:    DefaultBaseRadius,
		RadiusPerNode: DefaultRadiusPerNode,
	}
}

// DefaultForce returns the default Fruchterman-Reingold state.
func DefaultForce() ForceState {
	return ForceState{
		Running:         true,
		DT:              0.05,
		Epsilon:         1e-3,
		Damping:         0.3,
		MaxStep:         10,
		KScale:          1,
		CAttract:        1,
		CRepulse:        1,
		Cooling:         1,
		MinStep:         0.5,
		EnergyThreshold: 1e-4,
		StableSteps:     10,
		Temperature:     10,
	}
}

// DefaultState returns the default state for kind. Unknown kinds yield a
// state that fails validation.
func DefaultState(kind Kind) State {
	s := State{Kind: kind}
	switch kind {
	case KindRandom:
		r := DefaultRandom()
		s.Random = &r
	case KindHierarchical:
		h := DefaultHierarchical()
		s.Hierarchical = &h
	case KindCircular:
		c := DefaultCircular()
		s.Circular = &c
	case KindForceDirected:
		f := DefaultForce()
		s.Force = &f
	case KindForceDirectedExtras:
		f := DefaultForce()
		s.Force = &f
		s.Extras = []ExtraState{DefaultExtra(ExtraCenterGravity)}
	}
	return s
}

// withDefaults fills a missing section of the selected variant.
func (s State) withDefaults() State {
	d := DefaultState(s.Kind)
	if s.Random == nil {
		s.Random = d.Random
	}
	if s.Hierarchical == nil {
		s.Hierarchical = d.Hierarchical
	}
	if s.Circular == nil {
		s.Circular = d.Circular
	}
	if s.Force == nil {
		s.Force = d.Force
	}
	return s
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Kind: s.Kind}
	if s.Random != nil {
		r := *s.Random
		out.Random = &r
	}
	if s.Hierarchical != nil {
		h := *s.Hierarchical
		out.Hierarchical = &h
	}
	if s.Circular != nil {
		c := *s.Circular
		out.Circular = &c
	}
	if s.Force != nil {
		f := *s.Force
		out.Force = &f
	}
	if s.Extras != nil {
		out.Extras = append([]ExtraState{}, s.Extras...)
	}
	return out
}

// Reset returns a copy of s with bookkeeping cleared, so that one-shot
// layouts trigger again and simulations run from a fresh temperature.
func (s State) Reset() State {
	s = s.Clone()
	if s.Random != nil {
		s.Random.Triggered = false
	}
	if s.Hierarchical != nil {
		s.Hierarchical.Triggered = false
	}
	if s.Circular != nil {
		s.Circular.Triggered = false
	}
	if s.Force != nil {
		s.Force.restart()
	}
	return s
}

// Validate checks the kind and the parameters of the selected variant.
func (s State) Validate() error {
	if !s.Kind.Valid() {
		return errors.Configuration("unknown layout kind %q", s.Kind)
	}
	s = s.withDefaults()
	switch s.Kind {
	case KindRandom:
		return s.Random.Validate()
	case KindHierarchical:
		return s.Hierarchical.Validate()
	case KindCircular:
		return s.Circular.Validate()
	case KindForceDirected:
		return s.Force.Validate()
	default:
		if err := s.Force.Validate(); err != nil {
			return err
		}
		for _, e := range s.Extras {
			if err := e.Validate(); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *RandomState) Validate() error {
	return errors.ValidatePositive("spread", r.Spread)
}

func (h *HierarchicalState) Validate() error {
	return errors.First(
		errors.ValidatePositive("row_dist", h.RowDist),
		errors.ValidatePositive("col_dist", h.ColDist),
		errors.ValidateOneOf("orientation", string(h.Orientation), string(TopDown), string(LeftRight)),
		errors.ValidateOneOf("ranking", string(h.Ranking), string(RankTree), string(RankLongestPath)),
	)
}

func (c *CircularState) Validate() error {
	return errors.First(
		errors.ValidateOneOf("sort", string(c.Sort), string(SortAlphabetical), string(SortReverse), string(SortNone)),
		errors.ValidateNonNegative("fixed_radius", c.FixedRadius),
		errors.ValidateNonNegative("base_radius", c.BaseRadius),
		errors.ValidateNonNegative("radius_per_node", c.RadiusPerNode),
	)
}

func (f *ForceState) Validate() error {
	if err := errors.First(
		errors.ValidatePositive("dt", f.DT),
		errors.ValidatePositive("epsilon", f.Epsilon),
		errors.ValidateRange("damping", f.Damping, 0, 1),
		errors.ValidatePositive("max_step", f.MaxStep),
		errors.ValidatePositive("k_scale", f.KScale),
		errors.ValidateNonNegative("c_attract", f.CAttract),
		errors.ValidateNonNegative("c_repulse", f.CRepulse),
		errors.ValidateRange("cooling", f.Cooling, math.SmallestNonzeroFloat64, 1),
		errors.ValidateNonNegative("min_step", f.MinStep),
		errors.ValidateNonNegative("energy_threshold", f.EnergyThreshold),
		errors.ValidateNonNegative("temperature", f.Temperature),
		errors.ValidateNonNegative("energy", f.Energy),
	); err != nil {
		return err
	}
	if f.MinStep > f.MaxStep {
		return errors.Configuration("min_step %v exceeds max_step %v", f.MinStep, f.MaxStep)
	}
	if f.StableSteps < 1 {
		return errors.Configuration("stable_steps must be at least 1, got %d", f.StableSteps)
	}
	if f.StepCount < 0 || f.StableCount < 0 {
		return errors.Configuration("step counters must not be negative")
	}
	return nil
}

func (f *ForceState) restart() {
	f.Running = true
	f.Temperature = f.MaxStep
	f.Energy = 0
	f.StepCount = 0
	f.StableCount = 0
}
