package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
)

// Random scatters nodes uniformly within [0, Spread)² once.
//
// The same seed and graph always produce the same positions.
type Random struct {
	state RandomState
}

func (r *Random) Kind() Kind    { return KindRandom }
func (r *Random) Running() bool { return !r.state.Triggered }

func (r *Random) State() State {
	rs := r.state
	return State{Kind: KindRandom, Random: &rs}
}

func (r *Random) SetState(s State) error {
	if s.Kind != KindRandom {
		return kindMismatch(KindRandom, s.Kind)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	r.state = *s.withDefaults().Random
	return nil
}

// Step places unplaced nodes, or every free node when Relayout is set.
func (r *Random) Step(g *graph.Graph, _ geom.Rect) {
	if r.state.Triggered {
		return
	}
	seed := r.state.Seed
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	for _, n := range g.Nodes() {
		if n.Placed() && !r.state.Relayout {
			continue
		}
		pos := geom.V(rng.Float64()*r.state.Spread, rng.Float64()*r.state.Spread)
		setPosition(g, n, KindRandom, pos)
	}
	r.state.Triggered = true
}
