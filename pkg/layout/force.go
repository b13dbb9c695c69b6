package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/observability"
)

// ForceDirected is a Fruchterman-Reingold simulation. With kind
// KindForceDirectedExtras it also applies an ordered list of extras.
type ForceDirected struct {
	kind   Kind
	state  ForceState
	extras []Extra
}

// NewForceDirected creates a plain simulation with default parameters.
func NewForceDirected() *ForceDirected {
	return MustNew(DefaultState(KindForceDirected)).(*ForceDirected)
}

// NewForceDirectedExtras creates a simulation with the given extras applied
// in order.
func NewForceDirectedExtras(extras ...ExtraState) (*ForceDirected, error) {
	s := DefaultState(KindForceDirectedExtras)
	s.Extras = extras
	l, err := New(s)
	if err != nil {
		return nil, err
	}
	return l.(*ForceDirected), nil
}

func (f *ForceDirected) Kind() Kind    { return f.kind }
func (f *ForceDirected) Running() bool { return f.state.Running }

// Converged reports whether the simulation stopped itself because the
// energy stayed below the threshold.
func (f *ForceDirected) Converged() bool {
	return !f.state.Running && f.state.StableCount >= f.state.StableSteps
}

// SetRunning pauses or resumes the simulation without touching bookkeeping.
func (f *ForceDirected) SetRunning(running bool) {
	f.state.Running = running
	if running && f.state.StableCount >= f.state.StableSteps {
		f.state.StableCount = 0
	}
}

// Restart clears the energy bookkeeping, restores the full temperature and
// resumes the simulation.
func (f *ForceDirected) Restart() { f.state.restart() }

// Extras returns the configured extras in application order.
func (f *ForceDirected) Extras() []Extra { return append([]Extra(nil), f.extras...) }

func (f *ForceDirected) State() State {
	fs := f.state
	s := State{Kind: f.kind, Force: &fs}
	if f.kind == KindForceDirectedExtras {
		s.Extras = make([]ExtraState, 0, len(f.extras))
		for _, e := range f.extras {
			s.Extras = append(s.Extras, e.State())
		}
	}
	return s
}

func (f *ForceDirected) SetState(s State) error {
	if s.Kind != f.kind {
		return kindMismatch(f.kind, s.Kind)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.withDefaults()

	var extras []Extra
	if f.kind == KindForceDirectedExtras {
		for _, es := range s.Extras {
			e, err := NewExtra(es)
			if err != nil {
				return err
			}
			extras = append(extras, e)
		}
	}

	fs := *s.Force
	if fs.Temperature == 0 || fs.Temperature > fs.MaxStep {
		fs.Temperature = fs.MaxStep
	}
	f.state = fs
	f.extras = extras
	return nil
}

// Step runs one simulation step. It is a no-op while not running.
func (f *ForceDirected) Step(g *graph.Graph, area geom.Rect) {
	s := &f.state
	if !s.Running || g.NodeCount() == 0 {
		return
	}
	nodes := g.Nodes()
	scatterUnplaced(g, nodes, area, f.kind)

	n := len(nodes)
	k := math.Sqrt(math.Max(area.Area(), 1)/float64(n)) * s.KScale
	if !geom.IsFinite(k) || k <= 0 {
		return
	}

	disp := make([]geom.Vec2, n)
	f.repulse(nodes, disp, k)
	f.attract(g, nodes, disp, k)
	for _, e := range f.extras {
		e.Apply(nodes, disp, area, k)
	}
	f.apply(g, nodes, disp)
}

// repulse accumulates k²/d between every unordered pair.
func (f *ForceDirected) repulse(nodes []*graph.Node, disp []geom.Vec2, k float64) {
	c := f.state.CRepulse * k * k
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			delta := nodes[i].Pos.Sub(nodes[j].Pos)
			dist := delta.Len()
			d := math.Max(dist, f.state.Epsilon)
			dir := delta.Div(d)
			if dist == 0 {
				dir = tieBreak(nodes[i].ID, nodes[j].ID)
			}
			force := dir.Scale(c / d)
			disp[i] = disp[i].Add(force)
			disp[j] = disp[j].Sub(force)
		}
	}
}

// tieBreak returns a unit direction for pushing a apart from b when the two
// coincide. The direction depends only on the ids.
func tieBreak(a, b graph.NodeID) geom.Vec2 {
	rng := rand.New(rand.NewPCG(uint64(a), uint64(b)))
	angle := rng.Float64() * 2 * math.Pi
	return geom.V(math.Cos(angle), math.Sin(angle))
}

// attract accumulates d²/k toward every neighbor, ignoring edge direction.
func (f *ForceDirected) attract(g *graph.Graph, nodes []*graph.Node, disp []geom.Vec2, k float64) {
	index := make(map[graph.NodeID]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	for i, n := range nodes {
		for _, eid := range g.IncidentEdges(n.ID) {
			e, _ := g.Edge(eid)
			if e.IsLoop() {
				continue
			}
			other := nodes[index[e.Other(n.ID)]]
			delta := other.Pos.Sub(n.Pos)
			d := math.Max(delta.Len(), f.state.Epsilon)
			disp[i] = disp[i].Add(delta.Div(d).Scale(f.state.CAttract * d * d / k))
		}
	}
}

// apply moves every free node by its damped, capped displacement and
// updates the convergence bookkeeping.
func (f *ForceDirected) apply(g *graph.Graph, nodes []*graph.Node, disp []geom.Vec2) {
	s := &f.state
	var sum float64
	moved := 0
	for i, n := range nodes {
		if n.Dragged {
			continue
		}
		d := disp[i]
		if !d.Finite() {
			degenerate(f.kind, n.ID)
			continue
		}
		step := d.Scale(s.DT * s.Damping).ClampLen(s.Temperature)
		if !setPosition(g, n, f.kind, n.Pos.Add(step)) {
			continue
		}
		sum += step.LenSq()
		moved++
	}

	s.StepCount++
	if moved > 0 {
		s.Energy = sum / float64(moved)
		if s.Energy < s.EnergyThreshold {
			s.StableCount++
		} else {
			s.StableCount = 0
		}
	}
	s.Temperature = math.Min(math.Max(s.Temperature*s.Cooling, s.MinStep), s.MaxStep)

	hooks := observability.Layout()
	hooks.OnStep(string(f.kind), moved, s.Energy)
	if s.StableCount >= s.StableSteps {
		s.Running = false
		hooks.OnConverged(string(f.kind), s.StepCount)
	}
}

// scatterUnplaced gives nodes that were never positioned a deterministic
// spot near the area center so they do not start out coincident.
func scatterUnplaced(g *graph.Graph, nodes []*graph.Node, area geom.Rect, kind Kind) {
	center := area.Center()
	if !center.Finite() {
		center = geom.Vec2{}
	}
	spread := math.Min(math.Max(math.Min(area.Width(), area.Height()), 1), DefaultSpread)
	for _, n := range nodes {
		if n.Placed() || n.Dragged {
			continue
		}
		seed := uint64(n.ID)
		rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
		offset := geom.V(rng.Float64()-0.5, rng.Float64()-0.5).Scale(spread)
		setPosition(g, n, kind, center.Add(offset))
	}
}

func degenerate(kind Kind, id graph.NodeID) {
	observability.Layout().OnDegenerate(string(kind), uint64(id))
}
