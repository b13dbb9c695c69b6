package layout

import (
	"context"
	"time"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/observability"
)

// MaxIterations bounds every fast-forward run regardless of its mode.
const MaxIterations = 10000

// Mode selects the stop condition of a fast-forward run.
type Mode string

const (
	ModeSteps       Mode = "steps"
	ModeBudgeted    Mode = "budgeted"
	ModeUntilStable Mode = "until_stable"
)

// FastForward describes a run of several layout steps inside one frame.
type FastForward struct {
	Mode    Mode          `json:"mode"`
	Steps   int           `json:"steps"`
	Budget  time.Duration `json:"budget"`
	Epsilon float64       `json:"epsilon"`
	// Force runs the layout even if it is paused and restores the running
	// flag afterwards.
	Force bool `json:"force"`
}

// Result reports what a fast-forward run did.
type Result struct {
	Steps            int           `json:"steps"`
	MeanDisplacement float64       `json:"mean_displacement"`
	Duration         time.Duration `json:"duration"`
}

func (ff FastForward) Validate() error {
	switch ff.Mode {
	case ModeSteps:
		if ff.Steps < 1 {
			return errors.Configuration("steps must be at least 1, got %d", ff.Steps)
		}
	case ModeBudgeted:
		if ff.Budget <= 0 {
			return errors.Configuration("budget must be positive, got %v", ff.Budget)
		}
	case ModeUntilStable:
		if err := errors.ValidatePositive("epsilon", ff.Epsilon); err != nil {
			return err
		}
	default:
		return errors.Configuration("unknown fast-forward mode %q", ff.Mode)
	}
	if ff.Steps < 0 {
		return errors.Configuration("steps must not be negative, got %d", ff.Steps)
	}
	return nil
}

// runner is implemented by layouts whose running flag can be toggled.
type runner interface {
	SetRunning(bool)
}

// Run executes ff against l. Steps caps every mode when positive, and
// MaxIterations caps it always. The run stops early when ctx is done.
func Run(ctx context.Context, l Layout, g *graph.Graph, area geom.Rect, ff FastForward) (Result, error) {
	if err := ff.Validate(); err != nil {
		return Result{}, err
	}
	limit := MaxIterations
	if ff.Steps > 0 {
		limit = min(ff.Steps, MaxIterations)
	}
	if ff.Force {
		if r, ok := l.(runner); ok {
			prev := l.Running()
			r.SetRunning(true)
			defer r.SetRunning(prev)
		}
	}

	start := time.Now()
	var deadline time.Time
	if ff.Mode == ModeBudgeted {
		deadline = start.Add(ff.Budget)
	}

	var res Result
	for res.Steps < limit && l.Running() {
		if ctx.Err() != nil {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		res.MeanDisplacement = stepMeasured(l, g, area)
		res.Steps++
		if ff.Mode == ModeUntilStable && res.MeanDisplacement < ff.Epsilon {
			break
		}
	}
	res.Duration = time.Since(start)
	observability.Layout().OnFastForward(ctx, string(l.Kind()), res.Steps, res.Duration)
	return res, ctx.Err()
}

// Steps runs up to n steps and returns how many ran.
func Steps(l Layout, g *graph.Graph, area geom.Rect, n int) int {
	if n <= 0 {
		return 0
	}
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeSteps, Steps: n})
	return res.Steps
}

// Budgeted runs up to n steps or until budget has elapsed.
func Budgeted(l Layout, g *graph.Graph, area geom.Rect, n int, budget time.Duration) int {
	if n <= 0 || budget <= 0 {
		return 0
	}
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeBudgeted, Steps: n, Budget: budget})
	return res.Steps
}

// UntilStable runs until the mean per-node displacement of a step falls
// below epsilon, or maxSteps have run (MaxIterations if maxSteps is not
// positive). It returns the steps done and the
// last mean displacement.
func UntilStable(l Layout, g *graph.Graph, area geom.Rect, epsilon float64, maxSteps int) (int, float64) {
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeUntilStable, Steps: max(maxSteps, 0), Epsilon: epsilon})
	return res.Steps, res.MeanDisplacement
}

// ForceSteps is Steps with the running flag forced on for the duration.
func ForceSteps(l Layout, g *graph.Graph, area geom.Rect, n int) int {
	if n <= 0 {
		return 0
	}
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeSteps, Steps: n, Force: true})
	return res.Steps
}

// ForceBudgeted is Budgeted with the running flag forced on.
func ForceBudgeted(l Layout, g *graph.Graph, area geom.Rect, n int, budget time.Duration) int {
	if n <= 0 || budget <= 0 {
		return 0
	}
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeBudgeted, Steps: n, Budget: budget, Force: true})
	return res.Steps
}

// ForceUntilStable is UntilStable with the running flag forced on.
func ForceUntilStable(l Layout, g *graph.Graph, area geom.Rect, epsilon float64, maxSteps int) (int, float64) {
	res, _ := Run(context.Background(), l, g, area, FastForward{Mode: ModeUntilStable, Steps: max(maxSteps, 0), Epsilon: epsilon, Force: true})
	return res.Steps, res.MeanDisplacement
}

// stepMeasured runs one step and returns the mean node displacement.
func stepMeasured(l Layout, g *graph.Graph, area geom.Rect) float64 {
	nodes := g.Nodes()
	before := make([]geom.Vec2, len(nodes))
	for i, n := range nodes {
		before[i] = n.Pos
	}
	l.Step(g, area)
	if len(nodes) == 0 {
		return 0
	}
	var sum float64
	for i, n := range nodes {
		sum += n.Pos.Dist(before[i])
	}
	return sum / float64(len(nodes))
}
