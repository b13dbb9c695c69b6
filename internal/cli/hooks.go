package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphview/pkg/observability"
)

// layoutLogger reports layout events to the debug log.
type layoutLogger struct {
	observability.NoopLayoutHooks
	logger *log.Logger
}

func (h layoutLogger) OnConverged(kind string, steps int) {
	h.logger.Debug("layout converged", "kind", kind, "steps", steps)
}

func (h layoutLogger) OnDegenerate(kind string, node uint64) {
	h.logger.Debug("discarded degenerate layout step", "kind", kind, "node", node)
}

func (h layoutLogger) OnFastForward(_ context.Context, kind string, steps int, d time.Duration) {
	h.logger.Debug("fast-forward finished", "kind", kind, "steps", steps, "elapsed", d)
}
