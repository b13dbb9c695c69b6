// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in graphview report what they do through small hook interfaces
// instead of depending on a metrics backend. Hosts register implementations
// at startup; until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnStep("force_directed", n, energy)
//	observability.Store().OnMiss(ctx, "redis")
//
// Layout hooks run inside the frame path and carry no context; they must
// return quickly.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout algorithms.
type LayoutHooks interface {
	// OnStep records one simulation step over nodes with the resulting energy.
	OnStep(kind string, nodes int, energy float64)

	// OnConverged records that a simulation stopped itself after steps.
	OnConverged(kind string, steps int)

	// OnDegenerate records a node whose update was discarded because it
	// produced a non-finite position.
	OnDegenerate(kind string, node uint64)

	// OnFastForward records a completed fast-forward run.
	OnFastForward(ctx context.Context, kind string, steps int, duration time.Duration)
}

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameHooks receives events from the per-frame view pipeline.
type FrameHooks interface {
	// OnFrame records a completed frame.
	OnFrame(ctx context.Context, nodes, edges, changes int, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from layout-state store operations.
type StoreHooks interface {
	// OnHit records a successful lookup.
	OnHit(ctx context.Context, backend string)

	// OnMiss records a lookup of a missing or expired key.
	OnMiss(ctx context.Context, backend string)

	// OnSet records a write of size bytes.
	OnSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnStep(string, int, float64)                                {}
func (NoopLayoutHooks) OnConverged(string, int)                                    {}
func (NoopLayoutHooks) OnDegenerate(string, uint64)                                {}
func (NoopLayoutHooks) OnFastForward(context.Context, string, int, time.Duration) {}

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrame(context.Context, int, int, int, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnHit(context.Context, string)      {}
func (NoopStoreHooks) OnMiss(context.Context, string)     {}
func (NoopStoreHooks) OnSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	frameHooks  FrameHooks  = NoopFrameHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any frames run.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetFrameHooks registers custom frame hooks.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	frameHooks = NoopFrameHooks{}
	storeHooks = NoopStoreHooks{}
}
