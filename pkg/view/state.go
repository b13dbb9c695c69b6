package view

import (
	"context"
	"time"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/store"
)

// Layout returns the active layout.
func (v *GraphView) Layout() layout.Layout { return v.layout }

// LayoutState returns a copy of the active layout state.
func (v *GraphView) LayoutState() layout.State { return v.layout.State() }

// SetLayoutState replaces the parameters of the active layout. The kind must
// match; use SetLayout to switch algorithms.
func (v *GraphView) SetLayoutState(s layout.State) error {
	return v.layout.SetState(s)
}

// SetLayout switches to the algorithm selected by s.Kind. On error the
// active layout is kept.
func (v *GraphView) SetLayout(s layout.State) error {
	l, err := layout.New(s)
	if err != nil {
		return err
	}
	prev := v.layout.Kind()
	v.layout = l
	v.logger.Info("layout switched", "from", prev, "to", l.Kind())
	return nil
}

// ResetLayout restarts the active layout from its current parameters.
func (v *GraphView) ResetLayout() {
	layout.Restart(v.layout)
}

// FastForward runs the layout headlessly over the last viewport.
func (v *GraphView) FastForward(ctx context.Context, ff layout.FastForward) (layout.Result, error) {
	res, err := layout.Run(ctx, v.layout, v.g, v.viewport, ff)
	v.logger.Debug("fast-forward",
		"kind", v.layout.Kind(), "mode", ff.Mode, "steps", res.Steps,
		"mean", res.MeanDisplacement, "elapsed", res.Duration.Round(time.Millisecond))
	return res, err
}

// StateKey returns the store key of this view's layout state.
func (v *GraphView) StateKey() string { return store.StateKey(v.id) }

// SaveState writes the layout state to the view's store.
func (v *GraphView) SaveState(ctx context.Context) error {
	data, err := layout.EncodeJSON(v.layout.State())
	if err != nil {
		return err
	}
	if err := v.store.Set(ctx, v.StateKey(), data, 0); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save layout state %s", v.id)
	}
	v.logger.Debug("layout state saved", "key", v.StateKey(), "bytes", len(data))
	return nil
}

// LoadState restores the layout state from the view's store, switching
// algorithm if the stored kind differs. A missing entry is NOT_FOUND.
func (v *GraphView) LoadState(ctx context.Context) error {
	data, ok, err := v.store.Get(ctx, v.StateKey())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load layout state %s", v.id)
	}
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no stored layout state for view %s", v.id)
	}
	s, err := layout.DecodeJSON(data)
	if err != nil {
		return err
	}
	if s.Kind != v.layout.Kind() {
		return v.SetLayout(s)
	}
	return v.layout.SetState(s)
}

// DeleteState removes the stored layout state.
func (v *GraphView) DeleteState(ctx context.Context) error {
	return v.store.Delete(ctx, v.StateKey())
}
