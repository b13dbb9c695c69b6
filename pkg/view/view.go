// Package view ties the graph model, transform, layout, interaction
// controller and change reporter into one frame-driven widget.
//
// A host creates a [GraphView] for a graph and calls [GraphView.Frame] once
// per display frame with the pointer input and the viewport. Each frame:
//
//  1. snapshots the graph for change detection
//  2. applies input through the interaction controller
//  3. advances the layout by one step
//  4. refits the transform if fit-to-screen is enabled
//  5. resolves drawing primitives
//  6. diffs the graph and queues the resulting changes
//
// Changes accumulate until [GraphView.DrainChanges]; callbacks registered
// with [GraphView.OnChange] see them as soon as the frame ends.
//
// A GraphView is not safe for concurrent use.
package view

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphview/pkg/changes"
	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/interaction"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/observability"
	"github.com/matzehuels/graphview/pkg/render"
	"github.com/matzehuels/graphview/pkg/store"
	"github.com/matzehuels/graphview/pkg/transform"
)

// DefaultViewport is the layout area used before the first frame.
var DefaultViewport = geom.FromSize(800, 600)

// GraphView is an interactive view of one graph.
type GraphView struct {
	id       string
	g        *graph.Graph
	t        *transform.Transform
	ctrl     *interaction.Controller
	reporter *changes.Reporter
	layout   layout.Layout
	style    render.Style
	store    store.Store
	logger   *log.Logger
	viewport geom.Rect

	pending []changes.Change
	events  []changes.Event
}

type config struct {
	id       string
	state    layout.State
	settings interaction.Settings
	style    render.Style
	zoom     transform.Options
	epsilon  float64
	store    store.Store
	logger   *log.Logger
}

// Option configures a GraphView.
type Option func(*config)

// WithID sets the view id used for state persistence. The default is a
// random UUID.
func WithID(id string) Option { return func(c *config) { c.id = id } }

// WithLayoutState selects the initial layout and its parameters.
func WithLayoutState(s layout.State) Option { return func(c *config) { c.state = s } }

// WithSettings sets the navigation and interaction settings.
func WithSettings(s interaction.Settings) Option { return func(c *config) { c.settings = s } }

// WithStyle sets the drawing style.
func WithStyle(s render.Style) Option { return func(c *config) { c.style = s } }

// WithZoomBounds sets the transform zoom range.
func WithZoomBounds(o transform.Options) Option { return func(c *config) { c.zoom = o } }

// WithEpsilon sets the position threshold for change reports.
func WithEpsilon(eps float64) Option { return func(c *config) { c.epsilon = eps } }

// WithStore sets where SaveState and LoadState persist the layout state.
func WithStore(s store.Store) Option { return func(c *config) { c.store = s } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

// New creates a view of g. The default layout is random placement with
// zoom and pan enabled and element interaction disabled.
func New(g *graph.Graph, opts ...Option) (*GraphView, error) {
	if g == nil {
		return nil, errors.InvalidOperation("view requires a graph")
	}
	cfg := config{
		id:       uuid.NewString(),
		state:    layout.DefaultState(layout.KindRandom),
		settings: interaction.DefaultSettings(),
		style:    render.DefaultStyle(),
		zoom:     transform.DefaultOptions(),
		epsilon:  changes.DefaultEpsilon,
		store:    store.NewNullStore(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	if err := errors.First(cfg.settings.Validate(), cfg.style.Validate()); err != nil {
		return nil, err
	}
	t, err := transform.New(cfg.zoom)
	if err != nil {
		return nil, err
	}
	l, err := layout.New(cfg.state)
	if err != nil {
		return nil, err
	}

	v := &GraphView{
		id:       cfg.id,
		g:        g,
		t:        t,
		ctrl:     interaction.NewController(cfg.settings),
		reporter: changes.NewReporter(cfg.epsilon),
		layout:   l,
		style:    cfg.style,
		store:    cfg.store,
		logger:   cfg.logger,
		viewport: DefaultViewport,
	}
	v.reporter.OnChange(func(cs []changes.Change) {
		v.pending = append(v.pending, cs...)
	})
	return v, nil
}

func (v *GraphView) ID() string                      { return v.id }
func (v *GraphView) Graph() *graph.Graph             { return v.g }
func (v *GraphView) Transform() *transform.Transform { return v.t }
func (v *GraphView) Settings() interaction.Settings  { return v.ctrl.Settings() }
func (v *GraphView) Style() render.Style             { return v.style }

// Viewport returns the viewport of the last frame.
func (v *GraphView) Viewport() geom.Rect { return v.viewport }

// InteractionState returns the controller mode.
func (v *GraphView) InteractionState() interaction.State { return v.ctrl.State() }

// SetSettings replaces the settings; invalid ones are rejected.
func (v *GraphView) SetSettings(s interaction.Settings) error {
	return v.ctrl.SetSettings(s)
}

// SetStyle replaces the style; invalid ones are rejected.
func (v *GraphView) SetStyle(s render.Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	v.style = s
	return nil
}

// Frame runs one display frame and returns what to draw.
func (v *GraphView) Frame(ctx context.Context, in interaction.Input, viewport geom.Rect) render.Frame {
	start := time.Now()
	if viewport.Valid() && viewport.Area() > 0 {
		v.viewport = viewport
	}
	vp := v.viewport

	v.reporter.BeginFrame(v.g)

	wasDragging := v.ctrl.Dragging()
	v.ctrl.Update(interaction.Scene{
		Graph:     v.g,
		Transform: v.t,
		Edges:     render.NewPicker(v.g, v.t, v.style),
	}, in, v.reporter)
	if !wasDragging && v.ctrl.Dragging() {
		v.wake()
	}

	v.layout.Step(v.g, vp)

	if nav := v.ctrl.Settings().Navigation; nav.FitToScreen {
		bounds, ok := v.g.VisualBounds()
		v.t.FitToScreen(bounds, ok, vp, nav.FitPadding)
	}

	f := render.Build(v.g, v.t, vp, v.style)
	if r, ok := v.ctrl.SelectionRect(); ok {
		f.Selection = &r
	}

	v.reporter.EndFrame(v.g)
	n := len(v.pending)
	v.reporter.Drain()
	v.events = append(v.events, v.reporter.Events()...)

	observability.Frame().OnFrame(ctx, v.g.NodeCount(), v.g.EdgeCount(), len(v.pending)-n, time.Since(start))
	return f
}

// wake restarts a converged force layout so that it reacts to a drag.
func (v *GraphView) wake() {
	if fd, ok := v.layout.(*layout.ForceDirected); ok && fd.Converged() {
		fd.Restart()
		v.logger.Debug("layout restarted for drag", "kind", fd.Kind())
	}
}

// Fit fits the transform to the graph in viewport.
func (v *GraphView) Fit(viewport geom.Rect) {
	if viewport.Valid() && viewport.Area() > 0 {
		v.viewport = viewport
	}
	bounds, ok := v.g.VisualBounds()
	v.t.FitToScreen(bounds, ok, v.viewport, v.ctrl.Settings().Navigation.FitPadding)
}

// ResetInteraction returns the controller to idle and clears hover and
// drag flags.
func (v *GraphView) ResetInteraction() {
	v.ctrl.Reset(v.g)
}

// DrainChanges returns and clears the changes queued since the last call.
func (v *GraphView) DrainChanges() []changes.Change {
	out := v.pending
	v.pending = nil
	return out
}

// DrainEvents returns and clears the interaction events queued since the
// last call.
func (v *GraphView) DrainEvents() []changes.Event {
	out := v.events
	v.events = nil
	return out
}

// OnChange registers fn to receive the changes of every frame that had any.
func (v *GraphView) OnChange(fn func([]changes.Change)) {
	v.reporter.OnChange(fn)
}

// SetGraph replaces the displayed graph, for example after the source file
// changed. The layout restarts and the interaction state is reset; queued
// changes that refer to the old graph are dropped.
func (v *GraphView) SetGraph(g *graph.Graph) error {
	if g == nil {
		return errors.InvalidOperation("graph must not be nil")
	}
	v.g = g
	v.ctrl.Reset(g)
	v.pending = nil
	v.events = nil
	layout.Restart(v.layout)
	v.logger.Info("graph replaced", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}
