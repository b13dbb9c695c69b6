// Package transform maps between graph space and screen space.
//
// A [Transform] holds a zoom factor and a pan offset:
//
//	screen = graph*zoom + pan
//	graph  = (screen - pan) / zoom
//
// Zoom is always clamped to the configured [min, max] range, so the two
// mappings stay exact inverses up to floating-point rounding.
package transform

import (
	"math"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
)

// Default zoom bounds.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0
)

// minFitExtent keeps fit-to-screen away from division by zero.
const minFitExtent = 1e-3

// Options configures a Transform.
type Options struct {
	MinZoom float64 `json:"min_zoom" toml:"min_zoom" koanf:"min_zoom"`
	MaxZoom float64 `json:"max_zoom" toml:"max_zoom" koanf:"max_zoom"`
}

// DefaultOptions returns the default zoom bounds.
func DefaultOptions() Options {
	return Options{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom}
}

// Validate checks that the bounds are positive, finite and ordered.
func (o Options) Validate() error {
	if err := errors.First(
		errors.ValidatePositive("min_zoom", o.MinZoom),
		errors.ValidatePositive("max_zoom", o.MaxZoom),
	); err != nil {
		return err
	}
	if o.MinZoom > o.MaxZoom {
		return errors.Configuration("min_zoom %v exceeds max_zoom %v", o.MinZoom, o.MaxZoom)
	}
	return nil
}

// Transform is a zoom and pan pair. The zero value is not usable.
type Transform struct {
	zoom    float64
	pan     geom.Vec2
	minZoom float64
	maxZoom float64
}

// New creates an identity transform with the given bounds.
func New(opts Options) (*Transform, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Transform{minZoom: opts.MinZoom, maxZoom: opts.MaxZoom}
	t.Reset()
	return t, nil
}

// Default creates an identity transform with the default bounds.
func Default() *Transform {
	t, _ := New(DefaultOptions())
	return t
}

func (t *Transform) Zoom() float64  { return t.zoom }
func (t *Transform) Pan() geom.Vec2 { return t.pan }

// Bounds returns the current zoom bounds.
func (t *Transform) Bounds() Options {
	return Options{MinZoom: t.minZoom, MaxZoom: t.maxZoom}
}

// Reset restores zoom 1 (clamped) and zero pan.
func (t *Transform) Reset() {
	t.zoom = t.clamp(1)
	t.pan = geom.Vec2{}
}

// SetZoomBounds replaces the zoom bounds. Invalid bounds are rejected with
// a CONFIGURATION_ERROR and the previous bounds stay in effect.
func (t *Transform) SetZoomBounds(min, max float64) error {
	o := Options{MinZoom: min, MaxZoom: max}
	if err := o.Validate(); err != nil {
		return err
	}
	t.minZoom, t.maxZoom = min, max
	t.zoom = t.clamp(t.zoom)
	return nil
}

// SetZoom sets the zoom factor, clamped to the bounds. Non-finite or
// non-positive values are ignored.
func (t *Transform) SetZoom(z float64) {
	if !geom.IsFinite(z) || z <= 0 {
		return
	}
	t.zoom = t.clamp(z)
}

// SetPan sets the pan offset. Non-finite values are ignored.
func (t *Transform) SetPan(p geom.Vec2) {
	if p.Finite() {
		t.pan = p
	}
}

// PanBy shifts the pan offset by a screen-space delta.
func (t *Transform) PanBy(delta geom.Vec2) {
	t.SetPan(t.pan.Add(delta))
}

// ToScreen maps a graph-space point to screen space.
func (t *Transform) ToScreen(p geom.Vec2) geom.Vec2 {
	return p.Scale(t.zoom).Add(t.pan)
}

// ToGraph maps a screen-space point to graph space.
func (t *Transform) ToGraph(s geom.Vec2) geom.Vec2 {
	return s.Sub(t.pan).Div(t.zoom)
}

// ToScreenRect maps a graph-space rectangle to screen space.
func (t *Transform) ToScreenRect(r geom.Rect) geom.Rect {
	return geom.R(t.ToScreen(r.Min), t.ToScreen(r.Max))
}

// ToGraphRect maps a screen-space rectangle to graph space.
func (t *Transform) ToGraphRect(r geom.Rect) geom.Rect {
	return geom.R(t.ToGraph(r.Min), t.ToGraph(r.Max))
}

// ZoomAt multiplies the zoom by factor while keeping the graph point under
// the screen anchor fixed. The resulting zoom is clamped to the bounds;
// non-finite or non-positive factors are ignored.
func (t *Transform) ZoomAt(anchor geom.Vec2, factor float64) {
	if !geom.IsFinite(factor) || factor <= 0 || !anchor.Finite() {
		return
	}
	next := t.clamp(t.zoom * factor)
	if next == t.zoom {
		return
	}
	g := t.ToGraph(anchor)
	t.pan = t.pan.Add(g.Scale(t.zoom)).Sub(g.Scale(next))
	t.zoom = next
}

// FitToScreen sets zoom and pan so that content fits inside viewport.
//
// padding is a fraction of the content size added around it (0.1 = 10%).
// When ok is false or content is not a valid rectangle (empty graph), a unit
// box around the origin is fitted instead; a zero-size box (single node) is
// grown to one graph unit around its center. Either way the result is
// centered and never divides by zero.
//
// Content too large to fit at the minimum zoom lowers the minimum to the
// fitting zoom, so the whole graph is always on screen after a fit. The
// maximum zoom still applies.
func (t *Transform) FitToScreen(content geom.Rect, ok bool, viewport geom.Rect, padding float64) {
	if !ok || !content.Valid() {
		content = geom.R(geom.V(-0.5, -0.5), geom.V(0.5, 0.5))
	}
	if content.Size().Len() <= 0 {
		content = geom.FromCenter(content.Center(), geom.V(1, 1))
	}
	if !geom.IsFinite(padding) || padding < 0 {
		padding = 0
	}

	size := content.Size().Scale(1 + padding)
	w := math.Max(size.X, minFitExtent)
	h := math.Max(size.Y, minFitExtent)

	zoom := math.Min(viewport.Width()/w, viewport.Height()/h)
	if !geom.IsFinite(zoom) || zoom <= 0 {
		zoom = 1
	}
	if zoom < t.minZoom {
		t.minZoom = zoom
	}
	t.zoom = t.clamp(zoom)
	t.SetPan(viewport.Center().Sub(content.Center().Scale(t.zoom)))
}

func (t *Transform) clamp(z float64) float64 {
	return math.Max(t.minZoom, math.Min(t.maxZoom, z))
}
