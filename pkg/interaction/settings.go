package interaction

import (
	"time"

	"github.com/matzehuels/graphview/pkg/errors"
)

// Defaults for navigation and interaction settings.
const (
	DefaultZoomSpeed         = 0.1
	DefaultFitPadding        = 0.1
	DefaultDoubleClickWindow = 300 * time.Millisecond
	DefaultDragThreshold     = 3.0
	DefaultEdgeTolerance     = 4.0
)

// Navigation controls the viewport.
type Navigation struct {
	ZoomAndPan bool    `json:"zoom_and_pan" toml:"zoom_and_pan" koanf:"zoom_and_pan"`
	ZoomSpeed  float64 `json:"zoom_speed" toml:"zoom_speed" koanf:"zoom_speed"`
	// FitToScreen refits the transform every frame. Applied by the view.
	FitToScreen bool    `json:"fit_to_screen" toml:"fit_to_screen" koanf:"fit_to_screen"`
	FitPadding  float64 `json:"fit_padding" toml:"fit_padding" koanf:"fit_padding"`
}

// Interaction controls what pointer input may do to graph elements.
type Interaction struct {
	Dragging           bool `json:"dragging" toml:"dragging" koanf:"dragging"`
	Hover              bool `json:"hover" toml:"hover" koanf:"hover"`
	Clicking           bool `json:"clicking" toml:"clicking" koanf:"clicking"`
	NodeSelection      bool `json:"node_selection" toml:"node_selection" koanf:"node_selection"`
	NodeMultiSelection bool `json:"node_multi_selection" toml:"node_multi_selection" koanf:"node_multi_selection"`
	EdgeClicking       bool `json:"edge_clicking" toml:"edge_clicking" koanf:"edge_clicking"`
	EdgeSelection      bool `json:"edge_selection" toml:"edge_selection" koanf:"edge_selection"`
	EdgeMultiSelection bool `json:"edge_multi_selection" toml:"edge_multi_selection" koanf:"edge_multi_selection"`

	DoubleClickWindow time.Duration `json:"double_click_window" toml:"double_click_window" koanf:"double_click_window"`
	// DragThreshold is the pointer travel in pixels before a press on a
	// node becomes a drag.
	DragThreshold float64 `json:"drag_threshold" toml:"drag_threshold" koanf:"drag_threshold"`
	// EdgeTolerance is the pick distance in pixels for edges.
	EdgeTolerance float64 `json:"edge_tolerance" toml:"edge_tolerance" koanf:"edge_tolerance"`
}

// Settings groups navigation and interaction settings.
type Settings struct {
	Navigation  Navigation  `json:"navigation" toml:"navigation" koanf:"navigation"`
	Interaction Interaction `json:"interaction" toml:"interaction" koanf:"interaction"`
}

// DefaultSettings enables zoom and pan only; element interaction is opt-in.
func DefaultSettings() Settings {
	return Settings{
		Navigation: Navigation{
			ZoomAndPan: true,
			ZoomSpeed:  DefaultZoomSpeed,
			FitPadding: DefaultFitPadding,
		},
		Interaction: Interaction{
			DoubleClickWindow: DefaultDoubleClickWindow,
			DragThreshold:     DefaultDragThreshold,
			EdgeTolerance:     DefaultEdgeTolerance,
		},
	}
}

// AllEnabled returns settings with every interaction switched on.
func AllEnabled() Settings {
	s := DefaultSettings()
	i := &s.Interaction
	i.Dragging = true
	i.Hover = true
	i.Clicking = true
	i.NodeSelection = true
	i.NodeMultiSelection = true
	i.EdgeClicking = true
	i.EdgeSelection = true
	i.EdgeMultiSelection = true
	return s
}

// Validate checks numeric settings.
func (s Settings) Validate() error {
	if err := errors.First(
		errors.ValidateRange("navigation.zoom_speed", s.Navigation.ZoomSpeed, 0, 1),
		errors.ValidateNonNegative("navigation.fit_padding", s.Navigation.FitPadding),
		errors.ValidateNonNegative("interaction.drag_threshold", s.Interaction.DragThreshold),
		errors.ValidateNonNegative("interaction.edge_tolerance", s.Interaction.EdgeTolerance),
	); err != nil {
		return err
	}
	if s.Interaction.DoubleClickWindow < 0 {
		return errors.Configuration("interaction.double_click_window must not be negative, got %v", s.Interaction.DoubleClickWindow)
	}
	return nil
}

// Effective applies the implication rules between switches:
// dragging or any selection implies clicking and hover, and
// multi-selection implies selection.
func (i Interaction) Effective() Interaction {
	if i.NodeMultiSelection {
		i.NodeSelection = true
	}
	if i.EdgeMultiSelection {
		i.EdgeSelection = true
	}
	if i.EdgeSelection {
		i.EdgeClicking = true
	}
	if i.Dragging || i.NodeSelection || i.EdgeSelection {
		i.Clicking = true
		i.Hover = true
	}
	if i.EdgeClicking {
		i.Hover = true
	}
	return i
}

// clickable reports whether any click handling is enabled.
func (i Interaction) clickable() bool {
	return i.Clicking || i.NodeSelection || i.EdgeClicking || i.EdgeSelection
}
