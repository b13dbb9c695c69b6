package interaction

import (
	"time"

	"github.com/matzehuels/graphview/pkg/geom"
)

// Input is the raw pointer and keyboard state for one frame, in screen
// coordinates relative to the viewport origin.
type Input struct {
	Pointer        geom.Vec2 `json:"pointer"`
	PointerPresent bool      `json:"pointer_present"`
	Primary        bool      `json:"primary"`
	// Wheel is the vertical scroll delta in notches; positive zooms in.
	Wheel float64 `json:"wheel"`
	Shift bool    `json:"shift"`
	Ctrl  bool    `json:"ctrl"`
	// Time stamps the input; zero means now.
	Time time.Time `json:"time,omitzero"`
}

// Modifier reports whether a selection-extending modifier is held.
func (in Input) Modifier() bool { return in.Shift || in.Ctrl }
