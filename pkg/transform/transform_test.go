package transform

import (
	"math"
	"testing"

	"github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/geom"
)

const tol = 1e-9

func near(a, b geom.Vec2) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"equal bounds", Options{MinZoom: 2, MaxZoom: 2}, false},
		{"zero min", Options{MinZoom: 0, MaxZoom: 1}, true},
		{"inverted", Options{MinZoom: 5, MaxZoom: 1}, true},
		{"nan", Options{MinZoom: math.NaN(), MaxZoom: 1}, true},
		{"inf max", Options{MinZoom: 1, MaxZoom: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.opts)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeConfiguration) {
					t.Fatalf("New() error = %v, want CONFIGURATION_ERROR", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if tr.Pan() != (geom.Vec2{}) {
				t.Errorf("Pan() = %v, want origin", tr.Pan())
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tr := Default()
	tr.SetZoom(2.5)
	tr.SetPan(geom.V(-13, 42.5))

	points := []geom.Vec2{{}, geom.V(1, 1), geom.V(-250.5, 1e4), geom.V(3.3, -7.7)}
	for _, p := range points {
		if got := tr.ToGraph(tr.ToScreen(p)); !near(got, p) {
			t.Errorf("ToGraph(ToScreen(%v)) = %v", p, got)
		}
		if got := tr.ToScreen(tr.ToGraph(p)); !near(got, p) {
			t.Errorf("ToScreen(ToGraph(%v)) = %v", p, got)
		}
	}
}

func TestToScreen(t *testing.T) {
	tr := Default()
	tr.SetZoom(2)
	tr.SetPan(geom.V(10, 20))
	if got, want := tr.ToScreen(geom.V(1, 2)), geom.V(12, 24); got != want {
		t.Errorf("ToScreen() = %v, want %v", got, want)
	}
	r := tr.ToScreenRect(geom.R(geom.V(0, 0), geom.V(5, 5)))
	if r.Min != geom.V(10, 20) || r.Max != geom.V(20, 30) {
		t.Errorf("ToScreenRect() = %v", r)
	}
	if back := tr.ToGraphRect(r); !near(back.Max, geom.V(5, 5)) {
		t.Errorf("ToGraphRect() = %v", back)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tests := []struct {
		name   string
		anchor geom.Vec2
		factor float64
	}{
		{"zoom in", geom.V(100, 50), 1.5},
		{"zoom out", geom.V(-20, 300), 0.5},
		{"clamped high", geom.V(10, 10), 1000},
		{"clamped low", geom.V(10, 10), 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Default()
			tr.SetPan(geom.V(7, -3))
			before := tr.ToGraph(tt.anchor)
			tr.ZoomAt(tt.anchor, tt.factor)
			if after := tr.ToGraph(tt.anchor); !near(before, after) {
				t.Errorf("anchor moved from %v to %v", before, after)
			}
			if z := tr.Zoom(); z < DefaultMinZoom || z > DefaultMaxZoom {
				t.Errorf("Zoom() = %v outside bounds", z)
			}
		})
	}
}

func TestZoomAtIgnoresBadFactor(t *testing.T) {
	tr := Default()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		tr.ZoomAt(geom.V(1, 1), f)
	}
	if tr.Zoom() != 1 || tr.Pan() != (geom.Vec2{}) {
		t.Errorf("transform changed: zoom=%v pan=%v", tr.Zoom(), tr.Pan())
	}
}

func TestSetZoomBounds(t *testing.T) {
	tr := Default()
	tr.SetZoom(8)

	if err := tr.SetZoomBounds(3, 1); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("SetZoomBounds(3, 1) error = %v, want CONFIGURATION_ERROR", err)
	}
	if b := tr.Bounds(); b != DefaultOptions() {
		t.Errorf("Bounds() = %v after rejected update, want defaults", b)
	}

	if err := tr.SetZoomBounds(0.5, 4); err != nil {
		t.Fatalf("SetZoomBounds() error = %v", err)
	}
	if tr.Zoom() != 4 {
		t.Errorf("Zoom() = %v, want re-clamped 4", tr.Zoom())
	}
}

func TestPanBy(t *testing.T) {
	tr := Default()
	tr.PanBy(geom.V(3, 4))
	tr.PanBy(geom.V(math.NaN(), 1))
	if tr.Pan() != geom.V(3, 4) {
		t.Errorf("Pan() = %v, want (3,4)", tr.Pan())
	}
	tr.Reset()
	if tr.Pan() != (geom.Vec2{}) || tr.Zoom() != 1 {
		t.Errorf("Reset() left zoom=%v pan=%v", tr.Zoom(), tr.Pan())
	}
}

func TestFitToScreen(t *testing.T) {
	viewport := geom.FromSize(800, 600)
	tests := []struct {
		name     string
		content  geom.Rect
		ok       bool
		wantZoom float64
	}{
		{"empty graph", geom.Rect{}, false, DefaultMaxZoom},
		{"single node", geom.R(geom.V(40, 40), geom.V(40, 40)), true, DefaultMaxZoom},
		{"wide content", geom.R(geom.V(0, 0), geom.V(1600, 100)), true, 0.5},
		{"tall content", geom.R(geom.V(-100, -600), geom.V(100, 600)), true, 0.5},
		{"non-finite", geom.R(geom.V(0, 0), geom.V(math.Inf(1), 1)), true, DefaultMaxZoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Default()
			tr.FitToScreen(tt.content, tt.ok, viewport, 0)
			if math.Abs(tr.Zoom()-tt.wantZoom) > tol {
				t.Errorf("Zoom() = %v, want %v", tr.Zoom(), tt.wantZoom)
			}
			if !tr.Pan().Finite() {
				t.Fatalf("Pan() = %v, want finite", tr.Pan())
			}
			if tt.ok && tt.content.Valid() {
				if got := tr.ToScreen(tt.content.Center()); !near(got, viewport.Center()) {
					t.Errorf("content center maps to %v, want %v", got, viewport.Center())
				}
			}
		})
	}
}

func TestFitToScreenHugeContent(t *testing.T) {
	tr := Default()
	viewport := geom.FromSize(800, 600)
	content := geom.R(geom.V(0, 0), geom.V(20000, 100))
	tr.FitToScreen(content, true, viewport, 0)

	if want := 800.0 / 20000; math.Abs(tr.Zoom()-want) > tol {
		t.Errorf("Zoom() = %v, want %v", tr.Zoom(), want)
	}
	screen := tr.ToScreenRect(content)
	if screen.Min.X < -tol || screen.Max.X > 800+tol {
		t.Errorf("content %v not inside viewport", screen)
	}
	if got := tr.Bounds().MinZoom; got > tr.Zoom() {
		t.Errorf("MinZoom = %v, want at most %v", got, tr.Zoom())
	}

	tr.SetZoom(tr.Zoom() / 2)
	if want := 800.0 / 20000; math.Abs(tr.Zoom()-want) > tol {
		t.Errorf("Zoom() = %v after zooming out, want %v", tr.Zoom(), want)
	}
}

func TestFitToScreenPadding(t *testing.T) {
	tr := Default()
	content := geom.R(geom.V(0, 0), geom.V(400, 300))
	tr.FitToScreen(content, true, geom.FromSize(800, 600), 1)
	if math.Abs(tr.Zoom()-1) > tol {
		t.Errorf("Zoom() = %v, want 1", tr.Zoom())
	}
	screen := tr.ToScreenRect(content)
	if screen.Min.X < 0 || screen.Max.X > 800 || screen.Min.Y < 0 || screen.Max.Y > 600 {
		t.Errorf("content %v not inside viewport", screen)
	}
}
