package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/render"
)

// A terminal cell covers cellWidth x cellHeight screen pixels. Cells are
// roughly twice as tall as wide, so the ratio keeps circles round.
const (
	cellWidth  = 4.0
	cellHeight = 8.0
)

const (
	glyphNode         = '●'
	glyphNodeSelected = '◉'
	glyphNodeDragged  = '◎'
)

type cell struct {
	r     rune
	color string
	bold  bool
}

// canvas is a grid of terminal cells that a frame is rasterized into.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

// cellViewport is the screen-space viewport of a w x h cell canvas.
func cellViewport(w, h int) geom.Rect {
	return geom.FromSize(float64(w)*cellWidth, float64(h)*cellHeight)
}

// cellOf returns the cell containing screen point p.
func cellOf(p geom.Vec2) (int, int) {
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

// cellCenter returns the screen point at the center of cell (x, y).
func cellCenter(x, y int) geom.Vec2 {
	return geom.V((float64(x)+0.5)*cellWidth, (float64(y)+0.5)*cellHeight)
}

func (c *canvas) set(x, y int, r rune, color string, bold bool) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, color: color, bold: bold}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y*c.w+x].r
}

// line draws the segment ab, choosing a box-drawing rune from its slope.
func (c *canvas) line(a, b geom.Vec2, color string, bold bool) {
	ax, ay := a.X/cellWidth, a.Y/cellHeight
	bx, by := b.X/cellWidth, b.Y/cellHeight
	dx, dy := bx-ax, by-ay
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		return
	}
	r := slopeRune(dx, dy)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(int(math.Floor(ax+dx*t)), int(math.Floor(ay+dy*t)), r, color, bold)
	}
}

func slopeRune(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.4:
		return '─'
	case adx <= ady*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (c *canvas) text(x, y int, s, color string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color, false)
	}
}

// rect outlines r given in screen pixels.
func (c *canvas) rect(r geom.Rect, color string) {
	x0, y0 := cellOf(r.Min)
	x1, y1 := cellOf(r.Max)
	for x := x0; x <= x1; x++ {
		c.set(x, y0, '┄', color, false)
		c.set(x, y1, '┄', color, false)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, '┆', color, false)
		c.set(x1, y, '┆', color, false)
	}
}

// String renders the canvas row by row, styling runs of equal color once.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].color == row[start].color && row[end].bold == row[start].bold {
				end++
			}
			var run strings.Builder
			for _, cl := range row[start:end] {
				run.WriteRune(cl.r)
			}
			if row[start].color == "" {
				b.WriteString(run.String())
			} else {
				st := lipgloss.NewStyle().Foreground(lipgloss.Color(row[start].color)).Bold(row[start].bold)
				b.WriteString(st.Render(run.String()))
			}
			start = end
		}
	}
	return b.String()
}

// drawFrame rasterizes f: edges first, then nodes and labels, then the
// rubber-band rectangle.
func drawFrame(f render.Frame, w, h int) *canvas {
	c := newCanvas(w, h)
	for _, e := range f.Edges {
		if !e.Visible {
			continue
		}
		pts := e.Polyline()
		for i := 1; i < len(pts); i++ {
			c.line(pts[i-1], pts[i], e.Color, e.Selected || e.Hovered)
		}
		if e.Directed && len(pts) > 1 {
			drawArrow(c, pts[len(pts)-2], pts[len(pts)-1], e.Color)
		}
		if e.Label != "" {
			x, y := cellOf(e.LabelPos)
			c.text(x+1, y, e.Label, colorDimHex)
		}
	}
	for _, n := range f.Nodes {
		if !n.Visible {
			continue
		}
		x, y := cellOf(n.Center)
		glyph := glyphNode
		switch {
		case n.Dragged:
			glyph = glyphNodeDragged
		case n.Selected:
			glyph = glyphNodeSelected
		}
		c.set(x, y, glyph, n.Color, n.Selected || n.Hovered)
		if n.Label != "" {
			c.text(x+2, y, n.Label, colorLabelHex)
		}
	}
	if f.Selection != nil {
		c.rect(*f.Selection, colorSelectionHex)
	}
	return c
}

// drawArrow marks the cell before the end of a directed edge with an
// arrowhead pointing along the last segment.
func drawArrow(c *canvas, from, to geom.Vec2, color string) {
	d := to.Sub(from)
	var r rune
	switch {
	case math.Abs(d.X)/cellWidth >= math.Abs(d.Y)/cellHeight && d.X >= 0:
		r = '▸'
	case math.Abs(d.X)/cellWidth >= math.Abs(d.Y)/cellHeight:
		r = '◂'
	case d.Y >= 0:
		r = '▾'
	default:
		r = '▴'
	}
	x, y := cellOf(to)
	c.set(x, y, r, color, false)
}

// Hex equivalents of the lipgloss palette for canvas cells.
const (
	colorDimHex       = "#585858"
	colorLabelHex     = "#d0d0d0"
	colorSelectionHex = "#ffd700"
)
