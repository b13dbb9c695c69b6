package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphview/pkg/changes"
	"github.com/matzehuels/graphview/pkg/geom"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/interaction"
	"github.com/matzehuels/graphview/pkg/layout"
	"github.com/matzehuels/graphview/pkg/render"
	"github.com/matzehuels/graphview/pkg/view"
)

// frameInterval paces the frame loop at about 30 frames per second.
const frameInterval = 33 * time.Millisecond

// statusLines is the height of the status and help area under the canvas.
const statusLines = 2

// panStep is the keyboard pan distance in screen pixels.
const panStep = 4 * cellWidth

var (
	styleStatus      = lipgloss.NewStyle().Foreground(colorGray)
	styleStatusValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleStatusKind  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// =============================================================================
// Key bindings
// =============================================================================

type keyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Fit     key.Binding
	Reset   key.Binding
	Pause   key.Binding
	Layout  key.Binding
	Labels  key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Pan     key.Binding
	Save    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Fit:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart layout")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Layout:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next layout")),
		Labels:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Pan:     key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "pan")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save state")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fit, k.Pause, k.Layout, k.Labels, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fit, k.ZoomIn, k.ZoomOut, k.Pan},
		{k.Pause, k.Reset, k.Layout, k.Labels},
		{k.Save, k.Help, k.Quit},
	}
}

// =============================================================================
// Messages
// =============================================================================

type tickMsg time.Time

type graphMsg struct{ g *graph.Graph }

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForGraph delivers the next reloaded graph, or nothing once the
// channel is closed.
func waitForGraph(ch <-chan *graph.Graph) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		g, ok := <-ch
		if !ok {
			return nil
		}
		return graphMsg{g}
	}
}

// =============================================================================
// Model
// =============================================================================

// tuiModel hosts a view in the terminal: mouse events become controller
// input, ticks run frames, and frames are rasterized into cells.
type tuiModel struct {
	ctx     context.Context
	view    *view.GraphView
	keys    keyMap
	help    help.Model
	reloads <-chan *graph.Graph

	width, height int
	fitted        bool

	input interaction.Input
	frame render.Frame

	status    string
	lastEvent string
}

func newTUIModel(ctx context.Context, v *view.GraphView, reloads <-chan *graph.Graph) tuiModel {
	return tuiModel{
		ctx:     ctx,
		view:    v,
		keys:    defaultKeyMap(),
		help:    help.New(),
		reloads: reloads,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForGraph(m.reloads))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if !m.fitted {
			m.view.Fit(m.viewport())
			m.fitted = true
		}
		return m, nil

	case tickMsg:
		return m.runFrame(), tickCmd()

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case graphMsg:
		if err := m.view.SetGraph(msg.g); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("reloaded %d nodes, %d edges", msg.g.NodeCount(), msg.g.EdgeCount())
			m.view.Fit(m.viewport())
		}
		return m, waitForGraph(m.reloads)
	}
	return m, nil
}

func (m tuiModel) canvasSize() (int, int) {
	return m.width, max(m.height-statusLines, 1)
}

func (m tuiModel) viewport() geom.Rect {
	return cellViewport(m.canvasSize())
}

// runFrame advances the view by one frame with the current pointer state.
// Wheel notches are consumed by the frame they appear in. Button changes
// run a frame immediately so that a click shorter than a tick is seen.
func (m tuiModel) runFrame() tuiModel {
	if m.width == 0 {
		return m
	}
	m.input.Time = time.Now()
	m.frame = m.view.Frame(m.ctx, m.input, m.viewport())
	m.input.Wheel = 0

	if evs := m.view.DrainEvents(); len(evs) > 0 {
		m.lastEvent = describeEvent(evs[len(evs)-1])
	}
	m.view.DrainChanges()
	return m
}

func (m tuiModel) handleMouse(msg tea.MouseMsg) tuiModel {
	ev := tea.MouseEvent(msg)
	m.input.PointerPresent = true
	m.input.Shift = ev.Shift
	m.input.Ctrl = ev.Ctrl

	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		m.input.Pointer = moveTo(m.input.Pointer, ev.X, ev.Y)
		m.input.Wheel++
	case ev.Button == tea.MouseButtonWheelDown:
		m.input.Pointer = moveTo(m.input.Pointer, ev.X, ev.Y)
		m.input.Wheel--
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		m.input.Pointer = m.snap(ev.X, ev.Y)
		m.input.Primary = true
		return m.runFrame()
	case ev.Action == tea.MouseActionRelease:
		if !m.input.Primary {
			break
		}
		m.input.Primary = false
		m.input.Pointer = moveTo(m.input.Pointer, ev.X, ev.Y)
		return m.runFrame()
	case m.input.Primary:
		m.input.Pointer = moveTo(m.input.Pointer, ev.X, ev.Y)
	default:
		m.input.Pointer = m.snap(ev.X, ev.Y)
	}
	return m
}

// moveTo returns the center of cell (x, y), or p if p already lies in that
// cell.
func moveTo(p geom.Vec2, x, y int) geom.Vec2 {
	if cx, cy := cellOf(p); cx != x || cy != y {
		return cellCenter(x, y)
	}
	return p
}

// snap moves the pointer onto the center of a node drawn in cell (x, y).
// Nodes are far smaller than a cell at most zoom levels, so the cell the
// glyph occupies is the hit area.
func (m tuiModel) snap(x, y int) geom.Vec2 {
	for i := len(m.frame.Nodes) - 1; i >= 0; i-- {
		n := m.frame.Nodes[i]
		if cx, cy := cellOf(n.Center); cx == x && cy == y {
			return n.Center
		}
	}
	return cellCenter(x, y)
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.view.Transform()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Fit):
		m.view.Fit(m.viewport())
	case key.Matches(msg, m.keys.Reset):
		m.view.ResetLayout()
		m.status = "layout restarted"
	case key.Matches(msg, m.keys.Pause):
		m.status = togglePause(m.view.Layout())
	case key.Matches(msg, m.keys.Layout):
		next := nextKind(m.view.Layout().Kind())
		if err := m.view.SetLayout(layout.DefaultState(next)); err != nil {
			m.status = err.Error()
		} else {
			m.status = "layout " + string(next)
		}
	case key.Matches(msg, m.keys.Labels):
		st := m.view.Style()
		st.Labels = !st.Labels
		if err := m.view.SetStyle(st); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.ZoomIn):
		t.ZoomAt(m.viewport().Center(), 1.25)
	case key.Matches(msg, m.keys.ZoomOut):
		t.ZoomAt(m.viewport().Center(), 0.8)
	case key.Matches(msg, m.keys.Pan):
		t.PanBy(panDelta(msg.String()))
	case key.Matches(msg, m.keys.Save):
		if err := m.view.SaveState(m.ctx); err != nil {
			m.status = err.Error()
		} else {
			m.status = "saved " + m.view.StateKey()
		}
	}
	return m, nil
}

func panDelta(k string) geom.Vec2 {
	switch k {
	case "up":
		return geom.V(0, panStep*2)
	case "down":
		return geom.V(0, -panStep*2)
	case "left":
		return geom.V(panStep, 0)
	case "right":
		return geom.V(-panStep, 0)
	}
	return geom.Vec2{}
}

// togglePause flips the running flag of layouts that support it.
func togglePause(l layout.Layout) string {
	r, ok := l.(interface{ SetRunning(bool) })
	if !ok {
		return string(l.Kind()) + " cannot be paused"
	}
	r.SetRunning(!l.Running())
	if l.Running() {
		return "layout running"
	}
	return "layout paused"
}

func nextKind(k layout.Kind) layout.Kind {
	for i, known := range layout.Kinds {
		if known == k {
			return layout.Kinds[(i+1)%len(layout.Kinds)]
		}
	}
	return layout.Kinds[0]
}

func describeEvent(ev changes.Event) string {
	switch {
	case ev.IsNode():
		return fmt.Sprintf("%s node %d", ev.Type, ev.Node)
	case ev.IsEdge():
		return fmt.Sprintf("%s edge %d", ev.Type, ev.Edge)
	case ev.Type == changes.EventZoom:
		return fmt.Sprintf("zoom %.2f", ev.Zoom)
	}
	return string(ev.Type)
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	w, h := m.canvasSize()
	var b strings.Builder
	b.WriteString(drawFrame(m.frame, w, h).String())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m tuiModel) statusLine() string {
	l := m.view.Layout()
	state := "stable"
	if l.Running() {
		state = "running"
	}
	g := m.view.Graph()
	parts := []string{
		styleStatusKind.Render(string(l.Kind())),
		styleStatus.Render(state),
		styleStatus.Render("zoom ") + styleStatusValue.Render(fmt.Sprintf("%.2f", m.view.Transform().Zoom())),
		styleStatusValue.Render(fmt.Sprintf("%d", g.NodeCount())) + styleStatus.Render(" nodes"),
		styleStatusValue.Render(fmt.Sprintf("%d", g.EdgeCount())) + styleStatus.Render(" edges"),
		styleStatus.Render(m.view.InteractionState().String()),
	}
	if m.lastEvent != "" {
		parts = append(parts, styleStatus.Render(m.lastEvent))
	}
	if m.status != "" {
		parts = append(parts, StyleWarning.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
