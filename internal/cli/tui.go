package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
	"github.com/Errze/note-bad-ideas/pkg/pipeline"
	"github.com/Errze/note-bad-ideas/pkg/render"
	"github.com/Errze/note-bad-ideas/pkg/viewport"
)

// A terminal cell stands for cellW×cellH screen units, so a square in layout
// space looks square on a typical terminal font.
const (
	cellW = 8.0
	cellH = 16.0

	headerRows = 1
	footerRows = 3
)

var (
	tuiEdgeStyle     = lipgloss.NewStyle().Foreground(colorFaint)
	tuiLabelStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	tuiHoverStyle    = lipgloss.NewStyle().Underline(true).Foreground(colorText)
	tuiHelpStyle     = lipgloss.NewStyle().Foreground(colorFaint)
)

// docsMsg carries a fresh read of the group after a file change.
type docsMsg []graph.Document

// errMsg reports a failed reload.
type errMsg struct{ err error }

// exploreModel is the bubbletea model of "notegraph explore". It owns the
// workspace; every engine call happens inside Update.
type exploreModel struct {
	ctx   context.Context
	group string
	ws    *pipeline.Workspace
	view  *viewport.Viewport
	docs  map[string]graph.Document

	width, height int
	fitted        bool
	pointer       viewport.Point

	opened string
	status string
}

func newExploreModel(ctx context.Context, group string) *exploreModel {
	return &exploreModel{ctx: ctx, group: group, docs: map[string]graph.Document{}}
}

// attach wires the workspace; its viewport must have been created with
// m.onOpen as open callback.
func (m *exploreModel) attach(ws *pipeline.Workspace) {
	m.ws = ws
	m.view = ws.Viewport()
}

func (m *exploreModel) onOpen(id string) { m.opened = id }

func (m *exploreModel) setDocs(docs []graph.Document) {
	m.docs = make(map[string]graph.Document, len(docs))
	for _, d := range docs {
		m.docs[d.ID] = d
	}
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.fitted {
			m.fit()
			m.fitted = true
		}

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		return m, m.key(msg)

	case docsMsg:
		snap, err := m.ws.Rebuild(m.ctx, msg)
		if err != nil {
			m.status = "rebuild failed: " + err.Error()
			break
		}
		m.setDocs(msg)
		if _, ok := m.docs[m.opened]; !ok {
			m.opened = ""
		}
		m.status = fmt.Sprintf("reloaded %d notes", len(snap.Graph.Nodes))

	case errMsg:
		m.status = "reload failed: " + msg.err.Error()
	}
	return m, nil
}

func (m *exploreModel) mouse(msg tea.MouseMsg) {
	if msg.Y < headerRows || msg.Y >= headerRows+m.canvasRows() {
		if msg.Action == tea.MouseActionRelease {
			m.apply(viewport.Event{Type: viewport.EventUp})
		}
		return
	}
	m.pointer = cellPoint(msg.X, msg.Y-headerRows)
	ev := viewport.Event{X: m.pointer.X, Y: m.pointer.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			ev.Type, ev.DeltaY = viewport.EventWheel, -1
		case tea.MouseButtonWheelDown:
			ev.Type, ev.DeltaY = viewport.EventWheel, 1
		case tea.MouseButtonLeft:
			ev.Type, ev.Button = viewport.EventDown, viewport.ButtonPrimary
		case tea.MouseButtonMiddle:
			ev.Type, ev.Button = viewport.EventDown, viewport.ButtonMiddle
		case tea.MouseButtonRight:
			ev.Type, ev.Button = viewport.EventDown, viewport.ButtonSecondary
		default:
			return
		}
	case tea.MouseActionRelease:
		ev.Type = viewport.EventUp
	case tea.MouseActionMotion:
		ev.Type = viewport.EventMove
	default:
		return
	}
	m.apply(ev)
}

func (m *exploreModel) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "enter", "o":
		m.apply(viewport.Event{Type: viewport.EventOpen, X: m.pointer.X, Y: m.pointer.Y})
	case "esc":
		m.apply(viewport.Event{Type: viewport.EventLeave})
		m.opened = ""
	case "+", "=":
		m.apply(viewport.Event{Type: viewport.EventWheel, DeltaY: -1})
	case "-":
		m.apply(viewport.Event{Type: viewport.EventWheel, DeltaY: 1})
	case "r":
		m.apply(viewport.Event{Type: viewport.EventReset})
	case "f":
		m.fit()
	case "c":
		if id := m.view.State().SelectedID; id != "" {
			m.view.CenterOn(id, float64(m.width)*cellW, float64(m.canvasRows())*cellH)
		}
	case "a":
		next := nextAlgorithm(m.ws.Options().Algorithm)
		if _, err := m.ws.SetAlgorithm(m.ctx, next); err != nil {
			m.status = err.Error()
			break
		}
		m.fit()
		m.status = "layout: " + string(next)
	}
	return nil
}

func (m *exploreModel) apply(ev viewport.Event) {
	if _, err := m.view.Apply(ev); err != nil {
		m.status = err.Error()
	}
}

// fit zooms and pans so the whole canvas is visible and centred. The
// selection is kept.
func (m *exploreModel) fit() {
	opts := m.ws.Options()
	c := opts.Canvas()
	sw, sh := float64(m.width)*cellW, float64(m.canvasRows())*cellH
	if sw <= 0 || sh <= 0 {
		return
	}
	st := m.view.State()
	z := math.Min(sw/c.Width, sh/c.Height)
	m.view.Restore(viewport.State{
		Zoom:       z,
		Pan:        viewport.Point{X: (sw - c.Width*z) / 2, Y: (sh - c.Height*z) / 2},
		SelectedID: st.SelectedID,
	})
}

func (m *exploreModel) canvasRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

// cellPoint maps a canvas cell to the screen point at its centre.
func cellPoint(col, row int) viewport.Point {
	return viewport.Point{X: float64(col)*cellW + cellW/2, Y: float64(row)*cellH + cellH/2}
}

// screenCell maps a screen point to the canvas cell containing it.
func screenCell(p viewport.Point) (col, row int) {
	return int(math.Floor(p.X / cellW)), int(math.Floor(p.Y / cellH))
}

func nextAlgorithm(a layout.Algorithm) layout.Algorithm {
	all := layout.Algorithms()
	for i, x := range all {
		if x == a {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// =============================================================================
// Drawing
// =============================================================================

func (m *exploreModel) View() string {
	if m.width == 0 {
		return ""
	}
	snap := m.ws.Snapshot()
	st := m.view.State()
	rows, cols := m.canvasRows(), m.width

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	set := func(col, row int, s string) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = s
		}
	}
	cellOf := func(id string) (int, int, bool) {
		p, ok := snap.Layout.Positions[id]
		if !ok {
			return 0, 0, false
		}
		col, row := screenCell(m.view.ToScreen(viewport.Point{X: p.X, Y: p.Y}))
		return col, row, true
	}

	dot := tuiEdgeStyle.Render("·")
	for _, e := range snap.Graph.Edges {
		c0, r0, ok0 := cellOf(e.Source)
		c1, r1, ok1 := cellOf(e.Target)
		if !ok0 || !ok1 {
			continue
		}
		steps := max(abs(c1-c0), abs(r1-r0))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			set(c0+int(math.Round(t*float64(c1-c0))), r0+int(math.Round(t*float64(r1-r0))), dot)
		}
	}

	for i, n := range snap.Graph.Nodes {
		col, row, ok := cellOf(n.ID)
		if !ok {
			continue
		}
		glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(render.Color(i))).Render("●")
		label := tuiLabelStyle
		switch n.ID {
		case st.SelectedID:
			glyph = tuiSelectedStyle.Render("◉")
			label = tuiSelectedStyle
		case st.HoveredID:
			label = tuiHoverStyle
		}
		set(col, row, glyph)
		for j, r := range []rune(n.Display()) {
			set(col+2+j, row, label.Render(string(r)))
		}
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName+" · "+m.group) + " " + StyleDim.Render(fmt.Sprintf(
		"%s · %d notes · %d links · zoom %.2f", m.ws.Options().Algorithm, len(snap.Graph.Nodes), len(snap.Graph.Edges), st.Zoom)))
	b.WriteString("\n")
	for _, r := range grid {
		b.WriteString(strings.Join(r, ""))
		b.WriteString("\n")
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m *exploreModel) footer() string {
	var lines [footerRows]string
	if d, ok := m.docs[m.opened]; ok {
		title := d.Title
		if strings.TrimSpace(title) == "" {
			title = d.ID
		}
		lines[0] = StyleTitle.Render(title)
		lines[1] = StyleValue.Render(truncate(firstLine(d.Content), m.width))
	} else if m.status != "" {
		lines[0] = StyleWarning.Render(truncate(m.status, m.width))
	}
	lines[2] = tuiHelpStyle.Render(truncate("drag pan · wheel/+/- zoom · click select · o open · c center · a layout · f fit · r reset · q quit", m.width))
	return strings.Join(lines[:], "\n")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
