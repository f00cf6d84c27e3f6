package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/orgchart/pkg/chart"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/viewport"
)

// A terminal cell covers cellWidth x cellHeight layout pixels at zoom 1.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	frameInterval = time.Second / 60
	wheelDelta    = 100.0
	panStep       = 4 * cellWidth
)

var (
	styleConnector = lipgloss.NewStyle().Foreground(colorDim)
	styleSelected  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatusBar = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
	styleHeader    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// frameMsg carries the timestamp of one animation frame.
type frameMsg time.Time

// viewerModel is the interactive chart viewer. Keys and mouse events drive
// a viewport.Controller; its frame loop is flushed on tea.Tick frames while
// work is pending.
type viewerModel struct {
	forest []*org.Node
	layout layout.Config
	title  string

	chart    chart.Chart
	ctrl     *viewport.Controller
	loop     *viewport.FrameLoop
	ticking  bool
	selected string

	width, height int
}

func newViewerModel(forest []*org.Node, lc layout.Config, vc viewport.Config, title string, clock func() time.Time) *viewerModel {
	loop := viewport.NewFrameLoop(clock)
	m := &viewerModel{
		forest: forest,
		layout: lc,
		title:  title,
		ctrl:   viewport.New(vc, loop),
		loop:   loop,
		width:  80,
		height: 24,
	}
	m.relayout()
	return m
}

// relayout recomputes the chart after an expansion change and keeps the
// selection on a visible card.
func (m *viewerModel) relayout() {
	positioned := m.layout.Layout(m.forest, 0, 0)
	m.chart = chart.New(positioned, m.ctrl.State())
	m.chart.Title = m.title
	if _, ok := m.chart.Card(m.selected); !ok {
		m.selected = ""
		if len(m.chart.Cards) > 0 {
			m.selected = m.chart.Cards[0].ID
		}
	}
}

func (m *viewerModel) Init() tea.Cmd { return nil }

// close unmounts the controller, dropping any pending frame. Safe to call
// more than once.
func (m *viewerModel) close() { m.ctrl.Unmount() }

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.handleKey(msg.String()) {
			m.close()
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case frameMsg:
		m.ticking = false
		m.loop.Flush(time.Time(msg))
	}
	return m, m.scheduleFrame()
}

// scheduleFrame starts a tick when the controller waits for a frame and no
// tick is in flight.
func (m *viewerModel) scheduleFrame() tea.Cmd {
	if m.ticking || !m.ctrl.HasPendingFrame() {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// handleKey applies one key press and reports whether the viewer should quit.
func (m *viewerModel) handleKey(key string) bool {
	switch key {
	case "q", "ctrl+c", "esc":
		return true

	case "+":
		m.ctrl.ZoomIn()
	case "-":
		m.ctrl.ZoomOut()
	case "alt+=", "alt++", "alt+-", "alt+0":
		m.ctrl.Key(strings.TrimPrefix(key, "alt+"), viewport.Modifiers{Meta: true})
	case "f":
		m.ctrl.FitToView()
	case "F":
		w, h := m.surface()
		m.ctrl.FrameBounds(m.chart.Bounds, w, h, 2*cellWidth)
	case "r":
		m.ctrl.Reset()

	case "h":
		m.ctrl.PanBy(viewport.Point{X: panStep})
	case "l":
		m.ctrl.PanBy(viewport.Point{X: -panStep})
	case "k":
		m.ctrl.PanBy(viewport.Point{Y: panStep})
	case "j":
		m.ctrl.PanBy(viewport.Point{Y: -panStep})

	case "left", "right":
		m.selectSibling(key == "right")
	case "up":
		if c, ok := m.chart.Card(m.selected); ok && c.ParentID != "" {
			m.selected = c.ParentID
		}
	case "down":
		for _, c := range m.chart.Cards {
			if c.ParentID == m.selected {
				m.selected = c.ID
				break
			}
		}

	case "enter", " ":
		if c, ok := m.chart.Card(m.selected); ok && c.Collapsible() {
			m.forest = org.Toggle(m.forest, m.selected)
			m.relayout()
		}
	case "e":
		m.forest = org.ExpandAll(m.forest)
		m.relayout()
	case "c":
		m.forest = org.CollapseAll(m.forest)
		m.relayout()
	}
	return false
}

// selectSibling moves the selection through the visible cards in preorder.
func (m *viewerModel) selectSibling(next bool) {
	for i, c := range m.chart.Cards {
		if c.ID != m.selected {
			continue
		}
		switch {
		case next && i+1 < len(m.chart.Cards):
			m.selected = m.chart.Cards[i+1].ID
		case !next && i > 0:
			m.selected = m.chart.Cards[i-1].ID
		}
		return
	}
}

func (m *viewerModel) handleMouse(msg tea.MouseMsg) {
	p := viewport.Point{X: float64(msg.X) * cellWidth, Y: float64(msg.Y-1) * cellHeight}
	mods := viewport.Modifiers{Ctrl: msg.Ctrl, Alt: msg.Alt, Shift: msg.Shift}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Wheel(-wheelDelta, mods)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Wheel(wheelDelta, mods)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id, ok := m.cardAt(p); ok {
			m.selected = id
		}
		m.ctrl.PointerDown(viewport.ButtonPrimary, p)
	case msg.Action == tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
}

// cardAt returns the card under screen point p.
func (m *viewerModel) cardAt(p viewport.Point) (string, bool) {
	lp := m.ctrl.Transform().Invert(p)
	for i := len(m.chart.Cards) - 1; i >= 0; i-- {
		c := m.chart.Cards[i]
		if lp.X >= c.X && lp.X < c.X+c.Width && lp.Y >= c.Y && lp.Y < c.Y+c.Height {
			return c.ID, true
		}
	}
	return "", false
}

// surface returns the drawable area in screen pixels.
func (m *viewerModel) surface() (float64, float64) {
	return float64(m.width) * cellWidth, float64(m.canvasRows()) * cellHeight
}

func (m *viewerModel) canvasRows() int { return max(m.height-2, 1) }

// =============================================================================
// Rendering
// =============================================================================

func (m *viewerModel) View() string {
	cv := newCanvas(m.width, m.canvasRows())
	t := m.ctrl.Transform()

	for _, conn := range m.chart.Connectors {
		pts := conn.Points()
		for i := 1; i < len(pts); i++ {
			x0, y0 := toCell(t, pts[i-1].X, pts[i-1].Y)
			x1, y1 := toCell(t, pts[i].X, pts[i].Y)
			cv.line(x0, y0, x1, y1)
		}
	}
	for _, c := range m.chart.Cards {
		m.drawCard(cv, t, c)
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(cv.String())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func toCell(t viewport.Transform, x, y float64) (int, int) {
	p := t.Apply(viewport.Point{X: x, Y: y})
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

func (m *viewerModel) drawCard(cv *canvas, t viewport.Transform, c chart.Card) {
	x0, y0 := toCell(t, c.X, c.Y)
	x1, y1 := toCell(t, c.X+c.Width, c.Y+c.Height)
	x1, y1 = max(x1-1, x0), max(y1-1, y0)

	style := lipgloss.NewStyle()
	if c.Color != "" {
		style = style.Foreground(lipgloss.Color(c.Color))
	}
	if c.ID == m.selected {
		style = styleSelected
	}

	if x1-x0 < 2 || y1-y0 < 2 {
		cv.set(x0, y0, '■', style)
		return
	}
	cv.box(x0, y0, x1, y1, style)

	lines := []string{c.Label, c.Subtitle}
	if !c.Expanded && c.HiddenCount > 0 {
		lines = append(lines, fmt.Sprintf("+%d", c.HiddenCount))
	}
	for i, text := range lines {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		cv.text(x0+2, y, x1-x0-3, text, lipgloss.NewStyle())
	}
}

func (m *viewerModel) header() string {
	var crumbs []string
	for _, n := range org.PathTo(m.forest, m.selected) {
		crumbs = append(crumbs, n.DisplayLabel())
	}
	title := m.title
	if title == "" {
		title = appName
	}
	line := styleHeader.Render(title)
	if len(crumbs) > 0 {
		line += StyleDim.Render("  " + strings.Join(crumbs, " › "))
	}
	return line
}

func (m *viewerModel) statusBar() string {
	s := m.ctrl.State()
	total := m.chart.NodeCount()
	text := fmt.Sprintf(" %s  %d/%d visible  %s  ⏎ toggle  ←→↑↓ select  hjkl pan  +/- zoom  f fit  F frame  q quit",
		StyleNumber.Render(fmt.Sprintf("%.0f%%", s.Zoom*100)), len(m.chart.Cards), total, m.ctrl.Phase())
	return styleStatusBar.Width(m.width).MaxHeight(1).Render(text)
}

// =============================================================================
// canvas
// =============================================================================

// canvas is a character grid with one style per cell.
type canvas struct {
	w, h   int
	cells  []rune
	styles []lipgloss.Style
	plain  []bool
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 1), max(h, 1)
	cv := &canvas{
		w:      w,
		h:      h,
		cells:  make([]rune, w*h),
		styles: make([]lipgloss.Style, w*h),
		plain:  make([]bool, w*h),
	}
	for i := range cv.cells {
		cv.cells[i] = ' '
		cv.plain[i] = true
	}
	return cv
}

func (cv *canvas) set(x, y int, r rune, style lipgloss.Style) {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return
	}
	i := y*cv.w + x
	cv.cells[i] = r
	cv.styles[i] = style
	cv.plain[i] = false
}

func (cv *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= cv.w || y >= cv.h {
		return ' '
	}
	return cv.cells[y*cv.w+x]
}

// line draws an axis-aligned connector segment. Crossings become '┼'.
func (cv *canvas) line(x0, y0, x1, y1 int) {
	if x0 == x1 {
		for y := min(y0, y1); y <= max(y0, y1); y++ {
			r := '│'
			if cv.at(x0, y) == '─' {
				r = '┼'
			}
			cv.set(x0, y, r, styleConnector)
		}
		return
	}
	for x := min(x0, x1); x <= max(x0, x1); x++ {
		r := '─'
		if cv.at(x, y0) == '│' {
			r = '┼'
		}
		cv.set(x, y0, r, styleConnector)
	}
}

// box draws a rounded border and clears its interior.
func (cv *canvas) box(x0, y0, x1, y1 int, style lipgloss.Style) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			var r rune
			switch {
			case x == x0 && y == y0:
				r = '╭'
			case x == x1 && y == y0:
				r = '╮'
			case x == x0 && y == y1:
				r = '╰'
			case x == x1 && y == y1:
				r = '╯'
			case y == y0 || y == y1:
				r = '─'
			case x == x0 || x == x1:
				r = '│'
			default:
				r = ' '
			}
			cv.set(x, y, r, style)
		}
	}
}

// text writes s at (x, y), truncated to width runes.
func (cv *canvas) text(x, y, width int, s string, style lipgloss.Style) {
	if width <= 0 {
		return
	}
	runes := []rune(s)
	if len(runes) > width {
		runes = append(runes[:max(width-1, 0)], '…')
	}
	for i, r := range runes {
		cv.set(x+i, y, r, style)
	}
}

// String renders the grid, styling runs of cells that share a style.
func (cv *canvas) String() string {
	var b strings.Builder
	for y := 0; y < cv.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := y * cv.w
		for x := 0; x < cv.w; {
			i := row + x
			j := x + 1
			for j < cv.w && cv.plain[row+j] == cv.plain[i] && sameStyle(cv.styles[row+j], cv.styles[i]) {
				j++
			}
			run := string(cv.cells[i : row+j])
			if cv.plain[i] {
				b.WriteString(run)
			} else {
				b.WriteString(cv.styles[i].Render(run))
			}
			x = j
		}
	}
	return b.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBold() == b.GetBold()
}

// plainText returns the grid without styling.
func (cv *canvas) plainText() string {
	var b strings.Builder
	for y := 0; y < cv.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(cv.cells[y*cv.w : (y+1)*cv.w]))
	}
	return b.String()
}
