// Package tui is the terminal front end: a braille drawing of the stage,
// mouse and keyboard drops, and a side panel with the readouts, a tilt
// history graph and the drop log.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	panelWidth    = 44
	logLines      = 8
	cursorStep    = 10.0

	padTop, padLeft = 1, 2
)

type TickMsg time.Time

type Options struct {
	StageWidth  float64
	StageHeight float64
	FrameRate   int
	Title       string
	Theme       string
}

// Model draws the driver's state. The driver is only touched from Update,
// which keeps bubbletea's loop the single owner of the simulation.
type Model struct {
	drv     *driver.Driver
	hist    *TiltHistory
	canvas  *Canvas
	view    viewport
	opts    Options
	cursor  float64
	frame   time.Duration
	showLog bool
	theme   Theme
	st      styles
}

func NewModel(drv *driver.Driver, opts Options) Model {
	p := drv.State().Params()
	if opts.StageWidth <= 0 {
		opts.StageWidth = p.CenterX * 2
	}
	if opts.StageHeight <= 0 {
		opts.StageHeight = p.CenterY + 100
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	if opts.Title == "" {
		opts.Title = "seesaw"
	}
	hist := NewTiltHistory()
	drv.AddRenderer(hist)

	m := Model{
		drv:     drv,
		hist:    hist,
		opts:    opts,
		cursor:  p.CenterX,
		frame:   time.Second / time.Duration(opts.FrameRate),
		showLog: true,
	}
	m.setTheme(GetTheme(opts.Theme))
	m.resize(defaultWidth-panelWidth, defaultHeight)
	return m
}

func (m *Model) resize(w, h int) {
	w, h = w-2*padLeft, h-2*padTop
	if w < 20 {
		w = 20
	}
	if h < 8 {
		h = 8
	}
	m.canvas = NewCanvas(w, h)
	m.view = fit(m.canvas, m.opts.StageWidth, m.opts.StageHeight)
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.st = newStyles(t)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.drv.Reset()
		case "left", "h":
			m.moveCursor(-cursorStep)
		case "right", "l":
			m.moveCursor(cursorStep)
		case "H":
			m.moveCursor(-5 * cursorStep)
		case "L":
			m.moveCursor(5 * cursorStep)
		case "enter", " ":
			m.drv.Spawn(m.cursor)
		case "tab":
			m.showLog = !m.showLog
		case "t":
			m.setTheme(nextTheme(m.theme))
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			break
		}
		if x, ok := m.stageXAt(msg.X, msg.Y); ok {
			m.cursor = x
			m.drv.Spawn(x)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-1, msg.Height)
	case TickMsg:
		m.drv.Frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) moveCursor(dx float64) {
	m.cursor += dx
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > m.opts.StageWidth {
		m.cursor = m.opts.StageWidth
	}
}

// stageXAt maps a terminal cell to a stage x. Clicks outside the canvas
// are ignored.
func (m Model) stageXAt(col, row int) (float64, bool) {
	col, row = col-padLeft, row-padTop
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return 0, false
	}
	x := m.view.stageX(col)
	if x < 0 || x > m.opts.StageWidth {
		return 0, false
	}
	return x, true
}

func (m Model) draw(snap seesaw.Snapshot) {
	c, v := m.canvas, m.view
	c.Clear()

	pl := snap.Plank
	c.Pen = m.theme.Pivot
	px, py := v.dot(pl.CenterX, pl.CenterY)
	base := v.length(24)
	c.DrawLine(px, py, px-base/2, py+base)
	c.DrawLine(px, py, px+base/2, py+base)
	c.DrawLine(px-base/2, py+base, px+base/2, py+base)

	c.Pen = m.theme.Plank
	x1, y1, x2, y2 := pl.Ends()
	ax, ay := v.dot(x1, y1)
	bx, by := v.dot(x2, y2)
	c.DrawLine(ax, ay, bx, by)
	c.DrawLine(ax, ay+1, bx, by+1)

	for _, b := range snap.Bodies {
		c.Pen = b.Color
		cx, cy := v.dot(b.X, b.Y)
		r := v.length(b.Radius)
		if b.Resting {
			c.FillCircle(cx, cy, r)
		} else {
			c.DrawCircle(cx, cy, r)
		}
	}

	c.Pen = m.theme.Cursor
	p := m.drv.State().Params()
	mx, my := v.dot(m.cursor, p.SpawnY)
	c.DrawLine(mx, my-3, mx, my)
}

func (m Model) View() string {
	snap := m.drv.Snapshot()
	m.draw(snap)
	canvasView := m.st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.st.title.Render(strings.ToUpper(m.opts.Title)) + "\n")
	status := "IDLE"
	if snap.Phase == seesaw.Active {
		status = fmt.Sprintf("FALLING (%d)", len(snap.Bodies)-len(snap.Resting))
	}
	if snap.Saturated() {
		status += "  " + m.st.accent.Render("MAX TILT")
	}
	s.WriteString(status + "\n\n")

	r := snap.Readout()
	s.WriteString(m.st.value.Render(r.Left) + "\n")
	s.WriteString(m.st.value.Render(r.Right) + "\n")
	s.WriteString(m.st.value.Render(r.Tilt) + "\n")
	s.WriteString(m.st.accent.Render(fmt.Sprintf("Next: %d kg", m.drv.NextWeight())) + "\n")
	s.WriteString(m.st.label.Render(fmt.Sprintf("Drop at %.0fpx", m.cursor-snap.Plank.CenterX)) + "\n")

	if h := m.hist.Values(); len(h) > 1 {
		limit := m.drv.State().Params().MaxAngle
		chart := asciigraph.Plot(h,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.LowerBound(-limit),
			asciigraph.UpperBound(limit),
			asciigraph.Caption("Tilt°"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}

	if m.showLog {
		entries := m.drv.Entries()
		if len(entries) > logLines {
			entries = entries[:logLines]
		}
		s.WriteString("\n" + m.st.label.Render("LOG") + "\n")
		for _, e := range entries {
			s.WriteString(m.st.log.Render(e) + "\n")
		}
	}

	s.WriteString(m.st.help.Render("─────────────────────\nClick/Enter:Drop ←→:Aim\nR:Reset Tab:Log T:Theme Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
}

// Run starts the full screen program with mouse support and blocks until
// the user quits.
func Run(drv *driver.Driver, opts Options) error {
	p := tea.NewProgram(NewModel(drv, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
