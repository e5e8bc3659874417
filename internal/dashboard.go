package simtop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TerminalDashboard is the bubbletea renderer. It provides the display
// slots for every metric and, as a Repeater, runs the program whose tick
// messages drive the update loop.
type TerminalDashboard struct {
	charts  []*Chart
	byKind  map[MetricKind]*Chart
	logger  *slog.Logger
	options []tea.ProgramOption
}

// NewTerminalDashboard creates one chart slot per metric. opts are passed to
// tea.NewProgram after the defaults.
func NewTerminalDashboard(anim AnimationConfig, logger *slog.Logger, opts ...tea.ProgramOption) *TerminalDashboard {
	if logger == nil {
		logger = discardLogger()
	}
	d := &TerminalDashboard{
		byKind:  make(map[MetricKind]*Chart, len(MetricOrder)),
		logger:  logger,
		options: opts,
	}
	for _, kind := range MetricOrder {
		c := NewChart(kind, anim)
		d.charts = append(d.charts, c)
		d.byKind[kind] = c
	}
	return d
}

func (d *TerminalDashboard) Chart(id string) (RenderConsumer, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ChartID() {
		return nil, false
	}
	return d.byKind[kind], true
}

func (d *TerminalDashboard) Readout(id string) (TextSink, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ReadoutID() {
		return nil, false
	}
	return d.byKind[kind], true
}

// Charts returns the slots in display order
func (d *TerminalDashboard) Charts() []*Chart {
	return d.charts
}

// Repeat runs the terminal program until the user quits or ctx is done.
// fn runs inside the program's update loop, so it never races a redraw.
func (d *TerminalDashboard) Repeat(ctx context.Context, interval time.Duration, fn func()) error {
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, d.options...)
	p := tea.NewProgram(newDashboardModel(d.charts, interval, fn), opts...)

	d.logger.Info("terminal dashboard running", "interval", interval)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run terminal dashboard: %w", err)
	}
	d.logger.Info("terminal dashboard closed")
	return nil
}

type tickMsg time.Time

type frameMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func frameCmd() tea.Cmd {
	return tea.Tick(FrameDuration(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type dashboardModel struct {
	charts    []*Chart
	tabs      *TabSet
	interval  time.Duration
	onTick    func()
	keys      keyMap
	help      help.Model
	zoomed    bool
	animating bool
	width     int
	height    int
	ready     bool
}

func newDashboardModel(charts []*Chart, interval time.Duration, onTick func()) dashboardModel {
	return dashboardModel{
		charts:   charts,
		tabs:     NewTabSet(charts...),
		interval: interval,
		onTick:   onTick,
		keys:     keys,
		help:     help.New(),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Zoom):
			m.zoomed = !m.zoomed
		case key.Matches(msg, m.keys.NextTab):
			m.tabs.NextTab()
		case key.Matches(msg, m.keys.PrevTab):
			m.tabs.PrevTab()
		default:
			for i, b := range m.keys.tabKeys() {
				if key.Matches(msg, b) {
					m.tabs.SelectTab(i)
					m.zoomed = true
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case tickMsg:
		if m.onTick != nil {
			m.onTick()
		}
		cmds := []tea.Cmd{tickCmd(m.interval)}
		if !m.animating && m.anyAnimating() {
			m.animating = true
			cmds = append(cmds, frameCmd())
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		moving := false
		for _, c := range m.charts {
			if c.Step(FrameDuration()) {
				moving = true
			}
		}
		if moving {
			return m, frameCmd()
		}
		m.animating = false
	}

	return m, nil
}

func (m dashboardModel) anyAnimating() bool {
	for _, c := range m.charts {
		if c.Animating() {
			return true
		}
	}
	return false
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(colorMuted).
		Background(colorBarBg).
		Width(m.width).
		Render(m.help.View(m.keys))

	// one line for the help bar
	available := m.height - 1

	if m.zoomed {
		if view, ok := m.zoomView(available); ok {
			return view + "\n" + helpBar
		}
	} else if view, ok := m.gridView(available); ok {
		return view + "\n" + helpBar
	}

	return ReadoutTable(m.charts, available) + "\n" + helpBar
}

func (m dashboardModel) gridView(height int) (string, bool) {
	g, ok := PlanGrid(len(m.charts), m.width, height)
	if !ok {
		return "", false
	}

	panes := make([]Pane, 0, len(m.charts))
	for i, c := range m.charts {
		pane := NewPane(c.Title(), g.InnerWidth, g.InnerHeight).
			SetContent(c.Render(g.InnerWidth, g.InnerHeight-1)).
			SetAccent(c.Kind.Color()).
			SetFocused(i == m.tabs.SelectedTab())
		panes = append(panes, pane)
	}
	return Wrap(g.Columns, panes...), true
}

func (m dashboardModel) zoomView(height int) (string, bool) {
	innerW, innerH := m.width-2, height-2
	// tab bar (3), title (1), x-axis (1)
	if innerW < minPlotWidth || innerH-5 < minPlotHeight {
		return "", false
	}

	m.tabs.SetSize(innerW, innerH)
	pane := NewPane("", innerW, innerH).
		SetContent(m.tabs.Render()).
		SetAccent(m.tabs.Selected().Kind.Color()).
		SetFocused(true)
	return pane.Render(), true
}
