package simtop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TabSet is the zoom view: one enlarged chart with a tab per metric.
type TabSet struct {
	charts      []*Chart
	selectedTab int
	width       int
	height      int
}

// NewTabSet creates a TabSet over charts, in display order
func NewTabSet(charts ...*Chart) *TabSet {
	return &TabSet{
		charts: charts,
		width:  40,
		height: 10,
	}
}

// SetSize sets the dimensions for rendering
func (ts *TabSet) SetSize(width, height int) *TabSet {
	ts.width = width
	ts.height = height
	return ts
}

// SelectTab changes the active tab
func (ts *TabSet) SelectTab(index int) *TabSet {
	if index >= 0 && index < len(ts.charts) {
		ts.selectedTab = index
	}
	return ts
}

// NextTab moves to the next tab (wraps around)
func (ts *TabSet) NextTab() *TabSet {
	if len(ts.charts) > 0 {
		ts.selectedTab = (ts.selectedTab + 1) % len(ts.charts)
	}
	return ts
}

// PrevTab moves to the previous tab (wraps around)
func (ts *TabSet) PrevTab() *TabSet {
	if len(ts.charts) > 0 {
		ts.selectedTab = (ts.selectedTab - 1 + len(ts.charts)) % len(ts.charts)
	}
	return ts
}

// Selected returns the chart on the active tab, or nil
func (ts *TabSet) Selected() *Chart {
	if ts.selectedTab < len(ts.charts) {
		return ts.charts[ts.selectedTab]
	}
	return nil
}

func (ts *TabSet) SelectedTab() int {
	return ts.selectedTab
}

// Render draws the tab bar, the chart title with its window statistics and
// the chart filling the remaining height.
func (ts *TabSet) Render() string {
	chart := ts.Selected()
	if chart == nil {
		return "No charts available"
	}

	var b strings.Builder

	tabs := ts.renderTabs()
	b.WriteString(tabs)
	b.WriteString("\n")
	b.WriteString(chart.Title())
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(chart.StatsLine()))
	b.WriteString("\n")

	bodyHeight := ts.height - lipgloss.Height(tabs) - 1
	b.WriteString(chart.Render(ts.width, bodyHeight))

	return b.String()
}

// renderTabs renders the tab navigation bar
func (ts *TabSet) renderTabs() string {
	inactive := lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorInactive)

	rendered := make([]string, 0, len(ts.charts))
	for i, c := range ts.charts {
		if i == ts.selectedTab {
			active := inactive.
				Foreground(lipgloss.Color(c.Kind.Color())).
				Background(colorBarBg).
				Bold(true).
				BorderForeground(lipgloss.Color(c.Kind.Color()))
			rendered = append(rendered, active.Render(c.Kind.String()))
			continue
		}
		rendered = append(rendered, inactive.Render(c.Kind.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// String is a convenience method that calls Render
func (ts *TabSet) String() string {
	return ts.Render()
}
