package simtop

import "github.com/charmbracelet/lipgloss"

// Palette shared by the terminal renderer
var (
	colorBorder   = lipgloss.Color("240")
	colorFocus    = lipgloss.Color("170")
	colorMuted    = lipgloss.Color("240")
	colorAxis     = lipgloss.Color("244")
	colorBarBg    = lipgloss.Color("235")
	colorInactive = lipgloss.Color("236")

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	axisStyle  = lipgloss.NewStyle().Foreground(colorAxis)
)

// metricStyle is the bold label style in the metric's own color
func metricStyle(kind MetricKind) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(kind.Color())).
		Bold(true)
}
