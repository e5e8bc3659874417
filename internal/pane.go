package simtop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pane is a bordered panel on the dashboard. Width and height are the inner
// size; the border adds one cell on every side.
//
//	pane := NewPane("CPU  42.7%", 38, 10).
//	    SetContent(chart.Render(38, 9)).
//	    SetAccent(CPU.Color())
//	fmt.Println(pane.Render())
type Pane struct {
	title       string
	content     string
	width       int
	height      int
	accent      lipgloss.Color
	borderStyle lipgloss.Style
	focused     bool
}

// NewPane creates a new pane with default styling
func NewPane(title string, width, height int) Pane {
	return Pane{
		title:  title,
		width:  width,
		height: height,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder),
	}
}

// SetTitle sets the pane title
func (p Pane) SetTitle(title string) Pane {
	p.title = title
	return p
}

// SetContent sets the pane content
func (p Pane) SetContent(content string) Pane {
	p.content = content
	return p
}

// SetSize sets the inner dimensions
func (p Pane) SetSize(width, height int) Pane {
	p.width = width
	p.height = height
	return p
}

// SetAccent colors the border when the pane is focused
func (p Pane) SetAccent(color string) Pane {
	p.accent = lipgloss.Color(color)
	return p
}

// SetFocused sets the focus state
func (p Pane) SetFocused(focused bool) Pane {
	p.focused = focused
	return p
}

// Size returns the outer size including the border
func (p Pane) Size() (int, int) {
	return p.width + 2, p.height + 2
}

// Render draws the pane. Content is cut to the inner height so a pane never
// grows past its slot.
func (p Pane) Render() string {
	var lines []string
	if p.title != "" {
		lines = append(lines, p.title)
	}
	if p.content != "" {
		lines = append(lines, strings.Split(p.content, "\n")...)
	}
	if p.height > 0 && len(lines) > p.height {
		lines = lines[:p.height]
	}

	border := colorBorder
	if p.focused {
		border = colorFocus
		if p.accent != "" {
			border = p.accent
		}
	}

	return p.borderStyle.
		BorderForeground(border).
		Width(p.width).
		MaxWidth(p.width + 2).
		Height(p.height).
		Render(strings.Join(lines, "\n"))
}

// String is a convenience method that calls Render
func (p Pane) String() string {
	return p.Render()
}
