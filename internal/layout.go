package simtop

import (
	"github.com/charmbracelet/lipgloss"
)

// Horizontal renders panes side by side
func Horizontal(panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}

	views := make([]string, len(panes))
	for i, pane := range panes {
		views[i] = pane.Render()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// Vertical renders panes stacked vertically
func Vertical(panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}

	views := make([]string, len(panes))
	for i, pane := range panes {
		views[i] = pane.Render()
	}

	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

// Wrap lays panes out left to right in rows of the given number of columns
func Wrap(columns int, panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	for i := 0; i < len(panes); i += columns {
		end := min(i+columns, len(panes))
		rows = append(rows, Horizontal(panes[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// GridSize is the pane arrangement chosen for a terminal size.
type GridSize struct {
	Columns     int
	Rows        int
	InnerWidth  int
	InnerHeight int
}

// minPlotWidth and minPlotHeight are the smallest chart body worth drawing
const (
	minPlotWidth  = gutterWidth + 10
	minPlotHeight = 3
)

// PlanGrid fits n panes into width x height: two columns when the terminal
// is wide enough, one otherwise. ok is false when the charts would be too
// small to read.
func PlanGrid(n, width, height int) (GridSize, bool) {
	if n < 1 {
		return GridSize{}, false
	}
	columns := 2
	if width < 80 || n == 1 {
		columns = 1
	}
	rows := (n + columns - 1) / columns

	g := GridSize{
		Columns:     columns,
		Rows:        rows,
		InnerWidth:  width/columns - 2,
		InnerHeight: height/rows - 2,
	}
	// title row + chart body + x-axis row
	ok := g.InnerWidth >= minPlotWidth && g.InnerHeight-2 >= minPlotHeight
	return g, ok
}
