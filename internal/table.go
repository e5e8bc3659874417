package simtop

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WrapTable is a lipgloss table that splits its rows into side-by-side
// tables when they do not fit in maxHeight.
type WrapTable struct {
	headers     []string
	rows        [][]string
	maxHeight   int
	borderStyle lipgloss.Style
	styleFunc   table.StyleFunc
}

// NewWrapTable creates a new wrap table
func NewWrapTable() *WrapTable {
	return &WrapTable{
		borderStyle: lipgloss.NewStyle().Foreground(colorBorder),
	}
}

// Headers sets the table headers
func (wt *WrapTable) Headers(headers ...string) *WrapTable {
	wt.headers = headers
	return wt
}

// Rows sets the table rows
func (wt *WrapTable) Rows(rows ...[]string) *WrapTable {
	wt.rows = rows
	return wt
}

// MaxHeight sets the height limit; zero means unlimited
func (wt *WrapTable) MaxHeight(height int) *WrapTable {
	wt.maxHeight = height
	return wt
}

// StyleFunc styles individual cells. Rows are indexed across the whole
// table, not per wrapped chunk.
func (wt *WrapTable) StyleFunc(fn table.StyleFunc) *WrapTable {
	wt.styleFunc = fn
	return wt
}

// Render renders the table with wrapping if needed
func (wt *WrapTable) Render() string {
	if len(wt.rows) == 0 {
		return ""
	}

	// header line plus top, bottom and header separator borders
	perTable := len(wt.rows)
	if wt.maxHeight > 0 {
		perTable = max(wt.maxHeight-4, 1)
	}

	var tables []string
	for i := 0; i < len(wt.rows); i += perTable {
		end := min(i+perTable, len(wt.rows))
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(wt.borderStyle).
			Headers(wt.headers...).
			Rows(wt.rows[i:end]...)
		if wt.styleFunc != nil {
			offset, fn := i, wt.styleFunc
			t = t.StyleFunc(func(row, col int) lipgloss.Style {
				if row >= 0 {
					row += offset
				}
				return fn(row, col)
			})
		}
		tables = append(tables, t.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tables...)
}

// String is a convenience method that calls Render
func (wt *WrapTable) String() string {
	return wt.Render()
}

// ReadoutTable is the compact view used when the terminal is too small for
// charts: one row per metric with its readout and window statistics.
func ReadoutTable(charts []*Chart, maxHeight int) string {
	rows := make([][]string, 0, len(charts))
	for _, c := range charts {
		s := c.Stats()
		rows = append(rows, []string{
			c.Kind.String(),
			c.Text(),
			FormatReadout(s.Min),
			FormatReadout(s.Max),
			FormatReadout(s.Mean),
		})
	}

	return NewWrapTable().
		Headers("Metric", "Now", "Min", "Max", "Mean").
		Rows(rows...).
		MaxHeight(maxHeight).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row >= 0 && col == 0 && row < len(charts) {
				return style.Inherit(metricStyle(charts[row].Kind))
			}
			return style
		}).
		Render()
}
