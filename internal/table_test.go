package simtop

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWrapTable(t *testing.T) {
	rows := [][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}}

	tests := []struct {
		name      string
		maxHeight int
		height    int
	}{
		{"unlimited", 0, 8},
		{"fits", 20, 8},
		{"wraps", 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewWrapTable().Headers("Name", "N").Rows(rows...).MaxHeight(tt.maxHeight).Render()
			if h := lipgloss.Height(out); h != tt.height {
				t.Errorf("height = %d, want %d:\n%s", h, tt.height, out)
			}
			for _, r := range rows {
				if !strings.Contains(out, r[0]) {
					t.Errorf("row %q missing", r[0])
				}
			}
		})
	}

	if NewWrapTable().Headers("x").Render() != "" {
		t.Error("table without rows should render nothing")
	}
}

func TestWrapTable_StyleFuncSeesAbsoluteRows(t *testing.T) {
	var seen []int
	_ = NewWrapTable().
		Headers("Name").
		Rows([]string{"a"}, []string{"b"}, []string{"c"}).
		MaxHeight(5).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 {
				seen = append(seen, row)
			}
			return lipgloss.NewStyle()
		}).
		Render()

	for _, want := range []int{0, 1, 2} {
		found := false
		for _, r := range seen {
			found = found || r == want
		}
		if !found {
			t.Errorf("row %d never styled; saw %v", want, seen)
		}
	}
}

func TestReadoutTable(t *testing.T) {
	var charts []*Chart
	for _, kind := range MetricOrder {
		c := newTestChart(t, kind, AnimationConfig{}, 10, 30)
		_ = c.SetText("30.0%")
		charts = append(charts, c)
	}

	out := ReadoutTable(charts, 0)
	for _, want := range []string{"Metric", "Now", "Mean", "CPU", "GPU", "30.0%", "20.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}
