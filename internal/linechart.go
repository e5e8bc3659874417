package simtop

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// gutterWidth is the space left of the plot for y labels and the axis line
const gutterWidth = 4

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// LineChartConfig describes one filled line chart.
type LineChartConfig struct {
	Data []float64
	Axis []int

	// Width includes the y-axis gutter; Height counts plot rows only, the
	// x-axis labels take one more row.
	Width  int
	Height int

	Min   float64
	Max   float64
	Color string
}

// RenderLineChart rasterises data as an area chart with eighth-block
// resolution. Points are spread evenly across the width and interpolated
// between samples. It returns "" when there is no room to draw.
func RenderLineChart(cfg LineChartConfig) string {
	plotW := cfg.Width - gutterWidth
	if plotW < 2 || cfg.Height < 1 {
		return ""
	}

	lo, hi := cfg.Min, cfg.Max
	if hi <= lo {
		lo, hi = 0, SCALE_MAX
	}

	levels := make([]int, plotW)
	for x := range levels {
		frac := (sampleAt(cfg.Data, x, plotW, lo) - lo) / (hi - lo)
		frac = math.Max(0, math.Min(1, frac))
		levels[x] = int(math.Round(frac * float64(cfg.Height*8)))
	}

	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Color))
	line := make([]rune, plotW)

	var b strings.Builder
	for row := cfg.Height - 1; row >= 0; row-- {
		for x, lvl := range levels {
			line[x] = blocks[min(max(lvl-row*8, 0), 8)]
		}
		b.WriteString(axisStyle.Render(yLabel(row, cfg.Height, lo, hi)))
		b.WriteString(fill.Render(string(line)))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", gutterWidth))
	b.WriteString(axisStyle.Render(xAxisLabels(cfg.Axis, plotW)))

	return b.String()
}

// sampleAt maps plot column x onto the data, interpolating between samples
func sampleAt(data []float64, x, width int, fallback float64) float64 {
	n := len(data)
	switch {
	case n == 0:
		return fallback
	case n == 1 || width < 2:
		return data[n-1]
	}
	pos := float64(x) * float64(n-1) / float64(width-1)
	i := int(pos)
	if i >= n-1 {
		return data[n-1]
	}
	return data[i] + (data[i+1]-data[i])*(pos-float64(i))
}

func yLabel(row, height int, lo, hi float64) string {
	switch {
	case row == height-1:
		return fmt.Sprintf("%3.0f┤", hi)
	case row == 0:
		return fmt.Sprintf("%3.0f┤", lo)
	case height >= 5 && row == (height-1)/2:
		return fmt.Sprintf("%3.0f┤", lo+(hi-lo)*(float64(row)+0.5)/float64(height))
	}
	return "   │"
}

// xAxisLabels places each TickLabel under its sample's column. A label that
// would collide with the one before it is dropped.
func xAxisLabels(axis []int, width int) string {
	out := []rune(strings.Repeat(" ", width))
	n := len(axis)
	next := 0
	for i, offset := range axis {
		text := TickLabel(offset)
		if text == "" || len(text) > width {
			continue
		}
		col := width - 1
		if n > 1 {
			col = i * (width - 1) / (n - 1)
		}
		start := min(max(col-len(text)/2, 0), width-len(text))
		if start < next {
			continue
		}
		copy(out[start:], []rune(text))
		next = start + len(text) + 1
	}
	return string(out)
}
