package simtop

import (
	"strings"
	"testing"
)

func plotRows(t *testing.T, out string, height int) []string {
	t.Helper()
	lines := strings.Split(out, "\n")
	if len(lines) != height+1 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), height+1, out)
	}
	rows := make([]string, height)
	for i := range rows {
		r := []rune(lines[i])
		rows[i] = string(r[gutterWidth:])
	}
	return rows
}

func TestRenderLineChart_NoRoom(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"narrow", gutterWidth + 1, 5},
		{"flat", 40, 0},
		{"empty", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderLineChart(LineChartConfig{Data: []float64{50}, Width: tt.width, Height: tt.height})
			if out != "" {
				t.Errorf("got %q, want empty", out)
			}
		})
	}
}

func TestRenderLineChart_Levels(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  []string
	}{
		{"full", 100, []string{"██████████", "██████████"}},
		{"half", 50, []string{"          ", "██████████"}},
		{"empty", 0, []string{"          ", "          "}},
		{"eighth", 6.25, []string{"          ", "▁▁▁▁▁▁▁▁▁▁"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderLineChart(LineChartConfig{
				Data:   []float64{tt.value, tt.value, tt.value},
				Width:  gutterWidth + 10,
				Height: 2,
				Min:    0,
				Max:    100,
			})
			rows := plotRows(t, out, 2)
			for i := range rows {
				if rows[i] != tt.want[i] {
					t.Errorf("row %d = %q, want %q", i, rows[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderLineChart_YLabels(t *testing.T) {
	out := RenderLineChart(LineChartConfig{Data: []float64{10}, Width: 20, Height: 5, Max: 100})
	lines := strings.Split(out, "\n")

	if !strings.HasPrefix(lines[0], "100┤") {
		t.Errorf("top label = %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "  0┤") {
		t.Errorf("bottom label = %q", lines[4])
	}
	if !strings.HasPrefix(lines[2], " 50┤") {
		t.Errorf("middle label = %q", lines[2])
	}
	if !strings.HasPrefix(lines[1], "   │") {
		t.Errorf("unlabelled row = %q", lines[1])
	}
}

func TestXAxisLabels(t *testing.T) {
	axis := BuildLabels(WINDOW_CAPACITY)
	out := xAxisLabels(axis, 60)

	if len([]rune(out)) != 60 {
		t.Fatalf("width = %d", len([]rune(out)))
	}
	if !strings.HasSuffix(out, "Now") {
		t.Errorf("%q does not end with Now", out)
	}
	for _, want := range []string{"-25s", "-15s", "-5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing %s", out, want)
		}
	}
	if strings.Contains(out, "-29") {
		t.Errorf("%q labels an offset that is not a multiple of 5", out)
	}
}

func TestXAxisLabels_Crowded(t *testing.T) {
	out := xAxisLabels(BuildLabels(WINDOW_CAPACITY), 8)
	if len([]rune(out)) != 8 {
		t.Fatalf("width = %d", len([]rune(out)))
	}
	if !strings.HasSuffix(out, "Now") {
		t.Errorf("%q does not end with Now", out)
	}
}

func TestSampleAt(t *testing.T) {
	data := []float64{0, 10, 20}
	tests := []struct {
		x, width int
		want     float64
	}{
		{0, 5, 0},
		{1, 5, 5},
		{2, 5, 10},
		{4, 5, 20},
		{0, 1, 20},
	}
	for _, tt := range tests {
		if got := sampleAt(data, tt.x, tt.width, -1); got != tt.want {
			t.Errorf("sampleAt(x=%d, w=%d) = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}
	if got := sampleAt(nil, 0, 5, -1); got != -1 {
		t.Errorf("empty data = %v, want fallback", got)
	}
}
