package simtop

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func newTestChart(t *testing.T, kind MetricKind, anim AnimationConfig, initial ...float64) *Chart {
	t.Helper()
	c := NewChart(kind, anim)
	if _, err := c.CreateRenderer(ChartSpec{
		Kind:    kind,
		Label:   kind.String(),
		Color:   kind.Color(),
		Initial: initial,
		Axis:    BuildLabels(len(initial)),
	}); err != nil {
		t.Fatalf("CreateRenderer: %v", err)
	}
	return c
}

func TestChart_Lifecycle(t *testing.T) {
	c := NewChart(CPU, AnimationConfig{})

	if err := c.Update([]float64{1}); err == nil {
		t.Error("Update before CreateRenderer succeeded")
	}
	if got := c.Render(40, 10); !strings.Contains(got, "waiting for data") {
		t.Errorf("render before create = %q", got)
	}

	if _, err := c.CreateRenderer(ChartSpec{Kind: CPU, Initial: []float64{5, 5}}); err != nil {
		t.Fatalf("CreateRenderer: %v", err)
	}
	if _, err := c.CreateRenderer(ChartSpec{Kind: CPU}); !errors.Is(err, ErrSlotInUse) {
		t.Errorf("second CreateRenderer: err = %v, want ErrSlotInUse", err)
	}
}

func TestChart_UpdateWithoutAnimation(t *testing.T) {
	c := newTestChart(t, Memory, AnimationConfig{Easing: EasingLinear}, 10, 20, 30)

	samples := []float64{20, 30, 40}
	if err := c.Update(samples); err != nil {
		t.Fatalf("Update: %v", err)
	}
	samples[0] = -1

	if !slices.Equal(c.Samples(), []float64{20, 30, 40}) {
		t.Errorf("samples = %v", c.Samples())
	}
	if !slices.Equal(c.Shown(), []float64{20, 30, 40}) {
		t.Errorf("shown = %v", c.Shown())
	}
	if c.Animating() {
		t.Error("animating with zero duration")
	}
	if c.Updates() != 1 {
		t.Errorf("updates = %d", c.Updates())
	}
}

func TestChart_UpdateAnimates(t *testing.T) {
	c := newTestChart(t, CPU, AnimationConfig{Easing: EasingLinear, Duration: 200 * time.Millisecond}, 0, 0)

	_ = c.Update([]float64{100, 100})
	if !c.Animating() {
		t.Fatal("not animating after update")
	}
	if !slices.Equal(c.Shown(), []float64{0, 0}) {
		t.Errorf("shown jumped to %v", c.Shown())
	}

	c.Step(100 * time.Millisecond)
	if !slices.Equal(c.Shown(), []float64{50, 50}) {
		t.Errorf("halfway shown = %v", c.Shown())
	}
	for c.Step(FrameDuration()) {
	}
	if !slices.Equal(c.Shown(), c.Samples()) {
		t.Errorf("settled on %v, want %v", c.Shown(), c.Samples())
	}
}

func TestChart_Text(t *testing.T) {
	c := newTestChart(t, Disk, AnimationConfig{}, 10, 20, 30)
	_ = c.SetText("30.0%")

	if title := c.Title(); !strings.Contains(title, "Disk") || !strings.HasSuffix(title, "30.0%") {
		t.Errorf("title = %q", title)
	}
	if got, want := c.StatsLine(), "min 10.0%  max 30.0%  mean 20.0%"; got != want {
		t.Errorf("stats = %q, want %q", got, want)
	}
}

func TestChart_Render(t *testing.T) {
	c := newTestChart(t, GPU, AnimationConfig{}, 50, 50, 50)

	out := c.Render(30, 6)
	if h := lipgloss.Height(out); h != 6 {
		t.Errorf("height = %d, want 6", h)
	}
	if w := lipgloss.Width(out); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}
}

func TestTabSet(t *testing.T) {
	charts := []*Chart{
		newTestChart(t, CPU, AnimationConfig{}, 10),
		newTestChart(t, Memory, AnimationConfig{}, 20),
		newTestChart(t, Disk, AnimationConfig{}, 30),
		newTestChart(t, GPU, AnimationConfig{}, 40),
	}
	ts := NewTabSet(charts...)

	steps := []struct {
		name string
		do   func()
		want MetricKind
	}{
		{"start", func() {}, CPU},
		{"next", func() { ts.NextTab() }, Memory},
		{"select", func() { ts.SelectTab(3) }, GPU},
		{"wrap forward", func() { ts.NextTab() }, CPU},
		{"wrap back", func() { ts.PrevTab() }, GPU},
		{"out of range", func() { ts.SelectTab(9) }, GPU},
	}
	for _, s := range steps {
		s.do()
		if got := ts.Selected().Kind; got != s.want {
			t.Fatalf("%s: selected %s, want %s", s.name, got, s.want)
		}
	}

	out := ts.SetSize(60, 16).Render()
	for _, kind := range MetricOrder {
		if !strings.Contains(out, kind.String()) {
			t.Errorf("tab bar missing %s", kind)
		}
	}
	if !strings.Contains(out, "mean 40.0%") {
		t.Errorf("zoom view missing stats:\n%s", out)
	}
	if h := lipgloss.Height(out); h > 16 {
		t.Errorf("height = %d, want at most 16", h)
	}
}

func TestTabSet_Empty(t *testing.T) {
	if got := NewTabSet().Render(); got != "No charts available" {
		t.Errorf("got %q", got)
	}
}
