package simtop

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Chart is one metric's slot on the terminal dashboard. It is the chart
// slot (RenderConsumer), the created chart (RendererHandle) and the
// readout (TextSink) at once, and is only touched from the bubbletea loop.
type Chart struct {
	Kind MetricKind

	spec    ChartSpec
	created bool
	anim    *Animation
	easing  string
	length  time.Duration
	samples []float64
	text    string
	updates int
}

// NewChart returns an empty slot for kind
func NewChart(kind MetricKind, anim AnimationConfig) *Chart {
	return &Chart{
		Kind:   kind,
		easing: anim.Easing,
		length: anim.Duration,
	}
}

// CreateRenderer implements RenderConsumer. A slot hosts one chart only.
func (c *Chart) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	if c.created {
		return nil, fmt.Errorf("%s: %w", c.Kind.ChartID(), ErrSlotInUse)
	}
	c.spec = spec
	c.created = true
	c.samples = make([]float64, len(spec.Initial))
	copy(c.samples, spec.Initial)
	c.anim = NewAnimation(c.easing, c.length, len(spec.Initial))
	c.anim.Snap(spec.Initial)
	return c, nil
}

// Update implements RendererHandle
func (c *Chart) Update(samples []float64) error {
	if !c.created {
		return errors.New("chart has not been created")
	}
	if len(samples) != len(c.samples) {
		c.samples = make([]float64, len(samples))
	}
	copy(c.samples, samples)
	c.anim.Retarget(c.samples)
	c.updates++
	return nil
}

// SetText implements TextSink
func (c *Chart) SetText(text string) error {
	c.text = text
	return nil
}

// Step advances the chart's animation by one frame
func (c *Chart) Step(dt time.Duration) bool {
	if c.anim == nil {
		return false
	}
	return c.anim.Step(dt)
}

func (c *Chart) Animating() bool {
	return c.anim != nil && c.anim.Active()
}

// Shown returns the values currently drawn, mid-animation included
func (c *Chart) Shown() []float64 {
	if c.anim == nil {
		return nil
	}
	return c.anim.Shown()
}

// Samples returns the latest series handed to Update
func (c *Chart) Samples() []float64 {
	return c.samples
}

func (c *Chart) Text() string {
	return c.text
}

func (c *Chart) Updates() int {
	return c.updates
}

func (c *Chart) Stats() WindowStats {
	return windowStats(c.samples)
}

// Title is the metric label followed by its readout
func (c *Chart) Title() string {
	label := c.spec.Label
	if label == "" {
		label = c.Kind.String()
	}
	if c.text == "" {
		return metricStyle(c.Kind).Render(label)
	}
	return metricStyle(c.Kind).Render(label) + "  " + c.text
}

// Render draws the chart body into width x height cells, x-axis included.
func (c *Chart) Render(width, height int) string {
	if !c.created {
		return mutedStyle.Render("waiting for data")
	}
	color := c.spec.Color
	if color == "" {
		color = c.Kind.Color()
	}
	return RenderLineChart(LineChartConfig{
		Data:   c.Shown(),
		Axis:   c.spec.Axis,
		Width:  width,
		Height: height - 1,
		Min:    0,
		Max:    SCALE_MAX,
		Color:  color,
	})
}

// StatsLine summarises the visible window
func (c *Chart) StatsLine() string {
	s := c.Stats()
	return strings.Join([]string{
		"min " + FormatReadout(s.Min),
		"max " + FormatReadout(s.Max),
		"mean " + FormatReadout(s.Mean),
	}, "  ")
}
