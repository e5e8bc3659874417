package simtop

import "fmt"

// ChartSpec is everything a renderer needs to draw a metric's chart.
type ChartSpec struct {
	Kind    MetricKind
	Label   string
	Color   string
	Initial []float64
	Axis    []int
}

// RendererHandle is a created chart. Update replaces the whole visible series
// and redraws; it is called once per tick for as long as the process runs,
// so implementations must not accumulate state across calls. The samples
// slice must be treated as read-only.
type RendererHandle interface {
	Update(samples []float64) error
}

// RenderConsumer is a display slot that can host a chart.
type RenderConsumer interface {
	CreateRenderer(spec ChartSpec) (RendererHandle, error)
}

// TextSink is a display slot for a metric's numeric readout.
type TextSink interface {
	SetText(text string) error
}

// Surface hands out display slots by id (see MetricKind.ChartID and
// MetricKind.ReadoutID). A missing slot is reported with ok == false.
type Surface interface {
	Chart(id string) (RenderConsumer, bool)
	Readout(id string) (TextSink, bool)
}

// FormatReadout renders a value the way readouts display it, e.g. "42.7%"
func FormatReadout(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
