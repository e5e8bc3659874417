package simtop

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names exposed by the exporter
const (
	UtilizationMetric   = "simtop_utilization_percent"
	WindowSampleMetric  = "simtop_window_sample_percent"
	TicksMetric         = "simtop_ticks_total"
	TickDurationMetric  = "simtop_tick_duration_seconds"
	RenderFailureMetric = "simtop_render_failures_total"
)

// Exporter mirrors the dashboard as Prometheus metrics. It is a Surface with
// chart slots only, and a TickObserver for loop health. It has its own
// registry so several exporters can coexist in one process.
type Exporter struct {
	registry *prometheus.Registry

	utilization  *prometheus.GaugeVec
	window       *prometheus.GaugeVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	failures     *prometheus.CounterVec

	charts map[MetricKind]*exporterChart
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: UtilizationMetric,
			Help: "Newest simulated utilization sample per metric.",
		}, []string{"metric"}),
		window: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: WindowSampleMetric,
			Help: "Every sample in the rolling window, by offset in seconds from now.",
		}, []string{"metric", "offset"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: TicksMetric,
			Help: "Update ticks completed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    TickDurationMetric,
			Help:    "Time spent generating and rendering one tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RenderFailureMetric,
			Help: "Per-metric render failures.",
		}, []string{"metric"}),
		charts: make(map[MetricKind]*exporterChart, len(MetricOrder)),
	}

	e.registry.MustRegister(
		e.utilization,
		e.window,
		e.ticks,
		e.tickDuration,
		e.failures,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	for _, kind := range MetricOrder {
		e.charts[kind] = &exporterChart{exporter: e, kind: kind}
		// a failure series from zero makes rate() work from the first scrape
		e.failures.WithLabelValues(kind.Slug())
	}
	return e
}

func (e *Exporter) Chart(id string) (RenderConsumer, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ChartID() {
		return nil, false
	}
	return e.charts[kind], true
}

// Readout always reports no slot: the utilization gauge carries the value.
func (e *Exporter) Readout(string) (TextSink, bool) {
	return nil, false
}

func (e *Exporter) TickCompleted(elapsed time.Duration) {
	e.ticks.Inc()
	e.tickDuration.Observe(elapsed.Seconds())
}

func (e *Exporter) RenderFailed(kind MetricKind) {
	e.failures.WithLabelValues(kind.Slug()).Inc()
}

// Registry returns the registry all exporter metrics live in
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus exposition format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Observers combines several TickObservers into one
type Observers []TickObserver

func (o Observers) TickCompleted(elapsed time.Duration) {
	for _, obs := range o {
		obs.TickCompleted(elapsed)
	}
}

func (o Observers) RenderFailed(kind MetricKind) {
	for _, obs := range o {
		obs.RenderFailed(kind)
	}
}

type exporterChart struct {
	exporter *Exporter
	kind     MetricKind
	offsets  []string
	created  bool
}

func (c *exporterChart) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	if c.created {
		return nil, fmt.Errorf("%s: %w", c.kind.ChartID(), ErrSlotInUse)
	}
	if len(spec.Axis) != len(spec.Initial) {
		return nil, fmt.Errorf("%s: %d axis labels for %d samples", c.kind.ChartID(), len(spec.Axis), len(spec.Initial))
	}
	c.offsets = make([]string, len(spec.Axis))
	for i, offset := range spec.Axis {
		c.offsets[i] = strconv.Itoa(offset)
	}
	c.created = true
	return c, c.Update(spec.Initial)
}

func (c *exporterChart) Update(samples []float64) error {
	if len(samples) != len(c.offsets) {
		return errors.New("sample count does not match the axis")
	}
	slug := c.kind.Slug()
	for i, v := range samples {
		c.exporter.window.WithLabelValues(slug, c.offsets[i]).Set(v)
	}
	if len(samples) > 0 {
		c.exporter.utilization.WithLabelValues(slug).Set(samples[len(samples)-1])
	}
	return nil
}
