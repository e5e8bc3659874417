package simtop

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// failureLogEvery limits how often a repeatedly failing metric is logged.
const failureLogEvery = 10 * time.Second

// TickObserver is told about every completed tick and every per-metric
// render failure.
type TickObserver interface {
	TickCompleted(elapsed time.Duration)
	RenderFailed(kind MetricKind)
}

// display is the pair of slots a metric renders into. Either may be nil.
type display struct {
	chart   RendererHandle
	readout TextSink
}

// Coordinator owns the metric series and pushes each tick's samples to the
// displays. All of its methods must be called from one goroutine.
type Coordinator struct {
	order    []MetricKind
	series   map[MetricKind]*MetricSeries
	displays map[MetricKind]*display
	labels   []int
	gen      *Generator
	observer TickObserver
	logger   *slog.Logger

	limiters   map[MetricKind]*rate.Limiter
	suppressed map[MetricKind]int
	ticks      uint64
}

// SetupOptions are the inputs to the one-time dashboard initialisation.
type SetupOptions struct {
	Surface   Surface
	Generator *Generator
	Capacity  int

	// Order defaults to MetricOrder.
	Order    []MetricKind
	Observer TickObserver
	Logger   *slog.Logger
}

// Setup seeds every series, builds the axis labels and acquires the display
// slots. All chart slots are required: if any is missing a
// *MissingDisplaySlotError is returned and no renderer is created. Readout
// slots are optional.
func Setup(opts SetupOptions) (*Coordinator, error) {
	if opts.Capacity < 1 {
		return nil, fmt.Errorf("setup: %w: %d", ErrInvalidCapacity, opts.Capacity)
	}
	if opts.Surface == nil {
		return nil, errors.New("setup: no display surface")
	}
	if opts.Generator == nil {
		opts.Generator = NewGenerator(nil, 0)
	}
	if opts.Order == nil {
		opts.Order = MetricOrder
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	// Acquire every chart slot before creating anything.
	consumers := make(map[MetricKind]RenderConsumer, len(opts.Order))
	var missing []string
	for _, kind := range opts.Order {
		consumer, ok := opts.Surface.Chart(kind.ChartID())
		if !ok || consumer == nil {
			missing = append(missing, kind.ChartID())
			continue
		}
		consumers[kind] = consumer
	}
	if len(missing) > 0 {
		err := &MissingDisplaySlotError{Slots: missing}
		logger.Error("dashboard initialisation aborted", "error", err)
		return nil, err
	}

	labels := BuildLabels(opts.Capacity)
	series := make(map[MetricKind]*MetricSeries, len(opts.Order))
	displays := make(map[MetricKind]*display, len(opts.Order))

	for _, kind := range opts.Order {
		s, err := NewMetricSeries(kind, opts.Capacity, opts.Generator.Seed(kind), opts.Generator.Profile(kind).Bounds)
		if err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
		series[kind] = s

		handle, err := consumers[kind].CreateRenderer(ChartSpec{
			Kind:    kind,
			Label:   kind.String(),
			Color:   kind.Color(),
			Initial: s.Samples(),
			Axis:    labels,
		})
		if err != nil {
			return nil, fmt.Errorf("setup: create %s chart: %w", kind, err)
		}
		d := &display{chart: handle}

		if sink, ok := opts.Surface.Readout(kind.ReadoutID()); ok && sink != nil {
			d.readout = sink
			if err := sink.SetText(FormatReadout(s.Current())); err != nil {
				logger.Warn("initial readout failed", "metric", kind.Slug(), "error", err)
			}
		} else {
			logger.Debug("no readout slot", "slot", kind.ReadoutID())
		}
		displays[kind] = d

		logger.Debug("series seeded", "metric", kind.Slug(), "seed", s.Level(), "capacity", s.Capacity())
	}

	return newCoordinator(opts.Generator, opts.Order, series, displays, labels, opts.Observer, logger), nil
}

// newCoordinator assembles a coordinator from already-initialised parts.
// Setup is the usual way to obtain one.
func newCoordinator(gen *Generator, order []MetricKind, series map[MetricKind]*MetricSeries, displays map[MetricKind]*display, labels []int, observer TickObserver, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = discardLogger()
	}
	c := &Coordinator{
		order:      order,
		series:     series,
		displays:   displays,
		labels:     labels,
		gen:        gen,
		observer:   observer,
		logger:     logger,
		limiters:   make(map[MetricKind]*rate.Limiter, len(order)),
		suppressed: make(map[MetricKind]int, len(order)),
	}
	for _, kind := range order {
		c.limiters[kind] = rate.NewLimiter(rate.Every(failureLogEvery), 1)
	}
	return c
}

// Tick advances every metric by one sample, in order, and notifies its
// display. A failing or missing display never stops the other metrics; the
// returned error joins the per-metric *RenderError values.
func (c *Coordinator) Tick() error {
	start := time.Now()
	c.ticks++

	var errs []error
	for _, kind := range c.order {
		s, ok := c.series[kind]
		if !ok {
			continue
		}
		s.Advance(c.gen.Next(kind, s.Level()))

		if err := c.notify(kind, s); err != nil {
			errs = append(errs, err)
			c.reportFailure(kind, err)
		}
	}

	if c.observer != nil {
		c.observer.TickCompleted(time.Since(start))
	}
	return errors.Join(errs...)
}

// notify hands the series to the metric's display. Panics in a renderer are
// contained to this metric.
func (c *Coordinator) notify(kind MetricKind, s *MetricSeries) (err error) {
	d := c.displays[kind]
	if d == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var errs []error
	if d.readout != nil {
		if err := d.readout.SetText(FormatReadout(s.Current())); err != nil {
			errs = append(errs, fmt.Errorf("readout: %w", err))
		}
	}
	if d.chart != nil {
		if err := d.chart.Update(s.Samples()); err != nil {
			errs = append(errs, fmt.Errorf("chart: %w", err))
		}
	}
	if len(errs) > 0 {
		return &RenderError{Kind: kind, Err: errors.Join(errs...)}
	}
	return nil
}

func (c *Coordinator) reportFailure(kind MetricKind, err error) {
	if c.observer != nil {
		c.observer.RenderFailed(kind)
	}

	lim, ok := c.limiters[kind]
	if ok && !lim.Allow() {
		c.suppressed[kind]++
		return
	}
	c.logger.Warn("render failed",
		"metric", kind.Slug(),
		"tick", c.ticks,
		"error", err,
		"suppressed", c.suppressed[kind],
	)
	c.suppressed[kind] = 0
}

// Series returns the series for kind, or nil
func (c *Coordinator) Series(kind MetricKind) *MetricSeries {
	return c.series[kind]
}

// Labels returns the axis labels built during setup
func (c *Coordinator) Labels() []int {
	out := make([]int, len(c.labels))
	copy(out, c.labels)
	return out
}

// Ticks returns how many ticks have run
func (c *Coordinator) Ticks() uint64 {
	return c.ticks
}
