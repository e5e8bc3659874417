package simtop

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Repeater is a repeating timer. Repeat calls fn once per interval until ctx
// is done or the repeater's own display is closed. Calls to fn never overlap:
// each runs to completion before the next can start.
type Repeater interface {
	Repeat(ctx context.Context, interval time.Duration, fn func()) error
}

// IntervalRepeater fires from a time.Ticker on the calling goroutine. It makes
// no attempt to correct drift.
type IntervalRepeater struct {
	// ticks overrides the tick source; it returns the channel and a stop func.
	ticks func(time.Duration) (<-chan time.Time, func())
}

func (r IntervalRepeater) Repeat(ctx context.Context, interval time.Duration, fn func()) error {
	ticks := r.ticks
	if ticks == nil {
		ticks = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}

	c, stop := ticks(interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c:
			fn()
		}
	}
}

// Scheduler performs the one-time dashboard setup and then drives the
// coordinator's Tick at a fixed interval for the life of the process.
type Scheduler struct {
	setup    SetupOptions
	repeater Repeater
	interval time.Duration
	logger   *slog.Logger

	coord *Coordinator
}

// NewScheduler returns a scheduler that has not started yet. A nil repeater
// means IntervalRepeater; a non-positive interval means UpdateDuration().
func NewScheduler(setup SetupOptions, repeater Repeater, interval time.Duration) *Scheduler {
	if repeater == nil {
		repeater = IntervalRepeater{}
	}
	if interval <= 0 {
		interval = UpdateDuration()
	}
	logger := setup.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Scheduler{
		setup:    setup,
		repeater: repeater,
		interval: interval,
		logger:   logger,
	}
}

// Start initialises the dashboard and blocks while ticking. Initialisation
// errors (including *MissingDisplaySlotError) are returned before the first
// tick. A scheduler can only be started once.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.coord != nil {
		return ErrAlreadyStarted
	}

	coord, err := Setup(s.setup)
	if err != nil {
		return fmt.Errorf("initialise dashboard: %w", err)
	}
	s.coord = coord

	s.logger.Info("dashboard started", "interval", s.interval, "capacity", s.setup.Capacity)

	// Render failures are already isolated and logged by the coordinator;
	// nothing here may stop the schedule.
	return s.repeater.Repeat(ctx, s.interval, func() {
		_ = coord.Tick()
	})
}

// Coordinator returns the coordinator once Start has initialised it
func (s *Scheduler) Coordinator() *Coordinator {
	return s.coord
}

// Running reports whether Start has completed initialisation
func (s *Scheduler) Running() bool {
	return s.coord != nil
}
