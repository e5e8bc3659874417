package simtop

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// NewRenderer returns the display surface for cfg.Renderer together with
// the Repeater that drives it. The terminal renderers are their own
// repeater; headless uses a plain ticker.
func NewRenderer(cfg *Config, logger *slog.Logger) (Surface, Repeater, error) {
	switch cfg.Renderer {
	case RendererTUI, "":
		d := NewTerminalDashboard(cfg.Animation, logger)
		return d, d, nil
	case RendererTermui:
		d := NewTermuiDashboard(logger)
		return d, d, nil
	case RendererHeadless:
		return NewHeadlessSurface(logger), IntervalRepeater{}, nil
	}
	return nil, nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
}

// Run builds the dashboard described by cfg and ticks until the renderer is
// closed or ctx is done. When cfg.Listen is set the same ticks also feed the
// Prometheus exporter and the websocket stream served on that address.
func Run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	if logger == nil {
		logger = discardLogger()
	}
	profiles, err := cfg.MetricProfiles()
	if err != nil {
		return err
	}
	primary, repeater, err := NewRenderer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	surface := primary
	var observer TickObserver
	if cfg.Listen != "" {
		exporter := NewExporter()
		hub := NewHub(logger.With("component", "stream"))
		surface = Tee(primary, exporter, NewStreamSurface(hub))
		observer = exporter

		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})
		g.Go(func() error {
			return Serve(ctx, cfg.Listen, NewRouter(exporter, hub, logger.With("component", "http")), logger, nil)
		})
	}

	sched := NewScheduler(SetupOptions{
		Surface:   surface,
		Generator: NewGenerator(profiles, cfg.Seed),
		Capacity:  cfg.Capacity,
		Observer:  observer,
		Logger:    logger,
	}, repeater, cfg.Interval)

	g.Go(func() error {
		// the renderer closing ends the run
		defer cancel()
		return sched.Start(ctx)
	})

	return g.Wait()
}
