package simtop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

var termuiColors = map[MetricKind]ui.Color{
	CPU:    ui.ColorCyan,
	Memory: ui.ColorGreen,
	Disk:   ui.ColorYellow,
	GPU:    ui.ColorMagenta,
}

// TermuiDashboard renders the four charts as termui braille plots in a 2x2
// grid. Like TerminalDashboard it is both the Surface and the Repeater.
type TermuiDashboard struct {
	plots  map[MetricKind]*termuiPlot
	grid   *ui.Grid
	logger *slog.Logger
}

func NewTermuiDashboard(logger *slog.Logger) *TermuiDashboard {
	if logger == nil {
		logger = discardLogger()
	}
	d := &TermuiDashboard{
		plots:  make(map[MetricKind]*termuiPlot, len(MetricOrder)),
		grid:   ui.NewGrid(),
		logger: logger,
	}
	for _, kind := range MetricOrder {
		d.plots[kind] = newTermuiPlot(kind)
	}

	d.grid.Set(
		ui.NewRow(0.5,
			ui.NewCol(0.5, d.plots[CPU].plot),
			ui.NewCol(0.5, d.plots[Memory].plot),
		),
		ui.NewRow(0.5,
			ui.NewCol(0.5, d.plots[Disk].plot),
			ui.NewCol(0.5, d.plots[GPU].plot),
		),
	)
	return d
}

func (d *TermuiDashboard) Chart(id string) (RenderConsumer, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ChartID() {
		return nil, false
	}
	return d.plots[kind], true
}

func (d *TermuiDashboard) Readout(id string) (TextSink, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ReadoutID() {
		return nil, false
	}
	return d.plots[kind], true
}

// Plot exposes the widget behind a metric
func (d *TermuiDashboard) Plot(kind MetricKind) *widgets.Plot {
	if p, ok := d.plots[kind]; ok {
		return p.plot
	}
	return nil
}

// Resize lays the grid out over a terminal of the given size
func (d *TermuiDashboard) Resize(width, height int) {
	d.grid.SetRect(0, 0, width, height)
}

// Repeat takes over the terminal and calls fn on every interval until q is
// pressed or ctx is done.
func (d *TermuiDashboard) Repeat(ctx context.Context, interval time.Duration, fn func()) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("init termui: %w", err)
	}
	defer ui.Close()

	d.Resize(ui.TerminalDimensions())
	ui.Render(d.grid)

	d.logger.Info("termui dashboard running", "interval", interval)

	uiEvents := ui.PollEvents()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				d.logger.Info("termui dashboard closed")
				return nil
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.Resize(payload.Width, payload.Height)
				ui.Clear()
				ui.Render(d.grid)
			}
		case <-ticker.C:
			fn()
			ui.Render(d.grid)
		}
	}
}

// termuiPlot is one metric's plot widget; the readout goes in its title.
type termuiPlot struct {
	kind    MetricKind
	plot    *widgets.Plot
	label   string
	created bool
}

func newTermuiPlot(kind MetricKind) *termuiPlot {
	p := widgets.NewPlot()
	p.Title = kind.String()
	p.TitleStyle = ui.NewStyle(termuiColors[kind], ui.ColorClear, ui.ModifierBold)
	p.MaxVal = SCALE_MAX
	p.LineColors = []ui.Color{termuiColors[kind]}
	p.AxesColor = ui.ColorWhite
	p.Marker = widgets.MarkerBraille
	return &termuiPlot{kind: kind, plot: p, label: kind.String()}
}

func (t *termuiPlot) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	if t.created {
		return nil, fmt.Errorf("%s: %w", t.kind.ChartID(), ErrSlotInUse)
	}
	t.plot.Lock()
	defer t.plot.Unlock()

	if spec.Label != "" {
		t.label = spec.Label
		t.plot.Title = spec.Label
	}
	data := make([]float64, len(spec.Initial))
	copy(data, spec.Initial)
	t.plot.Data = [][]float64{data}
	t.created = true
	return t, nil
}

func (t *termuiPlot) Update(samples []float64) error {
	if !t.created {
		return errors.New("plot has not been created")
	}
	t.plot.Lock()
	defer t.plot.Unlock()

	if len(t.plot.Data[0]) != len(samples) {
		t.plot.Data[0] = make([]float64, len(samples))
	}
	copy(t.plot.Data[0], samples)
	return nil
}

func (t *termuiPlot) SetText(text string) error {
	t.plot.Lock()
	defer t.plot.Unlock()
	t.plot.Title = t.label + " " + text
	return nil
}
