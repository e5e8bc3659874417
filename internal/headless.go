package simtop

import (
	"fmt"
	"log/slog"
	"sync"
)

// HeadlessSurface renders nothing. It keeps the latest series and readout
// per metric and logs each update at debug level, for running the loop with
// only the HTTP mirrors attached.
type HeadlessSurface struct {
	mu     sync.RWMutex
	slots  map[MetricKind]*headlessSlot
	logger *slog.Logger
}

type headlessSlot struct {
	surface *HeadlessSurface
	kind    MetricKind
	created bool
	samples []float64
	text    string
}

func NewHeadlessSurface(logger *slog.Logger) *HeadlessSurface {
	if logger == nil {
		logger = discardLogger()
	}
	h := &HeadlessSurface{
		slots:  make(map[MetricKind]*headlessSlot, len(MetricOrder)),
		logger: logger,
	}
	for _, kind := range MetricOrder {
		h.slots[kind] = &headlessSlot{surface: h, kind: kind}
	}
	return h
}

func (h *HeadlessSurface) Chart(id string) (RenderConsumer, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ChartID() {
		return nil, false
	}
	return h.slots[kind], true
}

func (h *HeadlessSurface) Readout(id string) (TextSink, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ReadoutID() {
		return nil, false
	}
	return h.slots[kind], true
}

// Latest returns a copy of the last series rendered for kind
func (h *HeadlessSurface) Latest(kind MetricKind) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := h.slots[kind]
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Text returns the last readout for kind
func (h *HeadlessSurface) Text(kind MetricKind) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s := h.slots[kind]; s != nil {
		return s.text
	}
	return ""
}

func (s *headlessSlot) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	h := s.surface
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.created {
		return nil, fmt.Errorf("%s: %w", s.kind.ChartID(), ErrSlotInUse)
	}
	s.created = true
	s.samples = make([]float64, len(spec.Initial))
	copy(s.samples, spec.Initial)
	h.logger.Debug("chart created", "metric", s.kind.Slug(), "points", len(spec.Initial))
	return s, nil
}

func (s *headlessSlot) Update(samples []float64) error {
	h := s.surface
	h.mu.Lock()
	if len(s.samples) != len(samples) {
		s.samples = make([]float64, len(samples))
	}
	copy(s.samples, samples)
	h.mu.Unlock()

	if len(samples) > 0 {
		h.logger.Debug("chart updated", "metric", s.kind.Slug(), "current", samples[len(samples)-1])
	}
	return nil
}

func (s *headlessSlot) SetText(text string) error {
	s.surface.mu.Lock()
	s.text = text
	s.surface.mu.Unlock()
	return nil
}
