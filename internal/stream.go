package simtop

import "fmt"

// StreamSurface publishes every chart and readout update to a Hub.
type StreamSurface struct {
	hub   *Hub
	slots map[MetricKind]*streamSlot
}

func NewStreamSurface(hub *Hub) *StreamSurface {
	s := &StreamSurface{hub: hub, slots: make(map[MetricKind]*streamSlot, len(MetricOrder))}
	for _, kind := range MetricOrder {
		s.slots[kind] = &streamSlot{hub: hub, kind: kind}
	}
	return s
}

func (s *StreamSurface) Chart(id string) (RenderConsumer, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ChartID() {
		return nil, false
	}
	return s.slots[kind], true
}

func (s *StreamSurface) Readout(id string) (TextSink, bool) {
	kind, ok := KindForSlot(id)
	if !ok || id != kind.ReadoutID() {
		return nil, false
	}
	return s.slots[kind], true
}

type streamSlot struct {
	hub     *Hub
	kind    MetricKind
	spec    ChartSpec
	created bool
}

func (s *streamSlot) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	if s.created {
		return nil, fmt.Errorf("%s: %w", s.kind.ChartID(), ErrSlotInUse)
	}
	s.spec = spec
	s.created = true
	return s, s.Update(spec.Initial)
}

func (s *streamSlot) Update(samples []float64) error {
	return s.hub.Publish(Frame{
		Type:    FrameChart,
		Metric:  s.kind.Slug(),
		Label:   s.spec.Label,
		Color:   s.spec.Color,
		Labels:  s.spec.Axis,
		Samples: samples,
	})
}

func (s *streamSlot) SetText(text string) error {
	return s.hub.Publish(Frame{
		Type:   FrameReadout,
		Metric: s.kind.Slug(),
		Text:   text,
	})
}
