package simtop

import (
	"errors"
	"fmt"
)

// Tee returns a Surface that renders into primary and every mirror. Slot
// presence is decided by primary alone; a mirror lacking a slot is skipped.
func Tee(primary Surface, mirrors ...Surface) Surface {
	if len(mirrors) == 0 {
		return primary
	}
	return &teeSurface{primary: primary, mirrors: mirrors}
}

type teeSurface struct {
	primary Surface
	mirrors []Surface
}

func (t *teeSurface) Chart(id string) (RenderConsumer, bool) {
	first, ok := t.primary.Chart(id)
	if !ok || first == nil {
		return nil, false
	}
	consumers := []RenderConsumer{first}
	for _, m := range t.mirrors {
		if c, ok := m.Chart(id); ok && c != nil {
			consumers = append(consumers, c)
		}
	}
	if len(consumers) == 1 {
		return first, true
	}
	return teeConsumer(consumers), true
}

func (t *teeSurface) Readout(id string) (TextSink, bool) {
	var sinks teeSink
	if s, ok := t.primary.Readout(id); ok && s != nil {
		sinks = append(sinks, s)
	}
	for _, m := range t.mirrors {
		if s, ok := m.Readout(id); ok && s != nil {
			sinks = append(sinks, s)
		}
	}
	switch len(sinks) {
	case 0:
		return nil, false
	case 1:
		return sinks[0], true
	}
	return sinks, true
}

type teeConsumer []RenderConsumer

func (t teeConsumer) CreateRenderer(spec ChartSpec) (RendererHandle, error) {
	handles := make(teeHandle, 0, len(t))
	for i, c := range t {
		h, err := c.CreateRenderer(spec)
		if err != nil {
			return nil, fmt.Errorf("renderer %d: %w", i, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// teeHandle updates every handle even if one of them fails.
type teeHandle []RendererHandle

func (t teeHandle) Update(samples []float64) error {
	var errs []error
	for _, h := range t {
		if err := h.Update(samples); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type teeSink []TextSink

func (t teeSink) SetText(text string) error {
	var errs []error
	for _, s := range t {
		if err := s.SetText(text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
