package simtop

import (
	"fmt"
	"math"
)

// Bounds is the inclusive range a metric's value is clamped into
type Bounds struct {
	Lower float64
	Upper float64
}

// Clamp forces v into [Lower, Upper]
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Lower, math.Min(b.Upper, v))
}

// Contains reports whether v lies within the bounds
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// WindowStats summarises the samples currently visible in a window
type WindowStats struct {
	Min  float64
	Max  float64
	Mean float64
}

// MetricSeries is the rolling window for one metric. Its length is fixed at
// construction; Push is the only operation that changes its contents.
//
// The series is owned by a single Coordinator and is not safe for concurrent use.
type MetricSeries struct {
	kind    MetricKind
	bounds  Bounds
	samples []float64

	// level is the unrounded random-walk position the next step starts from.
	level float64
}

// NewMetricSeries creates a series of the given capacity pre-filled with seed,
// so the chart starts as a flat line.
func NewMetricSeries(kind MetricKind, capacity int, seed float64, bounds Bounds) (*MetricSeries, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%s series: %w: %d", kind, ErrInvalidCapacity, capacity)
	}

	samples := make([]float64, capacity)
	reported := roundSample(seed)
	for i := range samples {
		samples[i] = reported
	}

	return &MetricSeries{
		kind:    kind,
		bounds:  bounds,
		samples: samples,
		level:   seed,
	}, nil
}

// Push discards the oldest sample and appends v as the newest.
func (s *MetricSeries) Push(v float64) {
	copy(s.samples, s.samples[1:])
	s.samples[len(s.samples)-1] = v
}

// Advance pushes the sample's reported value and keeps its unrounded level
// as the base for the next step.
func (s *MetricSeries) Advance(sample Sample) {
	s.level = sample.Level
	s.Push(sample.Value)
}

// Samples returns a snapshot of the window, oldest first
func (s *MetricSeries) Samples() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Current returns the newest sample
func (s *MetricSeries) Current() float64 {
	return s.samples[len(s.samples)-1]
}

// Level returns the unrounded walk position
func (s *MetricSeries) Level() float64 {
	return s.level
}

func (s *MetricSeries) Capacity() int {
	return len(s.samples)
}

func (s *MetricSeries) Kind() MetricKind {
	return s.kind
}

func (s *MetricSeries) Bounds() Bounds {
	return s.bounds
}

// Stats computes min, max and mean over the visible window
func (s *MetricSeries) Stats() WindowStats {
	return windowStats(s.samples)
}

func windowStats(samples []float64) WindowStats {
	if len(samples) == 0 {
		return WindowStats{}
	}
	stats := WindowStats{Min: samples[0], Max: samples[0]}
	sum := 0.0
	for _, v := range samples {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		sum += v
	}
	stats.Mean = sum / float64(len(samples))
	return stats
}
