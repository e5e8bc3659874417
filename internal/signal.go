package simtop

import (
	"math"
	"math/rand/v2"
)

// Profile describes one metric's random walk: each step is drawn uniformly
// from [StepMin, StepMax) and the result is clamped into Bounds.
type Profile struct {
	StepMin float64
	StepMax float64
	Bounds  Bounds

	// SeedCenter and SeedSpread place the starting value uniformly in
	// [SeedCenter-SeedSpread, SeedCenter+SeedSpread).
	SeedCenter float64
	SeedSpread float64
}

// DefaultProfiles returns the walk parameters for each metric
func DefaultProfiles() map[MetricKind]Profile {
	return map[MetricKind]Profile{
		// volatile
		CPU: {StepMin: -7.5, StepMax: 7.5, Bounds: Bounds{5, 95}, SeedCenter: 50, SeedSpread: 10},
		// mild, slight upward drift
		Memory: {StepMin: -1.92, StepMax: 2.08, Bounds: Bounds{10, 90}, SeedCenter: 40, SeedSpread: 5},
		// near-static
		Disk: {StepMin: -0.25, StepMax: 0.25, Bounds: Bounds{15, 85}, SeedCenter: 20, SeedSpread: 2.5},
		GPU:  {StepMin: -6, StepMax: 6, Bounds: Bounds{5, 95}, SeedCenter: 30, SeedSpread: 7.5},
	}
}

// Sample is one generated reading.
type Sample struct {
	// Level is the clamped, unrounded walk value.
	Level float64
	// Value is Level rounded to 2 decimal places for reporting.
	Value float64
}

// StepFunc returns the increment applied to a metric's previous level.
type StepFunc func(kind MetricKind, p Profile) float64

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithStepFunc replaces the random step distribution
func WithStepFunc(fn StepFunc) GeneratorOption {
	return func(g *Generator) {
		g.step = fn
	}
}

// Generator produces bounded random-walk samples. It is driven from a single
// goroutine and is not safe for concurrent use.
type Generator struct {
	profiles map[MetricKind]Profile
	rng      *rand.Rand
	step     StepFunc
}

// NewGenerator builds a generator over the given profiles. A zero seed picks
// a random one, otherwise the sequence is reproducible.
func NewGenerator(profiles map[MetricKind]Profile, seed uint64, opts ...GeneratorOption) *Generator {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	g := &Generator{
		profiles: profiles,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	g.step = g.uniformStep
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Profile returns the walk parameters for kind
func (g *Generator) Profile(kind MetricKind) Profile {
	return g.profiles[kind]
}

// Seed draws a starting level for kind, within its bounds.
func (g *Generator) Seed(kind MetricKind) float64 {
	p := g.profiles[kind]
	v := p.SeedCenter + (g.rng.Float64()-0.5)*2*p.SeedSpread
	return p.Bounds.Clamp(v)
}

// Next advances kind's walk from prev by one step.
func (g *Generator) Next(kind MetricKind, prev float64) Sample {
	p := g.profiles[kind]
	level := p.Bounds.Clamp(prev + g.step(kind, p))
	return Sample{
		Level: level,
		Value: p.Bounds.Clamp(roundSample(level)),
	}
}

func (g *Generator) uniformStep(_ MetricKind, p Profile) float64 {
	return p.StepMin + g.rng.Float64()*(p.StepMax-p.StepMin)
}

// roundSample rounds to the 2 decimal places that are reported
func roundSample(v float64) float64 {
	return math.Round(v*100) / 100
}
