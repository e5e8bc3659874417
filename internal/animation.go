package simtop

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Easing names accepted by animation.easing
const (
	EasingLinear = "linear"
	EasingSpring = "spring"
)

// springSettle is how close to its target a point must be to stop the spring.
const springSettle = 0.01

// Animation morphs a fixed-length series from the values on screen to a new
// target, point by point at the same index. Its buffers are sized once and
// reused for every retarget.
type Animation struct {
	easing   string
	duration time.Duration

	from   []float64
	to     []float64
	shown  []float64
	vel    []float64
	spring harmonica.Spring

	elapsed time.Duration
	active  bool
}

// NewAnimation returns an idle animation over n points. A zero duration
// makes every retarget jump straight to the new values.
func NewAnimation(easing string, duration time.Duration, n int) *Animation {
	a := &Animation{
		easing:   easing,
		duration: duration,
		from:     make([]float64, n),
		to:       make([]float64, n),
		shown:    make([]float64, n),
		vel:      make([]float64, n),
	}
	if easing == EasingSpring {
		// critically damped, settling in roughly the configured duration
		freq := 6.0
		if duration > 0 {
			freq = 4.0 / duration.Seconds()
		}
		a.spring = harmonica.NewSpring(harmonica.FPS(FRAME_RATE), freq, 1.0)
	}
	return a
}

// Snap shows values immediately with no transition.
func (a *Animation) Snap(values []float64) {
	a.resize(len(values))
	copy(a.to, values)
	copy(a.shown, values)
	copy(a.from, values)
	clear(a.vel)
	a.active = false
}

// Retarget starts a transition from whatever is on screen to values.
func (a *Animation) Retarget(values []float64) {
	if len(values) != len(a.shown) {
		a.Snap(values)
		return
	}
	if a.duration <= 0 {
		a.Snap(values)
		return
	}
	copy(a.from, a.shown)
	copy(a.to, values)
	a.elapsed = 0
	a.active = true
}

// Step advances the transition by dt and reports whether it is still moving.
func (a *Animation) Step(dt time.Duration) bool {
	if !a.active {
		return false
	}
	a.elapsed += dt

	if a.easing == EasingSpring {
		settled := true
		for i := range a.shown {
			a.shown[i], a.vel[i] = a.spring.Update(a.shown[i], a.vel[i], a.to[i])
			if math.Abs(a.shown[i]-a.to[i]) > springSettle || math.Abs(a.vel[i]) > springSettle {
				settled = false
			}
		}
		// a spring never quite arrives; cut it off well after the duration
		if settled || a.elapsed >= 4*a.duration {
			a.finish()
		}
		return a.active
	}

	t := float64(a.elapsed) / float64(a.duration)
	if t >= 1 {
		a.finish()
		return false
	}
	for i := range a.shown {
		a.shown[i] = a.from[i] + (a.to[i]-a.from[i])*t
	}
	return true
}

func (a *Animation) finish() {
	copy(a.shown, a.to)
	clear(a.vel)
	a.active = false
}

// Shown returns the values currently on screen. The slice is reused.
func (a *Animation) Shown() []float64 {
	return a.shown
}

// Target returns the values being animated towards. The slice is reused.
func (a *Animation) Target() []float64 {
	return a.to
}

func (a *Animation) Active() bool {
	return a.active
}

func (a *Animation) resize(n int) {
	if len(a.shown) == n {
		return
	}
	a.from = make([]float64, n)
	a.to = make([]float64, n)
	a.shown = make([]float64, n)
	a.vel = make([]float64, n)
}
