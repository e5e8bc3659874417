package simtop

import (
	"time"
)

const (
	// WINDOW_CAPACITY is the number of samples visible in each chart
	WINDOW_CAPACITY = 30

	// UPDATE_INTERVAL is the time between ticks in milliseconds
	UPDATE_INTERVAL = 1000

	// ANIMATION_DURATION is how long a chart takes to morph to new data, in milliseconds
	ANIMATION_DURATION = 200

	// FRAME_RATE is the number of animation frames drawn per second
	FRAME_RATE = 30

	// SCALE_MAX is the top of every chart's vertical axis
	SCALE_MAX = 100.0
)

// UpdateDuration returns the tick interval as a time.Duration
func UpdateDuration() time.Duration {
	return time.Duration(UPDATE_INTERVAL) * time.Millisecond
}

// AnimationDuration returns the default animation length as a time.Duration
func AnimationDuration() time.Duration {
	return time.Duration(ANIMATION_DURATION) * time.Millisecond
}

// FrameDuration returns the time between animation frames
func FrameDuration() time.Duration {
	return time.Second / FRAME_RATE
}
