package simtop

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDisplaySlot matches any *MissingDisplaySlotError
	ErrMissingDisplaySlot = errors.New("missing display slot")

	// ErrRenderFailure matches any *RenderError
	ErrRenderFailure = errors.New("render failure")

	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrAlreadyStarted  = errors.New("scheduler already started")
	ErrSlotInUse       = errors.New("display slot already has a chart")
)

// MissingDisplaySlotError is returned by Setup when one or more chart slots
// are absent. No renderer has been created when it is returned.
type MissingDisplaySlotError struct {
	Slots []string
}

func (e *MissingDisplaySlotError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingDisplaySlot, strings.Join(e.Slots, ", "))
}

func (e *MissingDisplaySlotError) Is(target error) bool {
	return target == ErrMissingDisplaySlot
}

// RenderError reports that notifying one metric's display failed during a tick.
type RenderError struct {
	Kind MetricKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailure
}
