package trip

import (
	"time"

	xerrors "fleetflow-service/internal/pkg/errors"
)

// allowTransition is the exhaustive transition table for the trip lifecycle.
// Anything not listed here is rejected; COMPLETED and CANCELLED are terminal.
var allowTransition = map[Status][]Status{
	StatusDraft:      {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a permitted lifecycle step.
func CanTransition(from, to Status) bool {
	for _, s := range allowTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves the trip to the target status and maintains the
// lifecycle timestamps. StartedAt and CompletedAt are each set exactly once.
func ApplyTransition(t *Trip, to Status, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return xerrors.Validationf("invalid trip status transition: %s -> %s", t.Status, to)
	}

	t.Status = to
	switch to {
	case StatusInProgress:
		if t.StartedAt == nil {
			ts := now
			t.StartedAt = &ts
		}
	case StatusCompleted:
		if t.CompletedAt == nil {
			ts := now
			t.CompletedAt = &ts
		}
	}
	return nil
}
