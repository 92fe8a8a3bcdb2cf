package model

import (
	"fmt"

	"lodge/shared/failure"
)

var (
	// ErrRoomUnavailable is returned when the requested stay overlaps an
	// existing non-cancelled booking for the same room.
	ErrRoomUnavailable = failure.Conflict("room is not available for the selected dates")
)

// StateError reports an illegal lifecycle transition. It indicates a caller
// bug rather than a user condition and is never silently ignored.
type StateError struct {
	Status string
	Action string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %q", e.Action, e.Status)
}

func (e *StateError) Unwrap() error {
	return failure.Conflict(e.Error())
}
