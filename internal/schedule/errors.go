package schedule

import "errors"

// Domain errors for the schedule package.
var (
	// ErrResolution is returned when a location or time cannot be resolved.
	// It is fatal for the affected group's rules on that date; other groups
	// are unaffected.
	ErrResolution = errors.New("schedule: resolution failed")

	// ErrGroupNotFound is returned when a named group does not exist in the
	// plan.
	ErrGroupNotFound = errors.New("schedule: group not found")
)
