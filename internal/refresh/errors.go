package refresh

import "errors"

// Domain-specific errors for refresh operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrBusy is returned when a pass is requested for a plan that already
	// has one in flight. Requests are rejected, not queued; the caller can
	// retry once the running pass finishes.
	ErrBusy = errors.New("refresh: plan refresh already in progress")

	// ErrInvalidDocument is returned when a stored plan no longer parses.
	// This can only happen if the database was edited by hand, since the
	// API validates documents on the way in.
	ErrInvalidDocument = errors.New("refresh: stored plan document is invalid")
)
