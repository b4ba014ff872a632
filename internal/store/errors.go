package store

import "errors"

// Domain-specific errors for persistence operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAccountNotFound is returned when no account has been configured.
	ErrAccountNotFound = errors.New("store: account not found")

	// ErrPlanNotFound is returned when a plan does not exist.
	ErrPlanNotFound = errors.New("store: plan not found")

	// ErrPlanExists is returned when creating a plan whose name is taken.
	ErrPlanExists = errors.New("store: plan already exists")

	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("store: database unavailable")
)
