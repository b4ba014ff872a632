package plan

import "errors"

// Domain errors for the plan package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, plan.ErrInvalidPlan) {
//	    // reject the document
//	}
var (
	// ErrInvalidPlan is the root error for all document validation failures.
	ErrInvalidPlan = errors.New("plan: invalid")

	// ErrInvalidVersion is returned when the schema version is malformed or
	// outside the supported window.
	ErrInvalidVersion = errors.New("plan: invalid schema version")

	// ErrInvalidName is returned when a plan or group name is malformed.
	ErrInvalidName = errors.New("plan: invalid name")

	// ErrInvalidDay is returned when a trigger day list contains an
	// unrecognised token.
	ErrInvalidDay = errors.New("plan: invalid trigger day")

	// ErrInvalidTime is returned when a trigger or refresh time is malformed.
	ErrInvalidTime = errors.New("plan: invalid time")

	// ErrInvalidVariation is returned when a trigger variation is malformed.
	ErrInvalidVariation = errors.New("plan: invalid variation")

	// ErrInvalidZone is returned when a refresh zone is not a known IANA
	// time zone name.
	ErrInvalidZone = errors.New("plan: invalid time zone")
)
