package smartthings

import "errors"

// Domain-specific errors for SmartThings operations.
// Use errors.Is() to check for these errors in calling code.
//
// Transport and status failures are classified with the reconcile package's
// ErrRemoteTransient and ErrRemoteHard sentinels instead, so the
// reconciliation engine can decide what to retry.
var (
	// ErrLocationNotFound is returned when the plan's location name does
	// not exist in the account.
	ErrLocationNotFound = errors.New("smartthings: location not found")

	// ErrBadLocation is returned when a location exists but is unusable:
	// unknown time zone, missing coordinates, or no sun event on the
	// requested date.
	ErrBadLocation = errors.New("smartthings: location unusable")

	// ErrDeviceNotFound is returned when a plan device has no match among
	// the location's switch-capable devices.
	ErrDeviceNotFound = errors.New("smartthings: device not found")
)
