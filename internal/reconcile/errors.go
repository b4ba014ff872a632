package reconcile

import "errors"

// Error kinds for remote operations.
//
// Remote clients wrap their failures in one of these sentinels so the engine
// can decide whether to retry:
//
//	return fmt.Errorf("%w: %v", reconcile.ErrRemoteTransient, err)
var (
	// ErrRemoteTransient marks a failure worth retrying: network errors,
	// timeouts, throttling, server-side 5xx responses.
	ErrRemoteTransient = errors.New("reconcile: transient remote failure")

	// ErrRemoteHard marks a failure that will not succeed on retry:
	// validation rejections, unknown devices or components, missing rules.
	ErrRemoteHard = errors.New("reconcile: hard remote failure")
)

// IsTransient reports whether an error should be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRemoteTransient)
}
