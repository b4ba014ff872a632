package reconcile

import (
	"context"
	"time"
)

// Retry policy defaults. The backoff doubles per attempt: 500ms, 1s, 2s.
const (
	defaultMaxAttempts    = 4
	defaultInitialBackoff = 500 * time.Millisecond
)

// RetryPolicy bounds the attempts made for a single remote operation.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultRetryPolicy returns the standard policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    defaultMaxAttempts,
		InitialBackoff: defaultInitialBackoff,
	}
}

// attempt runs fn under the policy, retrying transient failures with
// exponential backoff. Hard failures and context cancellation stop
// immediately. It returns the number of attempts made and the terminal
// error, nil on success.
func (p RetryPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := p.InitialBackoff

	var err error
	for attempts := 1; ; attempts++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) || attempts >= maxAttempts {
			return attempts, err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempts, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}
