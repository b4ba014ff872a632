package refresh

import "sync"

// planLocks serialises passes per plan. A pass holds its plan's lock for
// the whole reconciliation; concurrent requests for the same plan fail fast
// with ErrBusy rather than queue, since a queued pass would recompute the
// same desired state anyway. Different plans run concurrently.
type planLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func newPlanLocks() *planLocks {
	return &planLocks{held: make(map[string]bool)}
}

// TryAcquire attempts to take the lock for a plan without blocking.
func (l *planLocks) TryAcquire(planName string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[planName] {
		return false
	}
	l.held[planName] = true
	return true
}

// Release frees the lock for a plan.
func (l *planLocks) Release(planName string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, planName)
}
