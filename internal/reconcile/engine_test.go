package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vplan-io/vplan-core/internal/schedule"
)

// mockRemote scripts a RemoteClient for engine tests. Per-call error queues
// let tests model transient failures that clear after n attempts.
type mockRemote struct {
	rules []RemoteRule

	listErrs   []error
	createErrs []error
	updateErr  error
	deleteErr  error

	created []schedule.DesiredRule
	updated map[string]schedule.DesiredRule
	deleted []string

	nextID int
}

func newMockRemote(rules ...RemoteRule) *mockRemote {
	return &mockRemote{
		rules:   rules,
		updated: make(map[string]schedule.DesiredRule),
	}
}

func (m *mockRemote) popErr(queue *[]error) error {
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}

func (m *mockRemote) ListRules(_ context.Context, _ string) ([]RemoteRule, error) {
	if err := m.popErr(&m.listErrs); err != nil {
		return nil, err
	}
	return m.rules, nil
}

func (m *mockRemote) CreateRule(_ context.Context, rule schedule.DesiredRule) (string, error) {
	if err := m.popErr(&m.createErrs); err != nil {
		return "", err
	}
	m.created = append(m.created, rule)
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID), nil
}

func (m *mockRemote) UpdateRule(_ context.Context, id string, rule schedule.DesiredRule) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated[id] = rule
	return nil
}

func (m *mockRemote) DeleteRule(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func fastRetry(maxAttempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts, InitialBackoff: time.Millisecond}
}

func transientErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrRemoteTransient, msg)
}

func hardErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrRemoteHard, msg)
}

func TestReconcileAppliesFullDiff(t *testing.T) {
	remote := newMockRemote(
		remoteRule("r1", "living-room", schedule.PurposeOn, 19*60, sofaLamp),
		remoteRule("r2", "garden", schedule.PurposeOff, 22*60, frontLight),
	)
	desired := []schedule.DesiredRule{
		desiredRule("living-room", schedule.PurposeOn, 20, 0, sofaLamp),
		desiredRule("porch", schedule.PurposeOn, 19, 30, frontLight),
	}

	result, err := NewEngine(remote, fastRetry(1), nil).Reconcile(context.Background(), "my-house", desired)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applied, failed := result.Counts()
	if applied != 3 || failed != 0 {
		t.Fatalf("applied=%d failed=%d, want 3/0", applied, failed)
	}
	if len(remote.created) != 1 || remote.created[0].Key.Group != "porch" {
		t.Errorf("expected porch create, got %+v", remote.created)
	}
	if _, ok := remote.updated["r1"]; !ok {
		t.Errorf("expected update of r1, got %+v", remote.updated)
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != "r2" {
		t.Errorf("expected delete of r2, got %+v", remote.deleted)
	}

	// The create outcome carries the id assigned by the remote.
	for _, outcome := range result.Outcomes {
		if outcome.Kind == OpCreate && outcome.RuleID == "" {
			t.Errorf("create outcome missing rule id: %+v", outcome)
		}
	}
}

func TestReconcileListFailureAbortsPass(t *testing.T) {
	remote := newMockRemote()
	remote.listErrs = []error{hardErr("forbidden")}

	_, err := NewEngine(remote, fastRetry(3), nil).Reconcile(context.Background(), "my-house", nil)
	if !errors.Is(err, ErrRemoteHard) {
		t.Fatalf("expected the listing error, got %v", err)
	}
	if len(remote.created)+len(remote.deleted) != 0 {
		t.Error("no operations should run without a listing")
	}
}

func TestReconcileRetriesTransientListing(t *testing.T) {
	remote := newMockRemote(
		remoteRule("r1", "porch", schedule.PurposeOn, 19*60, frontLight),
	)
	remote.listErrs = []error{transientErr("429"), transientErr("429")}

	result, err := NewEngine(remote, fastRetry(3), nil).Reconcile(context.Background(), "my-house", nil)
	if err != nil {
		t.Fatalf("listing should succeed on the third attempt: %v", err)
	}
	if len(remote.deleted) != 1 {
		t.Errorf("expected the stale rule deleted, got %+v", remote.deleted)
	}
	_ = result
}

func TestReconcileIsolatesOperationFailures(t *testing.T) {
	remote := newMockRemote(
		remoteRule("r1", "garden", schedule.PurposeOff, 22*60, frontLight),
	)
	remote.deleteErr = hardErr("conflict")
	desired := []schedule.DesiredRule{
		desiredRule("porch", schedule.PurposeOn, 19, 30, frontLight),
	}

	result, err := NewEngine(remote, fastRetry(1), nil).Reconcile(context.Background(), "my-house", desired)
	if err != nil {
		t.Fatalf("per-operation failures must not fail the pass: %v", err)
	}

	applied, failed := result.Counts()
	if applied != 1 || failed != 1 {
		t.Fatalf("applied=%d failed=%d, want 1/1", applied, failed)
	}
	if len(remote.created) != 1 {
		t.Error("the create should still run after the delete fails")
	}

	for _, outcome := range result.Outcomes {
		if outcome.Kind == OpDelete {
			if outcome.Succeeded() {
				t.Error("delete outcome should record the failure")
			}
			if outcome.Error == "" {
				t.Error("failed outcome should carry the error text")
			}
		}
	}
}

func TestReconcileRetriesOnlyTransientErrors(t *testing.T) {
	tests := []struct {
		name         string
		errs         []error
		wantAttempts int
		wantOK       bool
	}{
		{
			name:         "transient clears within budget",
			errs:         []error{transientErr("502"), transientErr("503")},
			wantAttempts: 3,
			wantOK:       true,
		},
		{
			name:         "transient exhausts budget",
			errs:         []error{transientErr("502"), transientErr("502"), transientErr("502")},
			wantAttempts: 3,
			wantOK:       false,
		},
		{
			name:         "hard fails immediately",
			errs:         []error{hardErr("422")},
			wantAttempts: 1,
			wantOK:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newMockRemote()
			remote.createErrs = tt.errs
			desired := []schedule.DesiredRule{
				desiredRule("porch", schedule.PurposeOn, 19, 30, frontLight),
			}

			result, err := NewEngine(remote, fastRetry(3), nil).Reconcile(context.Background(), "my-house", desired)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Outcomes) != 1 {
				t.Fatalf("got %d outcomes, want 1", len(result.Outcomes))
			}

			outcome := result.Outcomes[0]
			if outcome.Attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", outcome.Attempts, tt.wantAttempts)
			}
			if outcome.Succeeded() != tt.wantOK {
				t.Errorf("succeeded = %v, want %v (err %v)", outcome.Succeeded(), tt.wantOK, outcome.Err)
			}
		})
	}
}

func TestReconcileEmptyDesiredDeletesEverything(t *testing.T) {
	remote := newMockRemote(
		remoteRule("r1", "porch", schedule.PurposeOn, 19*60, frontLight),
		remoteRule("r2", "porch", schedule.PurposeOff, 23*60, frontLight),
	)

	result, err := NewEngine(remote, fastRetry(1), nil).Reconcile(context.Background(), "my-house", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied, failed := result.Counts(); applied != 2 || failed != 0 {
		t.Fatalf("applied=%d failed=%d, want 2/0", applied, failed)
	}
	if len(remote.deleted) != 2 {
		t.Errorf("expected both rules deleted, got %+v", remote.deleted)
	}
}

func TestReconcileCancelledContextStopsRetrying(t *testing.T) {
	remote := newMockRemote()
	remote.listErrs = []error{transientErr("slow"), transientErr("slow"), transientErr("slow")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(remote, RetryPolicy{MaxAttempts: 4, InitialBackoff: time.Minute}, nil).Reconcile(ctx, "my-house", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(transientErr("x")) {
		t.Error("wrapped transient error not recognised")
	}
	if IsTransient(hardErr("x")) {
		t.Error("hard error reported transient")
	}
	if IsTransient(errors.New("plain")) {
		t.Error("unclassified error reported transient")
	}
}
