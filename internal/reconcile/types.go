package reconcile

import (
	"context"

	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/schedule"
)

// RemoteRule is the remote system's view of an existing rule: an opaque
// identifier, the key recovered from the rule name, the daily trigger time
// as minutes after midnight, and the devices it switches (mapped back to
// room/device names by the client).
type RemoteRule struct {
	ID            string
	Key           schedule.Key
	OffsetMinutes int
	Devices       []plan.Device
}

// RemoteClient is the remote automation account's rule API as the engine
// needs it. Implementations classify failures with ErrRemoteTransient or
// ErrRemoteHard.
type RemoteClient interface {
	// ListRules returns the rules currently owned by the named plan.
	ListRules(ctx context.Context, planName string) ([]RemoteRule, error)

	// CreateRule creates a rule and returns its remote identifier.
	CreateRule(ctx context.Context, rule schedule.DesiredRule) (string, error)

	// UpdateRule replaces the rule with the given identifier.
	UpdateRule(ctx context.Context, id string, rule schedule.DesiredRule) error

	// DeleteRule removes the rule with the given identifier.
	DeleteRule(ctx context.Context, id string) error
}

// OpKind is the kind of corrective operation.
type OpKind string

// Operation kinds.
const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Operation is one corrective step for a single key.
type Operation struct {
	Kind    OpKind
	Key     schedule.Key
	RuleID  string                // remote id for update/delete
	Desired *schedule.DesiredRule // nil for delete
}

// Outcome records the terminal result of one operation.
type Outcome struct {
	Kind     OpKind       `json:"op"`
	Key      schedule.Key `json:"-"`
	Rule     string       `json:"rule"`
	RuleID   string       `json:"rule_id,omitempty"`
	Attempts int          `json:"attempts"`
	Err      error        `json:"-"`
	Error    string       `json:"error,omitempty"`
}

// Succeeded reports whether the operation was applied.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Result is the per-key outcome report for one reconciliation pass.
type Result struct {
	Outcomes []Outcome
}

// Counts returns the number of applied and failed operations.
func (r *Result) Counts() (applied, failed int) {
	for _, outcome := range r.Outcomes {
		if outcome.Succeeded() {
			applied++
		} else {
			failed++
		}
	}
	return applied, failed
}
