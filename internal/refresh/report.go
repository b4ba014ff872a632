package refresh

import (
	"time"

	"github.com/vplan-io/vplan-core/internal/reconcile"
)

// PassReport summarises one reconciliation pass. It is returned to API
// callers, published over MQTT, and condensed into InfluxDB telemetry.
type PassReport struct {
	// ID uniquely identifies the pass across logs, API responses and
	// published events.
	ID      string `json:"pass_id"`
	Plan    string `json:"plan"`
	Date    string `json:"date"`
	Trigger string `json:"trigger"` // "scheduled" or "manual"
	Enabled bool   `json:"enabled"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Desired is the number of rules the plan wants on this date.
	Desired int `json:"desired"`

	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`

	// GroupErrors maps group names to resolution failures. Groups listed
	// here contributed no rules this pass but did not abort it.
	GroupErrors map[string]string `json:"group_errors,omitempty"`

	Outcomes []reconcile.Outcome `json:"outcomes,omitempty"`
}

// Duration returns the wall-clock length of the pass.
func (r *PassReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clean reports whether the pass completed with no failed operations and
// no group resolution errors.
func (r *PassReport) Clean() bool {
	return r.Failed == 0 && len(r.GroupErrors) == 0
}

// tally fills the per-kind operation counts from reconciliation outcomes.
func (r *PassReport) tally(result *reconcile.Result) {
	r.Outcomes = result.Outcomes
	for _, outcome := range result.Outcomes {
		if !outcome.Succeeded() {
			r.Failed++
			continue
		}
		switch outcome.Kind {
		case reconcile.OpCreate:
			r.Created++
		case reconcile.OpUpdate:
			r.Updated++
		case reconcile.OpDelete:
			r.Deleted++
		}
	}
}
