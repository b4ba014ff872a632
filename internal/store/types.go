package store

import "time"

// Account holds the remote automation account credentials.
//
// The engine manages rules for exactly one account at a time, so the
// account table holds at most one row. The PAT token is stored here
// rather than in config.yaml so it can be rotated over the API without
// restarting the daemon.
type Account struct {
	// Name is a human-readable label for the account.
	Name string `json:"name"`

	// PatToken is the personal access token used for API authentication.
	// Never included in API responses; see the api package.
	PatToken string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanRecord is a stored vacation plan.
//
// Document holds the plan's YAML source exactly as submitted. Storing
// the text rather than a parsed form means a plan round-trips through
// the API byte for byte, and schema evolution never requires a data
// migration. Callers parse it with plan.Load when they need structure.
type PlanRecord struct {
	// Name is the unique plan identifier, matching the name inside the
	// YAML document.
	Name string `json:"name"`

	// Enabled controls whether the refresh scheduler runs this plan.
	// Disabled plans keep their stored document but own no remote rules.
	Enabled bool `json:"enabled"`

	// Document is the raw YAML plan definition.
	Document string `json:"document"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
