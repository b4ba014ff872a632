// Package reconcile diffs the desired rule set for a plan against the rules
// that currently exist remotely and applies the minimal set of create,
// update and delete operations.
//
// Both sets are indexed by (plan, group, purpose). A desired key absent
// remotely becomes a create; a key present on both sides with a drifted
// trigger time or device list becomes an update; a remote key no longer
// desired becomes a delete. Re-running with an unchanged pair after a
// successful pass produces zero operations.
//
// Operations are independent per key and applied at most once per pass. A
// failure on one key never stops the others: each outcome is recorded
// separately and the pass result reports per-key success or terminal error.
// Transient remote failures (network, timeout, throttling) are retried a
// bounded number of times with exponential backoff; hard failures (unknown
// device, validation) are surfaced immediately.
package reconcile
