// Package refresh drives reconciliation passes.
//
// The Runner executes a single pass for one plan: snapshot the stored plan
// and account, open a SmartThings session, synthesise today's desired
// rules and reconcile them against the remote account. It also serves
// dry-run previews and device group toggle tests. The Scheduler wraps the
// runner with one cron entry per enabled plan, firing daily at the plan's
// refresh time in its own time zone.
//
// Passes for the same plan are mutually exclusive; a second request while
// one is running fails with ErrBusy. Refreshing daily is what keeps sun
// times and random variations current: yesterday's sunset rule is wrong by
// a minute or two today, and a static schedule is exactly the pattern a
// burglar looks for.
package refresh
