// Package smartthings talks to the SmartThings API on behalf of the engine.
//
// The package splits credential-free transport (Client) from per-pass state
// (Session). A Session is opened with the account PAT token and a location
// name; it resolves the location's id, time zone, coordinates, rooms and
// switch-capable devices up front, because plans speak in human-readable
// names while the API speaks in ids.
//
// Session satisfies both sides of a reconciliation pass: it is the
// reconcile.RemoteClient (rule CRUD, with rules named vplan/plan/group/
// purpose and triggered daily at an offset from local midnight) and the
// schedule.GeoProvider (time zone from the location record, sun times
// computed from its coordinates).
//
// Errors from the API are classified as reconcile.ErrRemoteTransient
// (network failures, timeouts, 429, 5xx) or reconcile.ErrRemoteHard
// (other non-2xx) so the engine knows what is worth retrying.
package smartthings
