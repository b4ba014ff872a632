// Package schedule compiles a validated plan document into the desired rule
// set for one calendar date.
//
// The pipeline for each device group:
//
//  1. Pick the effective trigger for the date's weekday (ordered scan over
//     the group's triggers; the last trigger claiming the weekday wins).
//  2. Resolve the trigger's on/off time specs into concrete instants in the
//     location's time zone. Sunrise and sunset come from a GeoProvider and
//     shift daily; midnight, noon and clock times are fixed offsets.
//  3. Apply the trigger's variation: bounded jitter drawn from a generator
//     seeded by (plan, group, trigger, purpose, date), so a pass is stable
//     when re-run for the same date but each new date draws fresh times.
//
// The result is two DesiredRules per active group (purpose "on" and "off"),
// keyed by (plan, group, purpose) for reconciliation diffing. Groups whose
// triggers do not claim the date's weekday produce no rules. Off-before-on
// orderings are preserved as authored; an off time earlier in the clock than
// the on time is a window crossing midnight.
//
// The package performs no I/O beyond the GeoProvider calls and never touches
// remote state.
package schedule
