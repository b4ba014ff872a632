package schedule

import (
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// EffectiveTrigger picks the trigger governing a group on the given weekday.
//
// Triggers are scanned in declaration order and the last trigger whose day
// set contains the weekday wins. Overlapping day sets are legal; the
// precedence is explicit here rather than an accident of iteration order.
// The second return is false when no trigger claims the weekday, in which
// case the group produces no rules for that date.
func EffectiveTrigger(group plan.CompiledGroup, weekday time.Weekday) (plan.CompiledTrigger, bool) {
	var effective plan.CompiledTrigger
	found := false
	for _, trigger := range group.Triggers {
		if trigger.Days.Contains(weekday) {
			effective = trigger
			found = true
		}
	}
	return effective, found
}
