package reconcile

import (
	"sort"

	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/schedule"
)

// Diff computes the minimal operation set transforming actual into desired.
//
// Matching keys with identical trigger time and device list produce no
// operation, which is what makes a repeated pass idempotent. The returned
// operations are sorted by rule name so application order is deterministic;
// the operations themselves are independent per key.
func Diff(desired []schedule.DesiredRule, actual []RemoteRule) []Operation {
	actualByKey := make(map[schedule.Key]RemoteRule, len(actual))
	for _, rule := range actual {
		actualByKey[rule.Key] = rule
	}

	var ops []Operation
	seen := make(map[schedule.Key]struct{}, len(desired))
	for i := range desired {
		want := desired[i]
		if _, dup := seen[want.Key]; dup {
			// At most one operation per key per pass.
			continue
		}
		seen[want.Key] = struct{}{}

		have, exists := actualByKey[want.Key]
		switch {
		case !exists:
			ops = append(ops, Operation{Kind: OpCreate, Key: want.Key, Desired: &want})
		case have.OffsetMinutes != want.OffsetMinutes() || !sameDevices(have.Devices, want.Devices):
			ops = append(ops, Operation{Kind: OpUpdate, Key: want.Key, RuleID: have.ID, Desired: &want})
		}
	}

	for _, rule := range actual {
		if _, wanted := seen[rule.Key]; !wanted {
			ops = append(ops, Operation{Kind: OpDelete, Key: rule.Key, RuleID: rule.ID})
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Key.RuleName() < ops[j].Key.RuleName()
	})
	return ops
}

// sameDevices compares device lists ignoring order.
func sameDevices(a, b []plan.Device) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[plan.Device]int, len(a))
	for _, device := range a {
		counts[normalise(device)]++
	}
	for _, device := range b {
		counts[normalise(device)]--
	}
	for _, count := range counts {
		if count != 0 {
			return false
		}
	}
	return true
}

func normalise(d plan.Device) plan.Device {
	d.Component = d.ComponentOrDefault()
	return d
}
