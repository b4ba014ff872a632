package schedule

import (
	"testing"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// mustDays builds a weekday set from day tokens, failing the test on error.
func mustDays(t *testing.T, tokens ...string) plan.WeekdaySet {
	t.Helper()
	set, err := plan.ExpandDays(tokens)
	if err != nil {
		t.Fatalf("expanding days %v: %v", tokens, err)
	}
	return set
}

func TestEffectiveTriggerLastDeclaredWins(t *testing.T) {
	group := plan.CompiledGroup{
		Name: "porch",
		Triggers: []plan.CompiledTrigger{
			{Index: 0, Days: mustDays(t, "all"), On: plan.TimeSpec{Kind: plan.TimeClock, Hour: 19}},
			{Index: 1, Days: mustDays(t, "friday"), On: plan.TimeSpec{Kind: plan.TimeClock, Hour: 20}},
		},
	}

	// Friday is claimed by both triggers; the later declaration wins.
	trigger, ok := EffectiveTrigger(group, time.Friday)
	if !ok {
		t.Fatal("expected a trigger for Friday")
	}
	if trigger.Index != 1 {
		t.Errorf("got trigger %d, want 1 (last declared)", trigger.Index)
	}

	// Monday is only claimed by the first trigger.
	trigger, ok = EffectiveTrigger(group, time.Monday)
	if !ok {
		t.Fatal("expected a trigger for Monday")
	}
	if trigger.Index != 0 {
		t.Errorf("got trigger %d, want 0", trigger.Index)
	}
}

func TestEffectiveTriggerNoMatch(t *testing.T) {
	group := plan.CompiledGroup{
		Name: "porch",
		Triggers: []plan.CompiledTrigger{
			{Index: 0, Days: mustDays(t, "weekend")},
		},
	}

	if _, ok := EffectiveTrigger(group, time.Wednesday); ok {
		t.Error("weekend-only group should have no trigger on Wednesday")
	}
}

func TestEffectiveTriggerEmptyGroup(t *testing.T) {
	group := plan.CompiledGroup{Name: "empty"}
	if _, ok := EffectiveTrigger(group, time.Monday); ok {
		t.Error("group with no triggers should never match")
	}
}
