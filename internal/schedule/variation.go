package schedule

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// VariationSeed derives the deterministic seed for one jitter draw.
//
// The seed is keyed by (plan, group, trigger, purpose, date) so that:
//   - re-running a pass for the same date reproduces the same instants, and
//   - each new calendar date yields an independent draw, keeping the lights
//     from firing at the same clock time on consecutive days.
func VariationSeed(planName, groupName string, triggerIndex int, purpose Purpose, date Date) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s", planName, groupName, triggerIndex, purpose, date)
	return int64(h.Sum64())
}

// Vary applies a variation spec to a resolved base instant.
//
// Offsets are drawn in whole minutes, uniformly across the inclusive bound:
// Earlier(d) draws from [0, d] and subtracts, Later(d) draws from [0, d] and
// adds, Symmetric(d) draws from [-d, d]. The on/off ordering is not
// corrected afterwards; jitter that pushes off before on is the plan
// author's design.
func Vary(base time.Time, spec plan.VariationSpec, seed int64) time.Time {
	if spec.Kind == plan.VariationNone || spec.Range <= 0 {
		return base
	}

	rng := rand.New(rand.NewSource(seed))
	bound := int64(spec.Range / time.Minute)

	var minutes int64
	switch spec.Kind {
	case plan.VariationEarlier:
		minutes = -rng.Int63n(bound + 1)
	case plan.VariationLater:
		minutes = rng.Int63n(bound + 1)
	case plan.VariationSymmetric:
		minutes = rng.Int63n(2*bound+1) - bound
	}

	return base.Add(time.Duration(minutes) * time.Minute)
}
