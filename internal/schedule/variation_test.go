package schedule

import (
	"testing"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

var varyBase = time.Date(2026, time.March, 15, 19, 30, 0, 0, time.UTC)

func TestVaryNone(t *testing.T) {
	got := Vary(varyBase, plan.VariationSpec{Kind: plan.VariationNone}, 42)
	if !got.Equal(varyBase) {
		t.Errorf("VariationNone moved the instant: %v", got)
	}
}

func TestVaryDeterministic(t *testing.T) {
	spec := plan.VariationSpec{Kind: plan.VariationSymmetric, Range: 30 * time.Minute}
	seed := VariationSeed("my-house", "porch", 0, PurposeOn, Date{Year: 2026, Month: time.March, Day: 15})

	first := Vary(varyBase, spec, seed)
	second := Vary(varyBase, spec, seed)
	if !first.Equal(second) {
		t.Errorf("same seed gave different instants: %v vs %v", first, second)
	}
}

func TestVariationSeedVariesByInput(t *testing.T) {
	date := Date{Year: 2026, Month: time.March, Day: 15}
	nextDay := Date{Year: 2026, Month: time.March, Day: 16}

	base := VariationSeed("my-house", "porch", 0, PurposeOn, date)
	seeds := []int64{
		VariationSeed("other-house", "porch", 0, PurposeOn, date),
		VariationSeed("my-house", "garden", 0, PurposeOn, date),
		VariationSeed("my-house", "porch", 1, PurposeOn, date),
		VariationSeed("my-house", "porch", 0, PurposeOff, date),
		VariationSeed("my-house", "porch", 0, PurposeOn, nextDay),
	}
	for i, seed := range seeds {
		if seed == base {
			t.Errorf("seed %d collided with base; inputs should be independent", i)
		}
	}
}

func TestVaryBounds(t *testing.T) {
	tests := []struct {
		name string
		spec plan.VariationSpec
		min  time.Duration
		max  time.Duration
	}{
		{
			name: "earlier only",
			spec: plan.VariationSpec{Kind: plan.VariationEarlier, Range: 15 * time.Minute},
			min:  -15 * time.Minute,
			max:  0,
		},
		{
			name: "later only",
			spec: plan.VariationSpec{Kind: plan.VariationLater, Range: 15 * time.Minute},
			min:  0,
			max:  15 * time.Minute,
		},
		{
			name: "symmetric",
			spec: plan.VariationSpec{Kind: plan.VariationSymmetric, Range: 15 * time.Minute},
			min:  -15 * time.Minute,
			max:  15 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 500; seed++ {
				got := Vary(varyBase, tt.spec, seed)
				offset := got.Sub(varyBase)
				if offset < tt.min || offset > tt.max {
					t.Fatalf("seed %d: offset %v outside [%v, %v]", seed, offset, tt.min, tt.max)
				}
				if offset%time.Minute != 0 {
					t.Fatalf("seed %d: offset %v is not whole minutes", seed, offset)
				}
			}
		})
	}
}
