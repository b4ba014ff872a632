package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// Synthesizer produces the desired rule set for a plan and date.
type Synthesizer struct {
	geo GeoProvider
}

// NewSynthesizer creates a synthesizer backed by the given geo provider.
func NewSynthesizer(geo GeoProvider) *Synthesizer {
	return &Synthesizer{geo: geo}
}

// Synthesize computes the desired rules for every group in the document on
// the given date.
//
// A location that cannot be resolved at all (no time zone) fails the whole
// call. Sun-time failures are isolated per group: affected groups are
// reported in groupErrs and contribute no rules, while other groups still
// synthesize. Groups with no trigger active on the date's weekday are
// skipped silently.
func (s *Synthesizer) Synthesize(ctx context.Context, doc *plan.Document, date Date) (rules []DesiredRule, groupErrs map[string]error, err error) {
	zone, err := s.geo.Timezone(ctx, doc.Location())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: time zone for %q: %w", ErrResolution, doc.Location(), err)
	}

	groupErrs = make(map[string]error)
	for _, group := range doc.Groups() {
		groupRules, groupErr := s.synthesizeGroup(ctx, doc, group, date, zone)
		if groupErr != nil {
			groupErrs[group.Name] = groupErr
			continue
		}
		rules = append(rules, groupRules...)
	}
	return rules, groupErrs, nil
}

// SynthesizeGroup computes the desired rules for a single named group.
// Used by dry runs; the daily pass goes through Synthesize.
func (s *Synthesizer) SynthesizeGroup(ctx context.Context, doc *plan.Document, groupName string, date Date) ([]DesiredRule, error) {
	group, ok := doc.Group(groupName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, groupName)
	}
	zone, err := s.geo.Timezone(ctx, doc.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: time zone for %q: %w", ErrResolution, doc.Location(), err)
	}
	return s.synthesizeGroup(ctx, doc, group, date, zone)
}

func (s *Synthesizer) synthesizeGroup(ctx context.Context, doc *plan.Document, group plan.CompiledGroup, date Date, zone *time.Location) ([]DesiredRule, error) {
	trigger, active := EffectiveTrigger(group, date.Weekday())
	if !active {
		return nil, nil
	}

	rules := make([]DesiredRule, 0, 2)
	for _, purpose := range []Purpose{PurposeOn, PurposeOff} {
		spec := trigger.On
		if purpose == PurposeOff {
			spec = trigger.Off
		}

		base, err := ResolveTime(ctx, s.geo, doc.Location(), spec, date, zone)
		if err != nil {
			// No partial instants for a group: one unresolvable time spec
			// drops both of the group's rules for this date.
			return nil, err
		}

		seed := VariationSeed(doc.Name(), group.Name, trigger.Index, purpose, date)
		at := Vary(base, trigger.Variation, seed)

		rules = append(rules, DesiredRule{
			Key:     Key{Plan: doc.Name(), Group: group.Name, Purpose: purpose},
			Devices: group.Devices,
			State:   purpose.State(),
			At:      at,
		})
	}
	return rules, nil
}
