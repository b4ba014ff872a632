package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// GeoProvider supplies the location-dependent inputs to time resolution:
// the location's time zone and its sun times for a calendar date.
//
// Implementations resolve the location name against the remote account and
// compute sun times from the location's coordinates. Failures should be
// returned as-is; the resolver wraps them in ErrResolution.
type GeoProvider interface {
	// Timezone returns the time zone of the named location.
	Timezone(ctx context.Context, location string) (*time.Location, error)

	// SunTimes returns sunrise and sunset instants for the named location
	// on the given date.
	SunTimes(ctx context.Context, location string, date Date) (sunrise, sunset time.Time, err error)
}

// ResolveTime turns a time spec into a concrete instant on the given date in
// the location's zone.
//
// Clock, midnight and noon specs are fixed wall-clock offsets. Sunrise and
// sunset are computed for the exact target date because they shift daily.
func ResolveTime(ctx context.Context, geo GeoProvider, location string, spec plan.TimeSpec, date Date, zone *time.Location) (time.Time, error) {
	switch spec.Kind {
	case plan.TimeClock, plan.TimeMidnight, plan.TimeNoon:
		return date.In(zone, spec.Hour, spec.Minute), nil
	case plan.TimeSunrise, plan.TimeSunset:
		sunriseAt, sunsetAt, err := geo.SunTimes(ctx, location, date)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: sun times for %q on %s: %w", ErrResolution, location, date, err)
		}
		if spec.Kind == plan.TimeSunrise {
			return sunriseAt.In(zone), nil
		}
		return sunsetAt.In(zone), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown time kind %d", ErrResolution, spec.Kind)
	}
}
