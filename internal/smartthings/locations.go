package smartthings

import (
	"context"
	"fmt"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"

	"github.com/vplan-io/vplan-core/internal/schedule"
)

// Timezone returns the time zone of the named location.
//
// A session is bound to a single location at construction, so the name must
// match; the zone itself was already resolved from the location detail.
func (s *Session) Timezone(_ context.Context, location string) (*time.Location, error) {
	if location != s.location {
		return nil, fmt.Errorf("%w: session is for %q, not %q", ErrLocationNotFound, s.location, location)
	}
	return s.timezone, nil
}

// SunTimes returns sunrise and sunset instants for the named location on the
// given date, computed from the location's coordinates.
func (s *Session) SunTimes(_ context.Context, location string, date schedule.Date) (time.Time, time.Time, error) {
	if location != s.location {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: session is for %q, not %q", ErrLocationNotFound, s.location, location)
	}
	if s.latitude == 0 && s.longitude == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: location %q has no coordinates", ErrBadLocation, s.location)
	}

	rise, set := sunrise.SunriseSunset(s.latitude, s.longitude, date.Year, date.Month, date.Day)
	if rise.IsZero() || set.IsZero() {
		// Polar day or night. The plan asked for a sun time that does not
		// exist on this date at this latitude.
		return time.Time{}, time.Time{}, fmt.Errorf("%w: no sunrise or sunset at %q on %s", ErrBadLocation, s.location, date)
	}
	return rise, set, nil
}
