package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRegex     = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	variationRegex = regexp.MustCompile(`^([+]/-|[+]|-) (\d+) (hour(?:s)?|minute(?:s)?)$`)
)

// ParseClock parses an HH:MM wall-clock time (24-hour).
func ParseClock(value string) (hour, minute int, err error) {
	match := clockRegex.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, value)
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q is out of range", ErrInvalidTime, value)
	}
	return hour, minute, nil
}

func clockString(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ParseTimeSpec parses a trigger time: either HH:MM or one of the symbolic
// times sunrise, sunset, midnight, noon.
func ParseTimeSpec(value string) (TimeSpec, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sunrise":
		return TimeSpec{Kind: TimeSunrise}, nil
	case "sunset":
		return TimeSpec{Kind: TimeSunset}, nil
	case "midnight":
		return TimeSpec{Kind: TimeMidnight}, nil
	case "noon":
		return TimeSpec{Kind: TimeNoon, Hour: 12}, nil
	}
	hour, minute, err := ParseClock(value)
	if err != nil {
		return TimeSpec{}, err
	}
	return TimeSpec{Kind: TimeClock, Hour: hour, Minute: minute}, nil
}

// ParseVariation parses a trigger variation.
//
// Accepted forms: "none" or "disabled" (no jitter), "- N minutes|hours"
// (up to N earlier), "+ N minutes|hours" (up to N later), and
// "+/- N minutes|hours" (symmetric). N must be a strictly positive whole
// number.
func ParseVariation(value string) (VariationSpec, error) {
	normalised := strings.ToLower(strings.TrimSpace(value))
	if normalised == "none" || normalised == "disabled" {
		return VariationSpec{Kind: VariationNone}, nil
	}

	match := variationRegex.FindStringSubmatch(normalised)
	if match == nil {
		return VariationSpec{}, fmt.Errorf("%w: %q", ErrInvalidVariation, value)
	}

	amount, err := strconv.Atoi(match[2])
	if err != nil || amount <= 0 {
		return VariationSpec{}, fmt.Errorf("%w: %q must use a positive amount", ErrInvalidVariation, value)
	}

	unit := time.Minute
	if strings.HasPrefix(match[3], "hour") {
		unit = time.Hour
	}

	spec := VariationSpec{Range: time.Duration(amount) * unit}
	switch match[1] {
	case "-":
		spec.Kind = VariationEarlier
	case "+":
		spec.Kind = VariationLater
	case "+/-":
		spec.Kind = VariationSymmetric
	}
	return spec, nil
}
