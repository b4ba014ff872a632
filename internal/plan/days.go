package plan

import (
	"fmt"
	"strings"
	"time"
)

// Weekday sets for the symbolic day groups.
const (
	weekdaySet WeekdaySet = 1<<uint(time.Monday) | 1<<uint(time.Tuesday) |
		1<<uint(time.Wednesday) | 1<<uint(time.Thursday) | 1<<uint(time.Friday)
	weekendSet WeekdaySet = 1<<uint(time.Saturday) | 1<<uint(time.Sunday)
	allDaysSet WeekdaySet = weekdaySet | weekendSet
)

// dayTokens maps every accepted day token to its weekday set. Tokens are
// matched after lowercasing and trimming.
var dayTokens = map[string]WeekdaySet{
	"all":       allDaysSet,
	"every":     allDaysSet,
	"weekday":   weekdaySet,
	"weekdays":  weekdaySet,
	"weekend":   weekendSet,
	"weekends":  weekendSet,
	"sun":       0b1 << uint(time.Sunday),
	"sunday":    0b1 << uint(time.Sunday),
	"mon":       0b1 << uint(time.Monday),
	"monday":    0b1 << uint(time.Monday),
	"tue":       0b1 << uint(time.Tuesday),
	"tuesday":   0b1 << uint(time.Tuesday),
	"wed":       0b1 << uint(time.Wednesday),
	"wednesday": 0b1 << uint(time.Wednesday),
	"thu":       0b1 << uint(time.Thursday),
	"thursday":  0b1 << uint(time.Thursday),
	"fri":       0b1 << uint(time.Friday),
	"friday":    0b1 << uint(time.Friday),
	"sat":       0b1 << uint(time.Saturday),
	"saturday":  0b1 << uint(time.Saturday),
}

// ExpandDays expands a trigger day list into a weekday set.
//
// Accepted tokens: "all"/"every", "weekday(s)", "weekend(s)", and full or
// three-letter day names. Tokens are case-insensitive. The union of all
// tokens is returned; an empty result (empty list) or an unrecognised token
// is an error.
func ExpandDays(tokens []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, token := range tokens {
		normalised := strings.ToLower(strings.TrimSpace(token))
		days, ok := dayTokens[normalised]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDay, token)
		}
		set |= days
	}
	if set.Empty() {
		return 0, fmt.Errorf("%w: day list is empty", ErrInvalidDay)
	}
	return set, nil
}
