package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// Purpose distinguishes the two rules synthesised per group.
type Purpose string

// Rule purposes.
const (
	PurposeOn  Purpose = "on"
	PurposeOff Purpose = "off"
)

// State returns the switch state a rule with this purpose commands.
func (p Purpose) State() plan.SwitchState {
	if p == PurposeOn {
		return plan.SwitchOn
	}
	return plan.SwitchOff
}

// RuleNamePrefix marks remote rules as owned by this system. Rules whose
// names do not start with the prefix are never touched by reconciliation.
const RuleNamePrefix = "vplan"

// Key identifies one desired rule: (plan, group, purpose). Keys are stable
// across reconciliation passes and recoverable from a remote rule's name,
// which is what makes desired/actual diffing possible.
type Key struct {
	Plan    string
	Group   string
	Purpose Purpose
}

// RuleName renders the key as the remote rule name, e.g.
// "vplan/my-house/first-floor-lights/on".
func (k Key) RuleName() string {
	return fmt.Sprintf("%s/%s/%s/%s", RuleNamePrefix, k.Plan, k.Group, k.Purpose)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.RuleName()
}

// ParseRuleName recovers a Key from a remote rule name. It reports false for
// names not owned by this system or not in the expected shape.
func ParseRuleName(name string) (Key, bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 4 || parts[0] != RuleNamePrefix {
		return Key{}, false
	}
	purpose := Purpose(parts[3])
	if purpose != PurposeOn && purpose != PurposeOff {
		return Key{}, false
	}
	if parts[1] == "" || parts[2] == "" {
		return Key{}, false
	}
	return Key{Plan: parts[1], Group: parts[2], Purpose: purpose}, true
}

// Date is a calendar date, independent of any time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of the given instant in its location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date: %w", err)
	}
	return DateOf(t), nil
}

// In returns the instant at the given wall-clock time on this date in loc.
func (d Date) In(loc *time.Location, hour, minute int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// Weekday returns the day of the week of this date.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DesiredRule describes one remote automation rule that should exist for a
// plan on a given date: the devices to switch, the state to set, and the
// resolved instant the rule fires at.
type DesiredRule struct {
	Key     Key
	Devices []plan.Device
	State   plan.SwitchState
	At      time.Time
}

// OffsetMinutes returns the rule's trigger time as whole minutes after
// midnight in its own location. Remote rules fire daily at a time of day, so
// this is the representation reconciliation compares.
func (r DesiredRule) OffsetMinutes() int {
	return r.At.Hour()*60 + r.At.Minute()
}
