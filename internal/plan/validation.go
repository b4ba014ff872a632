package plan

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/mod/semver"
)

// Validation constants.
const (
	maxNameLength = 50
	namePattern   = `^[a-z0-9-]+$`

	// Supported schema version window. Documents above the maximum were
	// written for a newer compiler and are rejected rather than partially
	// interpreted.
	minSchemaVersion = "v1.0.0"
	maxSchemaVersion = "v1.1.0"
)

var nameRegex = regexp.MustCompile(namePattern)

// ValidateName checks a plan or group name: lowercase alphanumerics and
// hyphens, 1-50 characters.
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidName, maxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidName, name, namePattern)
	}
	return nil
}

// validateVersion checks the schema version against the supported window.
func validateVersion(version string) error {
	v := "v" + version
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return fmt.Errorf("%w: %q is not a semantic version", ErrInvalidVersion, version)
	}
	if semver.Compare(v, minSchemaVersion) < 0 || semver.Compare(v, maxSchemaVersion) > 0 {
		return fmt.Errorf("%w: %q is outside supported window %s-%s",
			ErrInvalidVersion, version, minSchemaVersion[1:], maxSchemaVersion[1:])
	}
	return nil
}

// validateZone checks that a refresh zone names a known IANA time zone.
func validateZone(zone string) error {
	if _, err := time.LoadLocation(zone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}
	return nil
}

// compile validates a raw schema and produces the compiled groups.
//
// Validation failures are reported as the first error found, wrapped so that
// errors.Is(err, ErrInvalidPlan) holds for every failure.
func compile(schema *Schema) ([]CompiledGroup, error) {
	groups, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return groups, nil
}

func compileSchema(schema *Schema) ([]CompiledGroup, error) {
	if err := validateVersion(schema.Version); err != nil {
		return nil, err
	}

	p := &schema.Plan
	if err := ValidateName(p.Name); err != nil {
		return nil, fmt.Errorf("plan name: %w", err)
	}
	if p.Location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidPlan)
	}
	if _, _, err := ParseClock(p.RefreshTime); err != nil {
		return nil, fmt.Errorf("refresh_time: %w", err)
	}
	if p.RefreshZone == "" {
		p.RefreshZone = "UTC"
	}
	if err := validateZone(p.RefreshZone); err != nil {
		return nil, fmt.Errorf("refresh_zone: %w", err)
	}

	seen := make(map[string]struct{}, len(p.Groups))
	compiled := make([]CompiledGroup, 0, len(p.Groups))
	for _, group := range p.Groups {
		if err := ValidateName(group.Name); err != nil {
			return nil, fmt.Errorf("group name: %w", err)
		}
		if _, dup := seen[group.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidName, group.Name)
		}
		seen[group.Name] = struct{}{}

		cg, err := compileGroup(group)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", group.Name, err)
		}
		compiled = append(compiled, cg)
	}
	return compiled, nil
}

func compileGroup(group DeviceGroup) (CompiledGroup, error) {
	if len(group.Devices) == 0 {
		return CompiledGroup{}, fmt.Errorf("%w: no devices", ErrInvalidPlan)
	}

	devices := make([]Device, len(group.Devices))
	for i, device := range group.Devices {
		if device.Room == "" || device.Device == "" {
			return CompiledGroup{}, fmt.Errorf("%w: device %d needs room and device", ErrInvalidPlan, i)
		}
		devices[i] = Device{
			Room:      device.Room,
			Device:    device.Device,
			Component: device.ComponentOrDefault(),
		}
	}

	triggers := make([]CompiledTrigger, len(group.Triggers))
	for i, trigger := range group.Triggers {
		ct, err := compileTrigger(i, trigger)
		if err != nil {
			return CompiledGroup{}, fmt.Errorf("trigger %d: %w", i, err)
		}
		triggers[i] = ct
	}

	return CompiledGroup{Name: group.Name, Devices: devices, Triggers: triggers}, nil
}

func compileTrigger(index int, trigger Trigger) (CompiledTrigger, error) {
	days, err := ExpandDays(trigger.Days)
	if err != nil {
		return CompiledTrigger{}, err
	}
	on, err := ParseTimeSpec(trigger.OnTime)
	if err != nil {
		return CompiledTrigger{}, fmt.Errorf("on_time: %w", err)
	}
	off, err := ParseTimeSpec(trigger.OffTime)
	if err != nil {
		return CompiledTrigger{}, fmt.Errorf("off_time: %w", err)
	}
	variation, err := ParseVariation(trigger.Variation)
	if err != nil {
		return CompiledTrigger{}, err
	}
	return CompiledTrigger{
		Index:     index,
		Days:      days,
		On:        on,
		Off:       off,
		Variation: variation,
	}, nil
}
