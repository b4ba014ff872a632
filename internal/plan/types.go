package plan

import "time"

// SwitchState is the state a switch can be commanded into.
type SwitchState string

// Switch states.
const (
	SwitchOn  SwitchState = "on"
	SwitchOff SwitchState = "off"
)

// DefaultComponent is the component used when a device does not name one.
// Multi-component devices (e.g. dual outlets) override it per device.
const DefaultComponent = "main"

// Schema is the raw, versioned YAML form of a plan document.
type Schema struct {
	Version string `yaml:"version" json:"version"`
	Plan    Plan   `yaml:"plan" json:"plan"`
}

// Plan is the raw plan body as authored in YAML.
type Plan struct {
	Name        string        `yaml:"name" json:"name"`
	Location    string        `yaml:"location" json:"location"`
	RefreshTime string        `yaml:"refresh_time" json:"refresh_time"`
	RefreshZone string        `yaml:"refresh_zone,omitempty" json:"refresh_zone"`
	Groups      []DeviceGroup `yaml:"groups" json:"groups"`
}

// DeviceGroup is a set of devices that switch together under shared triggers.
type DeviceGroup struct {
	Name     string    `yaml:"name" json:"name"`
	Devices  []Device  `yaml:"devices" json:"devices"`
	Triggers []Trigger `yaml:"triggers" json:"triggers"`
}

// Device identifies a remote switch-capable device by its human-readable
// room and device names. The names are opaque to us; the remote client maps
// them to identifiers. Component defaults to "main" when absent.
type Device struct {
	Room      string `yaml:"room" json:"room"`
	Device    string `yaml:"device" json:"device"`
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
}

// ComponentOrDefault returns the device component, or DefaultComponent when
// the document omitted one.
func (d Device) ComponentOrDefault() string {
	if d.Component == "" {
		return DefaultComponent
	}
	return d.Component
}

// Trigger is the raw trigger form: a day list plus on/off times and a
// variation, all as document strings.
type Trigger struct {
	Days      []string `yaml:"days" json:"days"`
	OnTime    string   `yaml:"on_time" json:"on_time"`
	OffTime   string   `yaml:"off_time" json:"off_time"`
	Variation string   `yaml:"variation" json:"variation"`
}

// TimeKind distinguishes clock times from symbolic times.
type TimeKind int

// Time specifier kinds.
const (
	TimeClock TimeKind = iota
	TimeSunrise
	TimeSunset
	TimeMidnight
	TimeNoon
)

// TimeSpec is a parsed trigger time: either a wall-clock HH:MM or a symbolic
// time resolved per date (sunrise/sunset) or at a fixed offset
// (midnight/noon).
type TimeSpec struct {
	Kind   TimeKind
	Hour   int
	Minute int
}

// IsAstronomical reports whether resolving the time requires a location-aware
// sun time computation.
func (t TimeSpec) IsAstronomical() bool {
	return t.Kind == TimeSunrise || t.Kind == TimeSunset
}

// String renders the time spec back in document form.
func (t TimeSpec) String() string {
	switch t.Kind {
	case TimeSunrise:
		return "sunrise"
	case TimeSunset:
		return "sunset"
	case TimeMidnight:
		return "midnight"
	case TimeNoon:
		return "noon"
	default:
		return clockString(t.Hour, t.Minute)
	}
}

// VariationKind distinguishes the directions a variation can jitter in.
type VariationKind int

// Variation kinds.
const (
	VariationNone VariationKind = iota
	VariationEarlier
	VariationLater
	VariationSymmetric
)

// VariationSpec is a parsed trigger variation. Range is the maximum jitter
// magnitude; it is zero only for VariationNone.
type VariationSpec struct {
	Kind  VariationKind
	Range time.Duration
}

// WeekdaySet is a set of days of the week, stored as a bitmask indexed by
// time.Weekday (Sunday = bit 0).
type WeekdaySet uint8

// Contains reports whether the set includes the given weekday.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Empty reports whether the set contains no days.
func (s WeekdaySet) Empty() bool {
	return s == 0
}

// Weekdays returns the contained days in Sunday-first order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// CompiledTrigger is a trigger after validation: day tokens expanded into a
// weekday set, times and variation parsed into typed specs. Index is the
// trigger's declaration position within its group, which both drives
// last-declared-wins precedence and keys the variation seed.
type CompiledTrigger struct {
	Index     int
	Days      WeekdaySet
	On        TimeSpec
	Off       TimeSpec
	Variation VariationSpec
}

// CompiledGroup is a device group after validation, with every trigger
// compiled and every device component defaulted.
type CompiledGroup struct {
	Name     string
	Devices  []Device
	Triggers []CompiledTrigger
}
