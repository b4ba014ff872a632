package plan

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is a validated, immutable plan document.
//
// It pairs the raw schema (kept verbatim for persistence and API responses)
// with the compiled groups used by schedule resolution. Construct one with
// Load or FromSchema; the zero value is not usable.
type Document struct {
	schema Schema
	groups []CompiledGroup
}

// Load parses and validates a YAML plan document.
//
// Unknown fields are rejected so that typos in documents surface as load
// errors instead of silently ignored configuration.
func Load(data []byte) (*Document, error) {
	var schema Schema
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&schema); err != nil {
		return nil, fmt.Errorf("%w: parsing document: %w", ErrInvalidPlan, err)
	}
	return FromSchema(schema)
}

// FromSchema validates an already-decoded schema and compiles it.
func FromSchema(schema Schema) (*Document, error) {
	groups, err := compile(&schema)
	if err != nil {
		return nil, err
	}
	return &Document{schema: schema, groups: groups}, nil
}

// Marshal renders the document back to YAML for persistence.
func (d *Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(&d.schema)
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return data, nil
}

// Schema returns a copy of the raw schema.
func (d *Document) Schema() Schema {
	return d.schema
}

// Version returns the document schema version.
func (d *Document) Version() string {
	return d.schema.Version
}

// Name returns the plan name.
func (d *Document) Name() string {
	return d.schema.Plan.Name
}

// Location returns the remote location name the plan executes at.
func (d *Document) Location() string {
	return d.schema.Plan.Location
}

// RefreshTime returns the daily refresh time as hour and minute.
func (d *Document) RefreshTime() (hour, minute int) {
	hour, minute, _ = ParseClock(d.schema.Plan.RefreshTime)
	return hour, minute
}

// RefreshZone returns the IANA zone name the daily refresh runs in.
func (d *Document) RefreshZone() string {
	return d.schema.Plan.RefreshZone
}

// RefreshLocation returns the loaded refresh zone.
func (d *Document) RefreshLocation() *time.Location {
	loc, err := time.LoadLocation(d.schema.Plan.RefreshZone)
	if err != nil {
		// Zone names are validated at load time.
		return time.UTC
	}
	return loc
}

// Groups returns the compiled device groups in declaration order.
// Callers must not mutate the returned slice.
func (d *Document) Groups() []CompiledGroup {
	return d.groups
}

// Group returns the compiled group with the given name.
func (d *Document) Group(name string) (CompiledGroup, bool) {
	for _, group := range d.groups {
		if group.Name == name {
			return group, true
		}
	}
	return CompiledGroup{}, false
}

// Devices returns all devices in the plan, in group declaration order.
func (d *Document) Devices() []Device {
	var devices []Device
	for _, group := range d.groups {
		devices = append(devices, group.Devices...)
	}
	return devices
}
