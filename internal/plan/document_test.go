package plan

import (
	"errors"
	"strings"
	"testing"
)

// validDocument is a complete plan used as the baseline for load tests.
const validDocument = `
version: 1.0.0
plan:
  name: my-house
  location: Home
  refresh_time: "00:30"
  refresh_zone: America/Chicago
  groups:
    - name: first-floor-lights
      devices:
        - room: Living Room
          device: Sofa Lamp
        - room: Dining Room
          device: Corner Outlet
          component: outlet1
      triggers:
        - days: [weekdays]
          on_time: "19:30"
          off_time: "22:45"
          variation: "+/- 15 minutes"
        - days: [weekend]
          on_time: sunset
          off_time: midnight
          variation: none
`

func TestLoadValidDocument(t *testing.T) {
	doc, err := Load([]byte(validDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Name() != "my-house" {
		t.Errorf("Name() = %q, want %q", doc.Name(), "my-house")
	}
	if doc.Location() != "Home" {
		t.Errorf("Location() = %q, want %q", doc.Location(), "Home")
	}
	if doc.RefreshZone() != "America/Chicago" {
		t.Errorf("RefreshZone() = %q, want %q", doc.RefreshZone(), "America/Chicago")
	}
	hour, minute := doc.RefreshTime()
	if hour != 0 || minute != 30 {
		t.Errorf("RefreshTime() = %02d:%02d, want 00:30", hour, minute)
	}

	groups := doc.Groups()
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	group := groups[0]
	if group.Name != "first-floor-lights" {
		t.Errorf("group name = %q", group.Name)
	}
	if len(group.Devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(group.Devices))
	}
	if group.Devices[0].Component != DefaultComponent {
		t.Errorf("component should default to %q, got %q", DefaultComponent, group.Devices[0].Component)
	}
	if group.Devices[1].Component != "outlet1" {
		t.Errorf("explicit component lost, got %q", group.Devices[1].Component)
	}
	if len(group.Triggers) != 2 {
		t.Fatalf("got %d triggers, want 2", len(group.Triggers))
	}
	if group.Triggers[1].On.Kind != TimeSunset {
		t.Errorf("second trigger on kind = %v, want sunset", group.Triggers[1].On.Kind)
	}
}

func TestLoadInvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name:    "version below window",
			mutate:  func(s string) string { return strings.Replace(s, "version: 1.0.0", "version: 0.9.0", 1) },
			wantErr: ErrInvalidVersion,
		},
		{
			name:    "version above window",
			mutate:  func(s string) string { return strings.Replace(s, "version: 1.0.0", "version: 1.2.0", 1) },
			wantErr: ErrInvalidVersion,
		},
		{
			name:    "version not semantic",
			mutate:  func(s string) string { return strings.Replace(s, "version: 1.0.0", "version: latest", 1) },
			wantErr: ErrInvalidVersion,
		},
		{
			name:    "uppercase plan name",
			mutate:  func(s string) string { return strings.Replace(s, "name: my-house", "name: My-House", 1) },
			wantErr: ErrInvalidName,
		},
		{
			name:    "plan name with spaces",
			mutate:  func(s string) string { return strings.Replace(s, "name: my-house", "name: my house", 1) },
			wantErr: ErrInvalidName,
		},
		{
			name:    "missing location",
			mutate:  func(s string) string { return strings.Replace(s, "location: Home", "location: \"\"", 1) },
			wantErr: ErrInvalidPlan,
		},
		{
			name:    "bad refresh time",
			mutate:  func(s string) string { return strings.Replace(s, `refresh_time: "00:30"`, `refresh_time: "0030"`, 1) },
			wantErr: ErrInvalidTime,
		},
		{
			name:    "bad refresh zone",
			mutate:  func(s string) string { return strings.Replace(s, "America/Chicago", "Mars/Olympus", 1) },
			wantErr: ErrInvalidZone,
		},
		{
			name:    "bad day token",
			mutate:  func(s string) string { return strings.Replace(s, "[weekend]", "[someday]", 1) },
			wantErr: ErrInvalidDay,
		},
		{
			name:    "bad variation",
			mutate:  func(s string) string { return strings.Replace(s, `"+/- 15 minutes"`, `"roughly 15 minutes"`, 1) },
			wantErr: ErrInvalidVariation,
		},
		{
			name:    "unknown field rejected",
			mutate:  func(s string) string { return strings.Replace(s, "location: Home", "location: Home\n  colour: blue", 1) },
			wantErr: ErrInvalidPlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.mutate(validDocument)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			// Every validation failure is also an ErrInvalidPlan.
			if !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("error should wrap ErrInvalidPlan: %v", err)
			}
		})
	}
}

func TestLoadDuplicateGroupName(t *testing.T) {
	duplicated := strings.Replace(validDocument, "groups:", `groups:
    - name: first-floor-lights
      devices:
        - room: Hall
          device: Lamp
      triggers: []`, 1)

	_, err := Load([]byte(duplicated))
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for duplicate group, got %v", err)
	}
}

func TestLoadDefaultsRefreshZone(t *testing.T) {
	noZone := strings.Replace(validDocument, "  refresh_zone: America/Chicago\n", "", 1)
	doc, err := Load([]byte(noZone))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.RefreshZone() != "UTC" {
		t.Errorf("RefreshZone() = %q, want UTC", doc.RefreshZone())
	}
}

func TestLoadGroupWithoutDevices(t *testing.T) {
	const doc = `
version: 1.0.0
plan:
  name: my-house
  location: Home
  refresh_time: "00:30"
  groups:
    - name: empty-group
      devices: []
      triggers: []
`
	_, err := Load([]byte(doc))
	if !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Load([]byte(validDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	reloaded, err := Load(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Name() != doc.Name() {
		t.Errorf("name changed across round trip: %q != %q", reloaded.Name(), doc.Name())
	}
	if len(reloaded.Groups()) != len(doc.Groups()) {
		t.Errorf("group count changed across round trip")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "my-house"},
		{name: "digits", input: "plan2"},
		{name: "single char", input: "a"},
		{name: "max length", input: strings.Repeat("a", 50)},
		{name: "too long", input: strings.Repeat("a", 51), wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase", input: "MyHouse", wantErr: true},
		{name: "underscore", input: "my_house", wantErr: true},
		{name: "space", input: "my house", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
