package smartthings

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// Session is a per-pass view of one location in the remote account.
//
// Plans are written in terms of human-readable names, but the API works in
// ids and rarely offers lookup by name. A session front-loads the id
// resolution: one call each for locations, rooms and devices builds the
// name/id mappings every later operation needs. Sessions are cheap to build
// and are not refreshed; the refresh runner opens a fresh one per pass so a
// renamed room or device is picked up on the next pass.
type Session struct {
	client *Client
	token  string

	// location is the human-readable location name from the plan.
	location   string
	locationID string

	// timezone and coordinates come from the location detail record.
	timezone  *time.Location
	latitude  float64
	longitude float64

	roomByID   map[string]string // roomId -> room name
	roomByName map[string]string // room name -> roomId

	deviceByID   map[string]plan.Device // deviceId -> room/device names
	deviceByName map[string]string      // "room/device" -> deviceId
}

// Wire types for the lookup endpoints.

type locationItem struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
}

type locationList struct {
	Items []locationItem `json:"items"`
}

type locationDetail struct {
	LocationID string  `json:"locationId"`
	Name       string  `json:"name"`
	TimeZoneID string  `json:"timeZoneId"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type roomItem struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type roomList struct {
	Items []roomItem `json:"items"`
}

type deviceItem struct {
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	RoomID   string `json:"roomId"`
}

type deviceList struct {
	Items []deviceItem `json:"items"`
}

// Session opens a session for the named location using the given PAT token.
//
// It resolves the location id, loads the location's time zone and
// coordinates, and builds the room and device name mappings.
func (c *Client) Session(ctx context.Context, token, location string) (*Session, error) {
	s := &Session{
		client:   c,
		token:    token,
		location: location,
	}
	if err := s.deriveLocation(ctx); err != nil {
		return nil, err
	}
	if err := s.deriveRooms(ctx); err != nil {
		return nil, err
	}
	if err := s.deriveDevices(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// deriveLocation resolves the location name to an id and loads its detail
// record for the time zone and coordinates.
func (s *Session) deriveLocation(ctx context.Context) error {
	var list locationList
	query := url.Values{"limit": {locationLimit}}
	if err := s.client.do(ctx, s.token, "GET", "/locations", query, nil, &list); err != nil {
		return fmt.Errorf("listing locations: %w", err)
	}

	for _, item := range list.Items {
		if item.Name == s.location {
			s.locationID = item.LocationID
			break
		}
	}
	if s.locationID == "" {
		return fmt.Errorf("%w: %q", ErrLocationNotFound, s.location)
	}

	var detail locationDetail
	if err := s.client.do(ctx, s.token, "GET", "/locations/"+s.locationID, nil, nil, &detail); err != nil {
		return fmt.Errorf("loading location %q: %w", s.location, err)
	}

	tz, err := time.LoadLocation(detail.TimeZoneID)
	if err != nil {
		return fmt.Errorf("%w: location %q has zone %q: %w", ErrBadLocation, s.location, detail.TimeZoneID, err)
	}
	s.timezone = tz
	s.latitude = detail.Latitude
	s.longitude = detail.Longitude

	s.client.logger.Debug("resolved location",
		"location", s.location,
		"location_id", s.locationID,
		"timezone", detail.TimeZoneID,
	)
	return nil
}

// deriveRooms builds the room id/name mappings for the location.
func (s *Session) deriveRooms(ctx context.Context) error {
	var list roomList
	query := url.Values{"limit": {roomLimit}}
	path := "/locations/" + s.locationID + "/rooms"
	if err := s.client.do(ctx, s.token, "GET", path, query, nil, &list); err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}

	s.roomByID = make(map[string]string, len(list.Items))
	s.roomByName = make(map[string]string, len(list.Items))
	for _, item := range list.Items {
		s.roomByID[item.RoomID] = item.Name
		s.roomByName[item.Name] = item.RoomID
	}

	s.client.logger.Debug("resolved rooms", "location", s.location, "rooms", len(s.roomByID))
	return nil
}

// deriveDevices builds the device mappings for switch-capable devices in the
// location. Users see the label when one is set, so the label wins over the
// internal name.
func (s *Session) deriveDevices(ctx context.Context) error {
	var list deviceList
	query := url.Values{
		"locationId": {s.locationID},
		"capability": {"switch"},
		"limit":      {deviceLimit},
	}
	if err := s.client.do(ctx, s.token, "GET", "/devices", query, nil, &list); err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	s.deviceByID = make(map[string]plan.Device, len(list.Items))
	s.deviceByName = make(map[string]string, len(list.Items))
	for _, item := range list.Items {
		name := item.Label
		if name == "" {
			name = item.Name
		}
		room := s.roomByID[item.RoomID]
		device := plan.Device{Room: room, Device: name}
		s.deviceByID[item.DeviceID] = device
		s.deviceByName[room+"/"+name] = item.DeviceID
	}

	s.client.logger.Debug("resolved devices", "location", s.location, "devices", len(s.deviceByID))
	return nil
}

// deviceID resolves a plan device to its remote id.
func (s *Session) deviceID(device plan.Device) (string, error) {
	id, ok := s.deviceByName[device.Room+"/"+device.Device]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, device.Room, device.Device)
	}
	return id, nil
}

// Location returns the session's location name.
func (s *Session) Location() string {
	return s.location
}
