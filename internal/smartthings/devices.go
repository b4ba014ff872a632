package smartthings

import (
	"context"
	"fmt"
	"time"

	"github.com/vplan-io/vplan-core/internal/plan"
)

// commandBody is the wire format for device command requests.
type commandBody struct {
	Commands []ruleCommand `json:"commands"`
}

// switchStatus is the wire format for switch capability status.
type switchStatus struct {
	Switch struct {
		Value string `json:"value"`
	} `json:"switch"`
}

// SetSwitch switches a device on or off.
func (s *Session) SetSwitch(ctx context.Context, device plan.Device, state plan.SwitchState) error {
	id, err := s.deviceID(device)
	if err != nil {
		return err
	}

	command := "off"
	if state == plan.SwitchOn {
		command = "on"
	}

	body := commandBody{
		Commands: []ruleCommand{
			{Component: device.ComponentOrDefault(), Capability: "switch", Command: command},
		},
	}
	if err := s.client.do(ctx, s.token, "POST", "/devices/"+id+"/commands", nil, body, nil); err != nil {
		return fmt.Errorf("switching %s/%s %s: %w", device.Room, device.Device, command, err)
	}
	return nil
}

// CheckSwitch returns the current state of a device's switch.
func (s *Session) CheckSwitch(ctx context.Context, device plan.Device) (plan.SwitchState, error) {
	id, err := s.deviceID(device)
	if err != nil {
		return plan.SwitchOff, err
	}

	path := "/devices/" + id + "/components/" + device.ComponentOrDefault() + "/capabilities/switch/status"
	var status switchStatus
	if err := s.client.do(ctx, s.token, "GET", path, nil, nil, &status); err != nil {
		return plan.SwitchOff, fmt.Errorf("checking %s/%s: %w", device.Room, device.Device, err)
	}

	if status.Switch.Value == "on" {
		return plan.SwitchOn, nil
	}
	return plan.SwitchOff, nil
}

// ToggleGroup switches a device group on and off the given number of times,
// pausing between state changes. Devices drop commands that arrive too
// quickly, hence the delay. The group is left switched off.
func (s *Session) ToggleGroup(ctx context.Context, devices []plan.Device, toggles int, delay time.Duration) error {
	for i := 0; i < toggles; i++ {
		if err := s.setGroup(ctx, devices, plan.SwitchOn); err != nil {
			return err
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
		if err := s.setGroup(ctx, devices, plan.SwitchOff); err != nil {
			return err
		}
		if i < toggles-1 {
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// setGroup applies one state to every device in the group.
func (s *Session) setGroup(ctx context.Context, devices []plan.Device, state plan.SwitchState) error {
	for _, device := range devices {
		if err := s.SetSwitch(ctx, device, state); err != nil {
			return err
		}
	}
	return nil
}

// sleepCtx pauses for d, returning early if the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
