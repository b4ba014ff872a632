package smartthings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/reconcile"
	"github.com/vplan-io/vplan-core/internal/schedule"
)

// Wire types for the rules endpoint. A vplan rule is one "every" trigger
// (daily, at an offset from midnight local time) wrapping switch commands.
// Devices sharing a component are batched into a single command action.

type ruleCommand struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
}

type commandAction struct {
	Devices  []string      `json:"devices"`
	Commands []ruleCommand `json:"commands"`
}

type intervalValue struct {
	Integer int `json:"integer"`
}

type interval struct {
	Value intervalValue `json:"value"`
	Unit  string        `json:"unit"`
}

type specificTime struct {
	Reference string    `json:"reference"`
	Offset    *interval `json:"offset,omitempty"`
}

type everyAction struct {
	Specific specificTime `json:"specific"`
	Actions  []ruleAction `json:"actions"`
}

type ruleAction struct {
	Every   *everyAction   `json:"every,omitempty"`
	Command *commandAction `json:"command,omitempty"`
}

type ruleBody struct {
	ID      string       `json:"id,omitempty"`
	Name    string       `json:"name"`
	Actions []ruleAction `json:"actions"`
}

type ruleList struct {
	Items []ruleBody `json:"items"`
}

// ListRules returns the rules owned by the named plan at this location.
//
// Ownership is determined purely by rule name: anything that parses as a
// vplan rule name for this plan is included, anything else (including rules
// created by hand or by other tools) is invisible to reconciliation.
func (s *Session) ListRules(ctx context.Context, planName string) ([]reconcile.RemoteRule, error) {
	var list ruleList
	query := url.Values{"locationId": {s.locationID}}
	if err := s.client.do(ctx, s.token, "GET", "/rules", query, nil, &list); err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	var rules []reconcile.RemoteRule
	for _, item := range list.Items {
		key, ok := schedule.ParseRuleName(item.Name)
		if !ok || key.Plan != planName {
			continue
		}
		remote, err := s.decodeRule(item, key)
		if err != nil {
			// A malformed rule under our name still belongs to us. Surface
			// it with a zero offset so the diff replaces it.
			s.client.logger.Warn("malformed rule, scheduling replacement",
				"rule", item.Name, "rule_id", item.ID, "error", err)
			remote = reconcile.RemoteRule{ID: item.ID, Key: key, OffsetMinutes: -1}
		}
		rules = append(rules, remote)
	}
	return rules, nil
}

// CreateRule creates a rule and returns its remote identifier.
func (s *Session) CreateRule(ctx context.Context, desired schedule.DesiredRule) (string, error) {
	body, err := s.encodeRule(desired)
	if err != nil {
		return "", err
	}

	var created ruleBody
	query := url.Values{"locationId": {s.locationID}}
	if err := s.client.do(ctx, s.token, "POST", "/rules", query, body, &created); err != nil {
		return "", fmt.Errorf("creating rule %s: %w", desired.Key, err)
	}
	return created.ID, nil
}

// UpdateRule replaces the rule with the given identifier.
func (s *Session) UpdateRule(ctx context.Context, id string, desired schedule.DesiredRule) error {
	body, err := s.encodeRule(desired)
	if err != nil {
		return err
	}

	query := url.Values{"locationId": {s.locationID}}
	if err := s.client.do(ctx, s.token, "PUT", "/rules/"+id, query, body, nil); err != nil {
		return fmt.Errorf("updating rule %s: %w", desired.Key, err)
	}
	return nil
}

// DeleteRule removes the rule with the given identifier.
func (s *Session) DeleteRule(ctx context.Context, id string) error {
	query := url.Values{"locationId": {s.locationID}}
	if err := s.client.do(ctx, s.token, "DELETE", "/rules/"+id, query, nil, nil); err != nil {
		return fmt.Errorf("deleting rule %s: %w", id, err)
	}
	return nil
}

// encodeRule renders a desired rule as the wire format.
func (s *Session) encodeRule(desired schedule.DesiredRule) (*ruleBody, error) {
	// Batch devices by component, preserving first-seen order.
	var components []string
	devicesByComponent := make(map[string][]string)
	for _, device := range desired.Devices {
		id, err := s.deviceID(device)
		if err != nil {
			return nil, fmt.Errorf("encoding rule %s: %w", desired.Key, err)
		}
		component := device.ComponentOrDefault()
		if _, seen := devicesByComponent[component]; !seen {
			components = append(components, component)
		}
		devicesByComponent[component] = append(devicesByComponent[component], id)
	}

	command := "off"
	if desired.State == plan.SwitchOn {
		command = "on"
	}

	var actions []ruleAction
	for _, component := range components {
		actions = append(actions, ruleAction{
			Command: &commandAction{
				Devices: devicesByComponent[component],
				Commands: []ruleCommand{
					{Component: component, Capability: "switch", Command: command},
				},
			},
		})
	}

	return &ruleBody{
		Name: desired.Key.RuleName(),
		Actions: []ruleAction{
			{
				Every: &everyAction{
					Specific: specificTime{
						Reference: "Midnight",
						Offset: &interval{
							Value: intervalValue{Integer: desired.OffsetMinutes()},
							Unit:  "Minute",
						},
					},
					Actions: actions,
				},
			},
		},
	}, nil
}

// decodeRule recovers the engine's view from a remote rule body.
func (s *Session) decodeRule(body ruleBody, key schedule.Key) (reconcile.RemoteRule, error) {
	if len(body.Actions) != 1 || body.Actions[0].Every == nil {
		return reconcile.RemoteRule{}, fmt.Errorf("rule %s: expected a single every action", body.Name)
	}
	every := body.Actions[0].Every

	offset := 0
	if every.Specific.Offset != nil {
		offset = every.Specific.Offset.Value.Integer
		if every.Specific.Unit() == "Hour" {
			offset *= 60
		}
	}

	var devices []plan.Device
	for _, action := range every.Actions {
		if action.Command == nil {
			continue
		}
		component := ""
		if len(action.Command.Commands) > 0 {
			component = action.Command.Commands[0].Component
		}
		for _, id := range action.Command.Devices {
			device, ok := s.deviceByID[id]
			if !ok {
				// Device removed from the account since the rule was
				// written. Keep a placeholder so the diff sees a change.
				device = plan.Device{Room: "unknown", Device: id}
			}
			device.Component = component
			devices = append(devices, device)
		}
	}

	return reconcile.RemoteRule{
		ID:            body.ID,
		Key:           key,
		OffsetMinutes: offset,
		Devices:       devices,
	}, nil
}

// Unit returns the offset unit, defaulting to Minute for older rules that
// omitted it.
func (t specificTime) Unit() string {
	if t.Offset == nil || t.Offset.Unit == "" {
		return "Minute"
	}
	return t.Offset.Unit
}
