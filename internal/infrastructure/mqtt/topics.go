package mqtt

import "fmt"

// Topic prefixes for vplan events.
//
// The hierarchy is flat and subscriber-friendly:
//
//	vplan/system/status        engine online/offline (retained)
//	vplan/pass/{plan}          per-pass outcome reports
const (
	// TopicPrefix is the base for all vplan topics.
	TopicPrefix = "vplan"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "vplan/system"
)

// Topics provides builders for vplan MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// SystemStatus returns the engine status topic.
//
// Example: vplan/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// PassReport returns the topic for a plan's reconciliation pass reports.
//
// Example: vplan/pass/my-house
func (Topics) PassReport(planName string) string {
	return fmt.Sprintf("%s/pass/%s", TopicPrefix, planName)
}
