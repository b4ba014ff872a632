// Package mqtt publishes vplan events to an MQTT broker.
//
// The engine is a publisher only: each reconciliation pass emits its outcome
// report to vplan/pass/{plan}, and the retained vplan/system/status topic
// (with a Last Will) lets subscribers track engine liveness. The broker is
// optional; when disabled in config.yaml no client is constructed and the
// refresh runner skips event publication.
//
// Thread Safety: all methods are safe for concurrent use.
package mqtt
