// Package influxdb records reconciliation telemetry in InfluxDB v2.
//
// Each refresh pass writes one reconcile_pass point (operation counts and
// duration, tagged by plan) so operators can chart drift and failure rates
// over a season of vacations. Writes are batched and non-blocking; a failed
// telemetry write never affects the pass itself.
//
// InfluxDB is optional. When disabled in config.yaml, Connect returns
// ErrDisabled and the refresh runner simply skips telemetry.
package influxdb
