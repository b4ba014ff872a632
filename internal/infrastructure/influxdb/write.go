package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// PassMetric captures the outcome of a single reconciliation pass.
type PassMetric struct {
	Plan     string
	Created  int
	Updated  int
	Deleted  int
	Failed   int
	Duration time.Duration
}

// WritePassMetric records the outcome of a reconciliation pass.
//
// This is the primary telemetry point: one measurement per pass per plan,
// tagged by plan name so dashboards can track drift and failure rates.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WritePassMetric(influxdb.PassMetric{
//	    Plan: "my-house", Created: 2, Deleted: 1, Duration: 800 * time.Millisecond,
//	})
func (c *Client) WritePassMetric(m PassMetric) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"reconcile_pass",
		map[string]string{
			"plan": m.Plan,
		},
		map[string]interface{}{
			"created":     m.Created,
			"updated":     m.Updated,
			"deleted":     m.Deleted,
			"failed":      m.Failed,
			"duration_ms": float64(m.Duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRuleCount records the number of remote rules owned by a plan after
// a pass. Useful for spotting runaway rule creation or external deletions.
func (c *Client) WriteRuleCount(planName string, count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"rule_count",
		map[string]string{
			"plan": planName,
		},
		map[string]interface{}{
			"count": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
