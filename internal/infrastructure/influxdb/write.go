package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordPowerSample records an entity's power draw as seen on the state
// feed. Non-blocking; batched and sent asynchronously.
func (c *Client) RecordPowerSample(entityID string, watts float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"entity_power",
		map[string]string{
			"entity_id": entityID,
		},
		map[string]interface{}{
			"watts": watts,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordCommandLatency records the round-trip time of a remote command
// issued by the mutation engine, tagged with its outcome.
func (c *Client) RecordCommandLatency(entityID string, elapsed time.Duration, ok bool) {
	if !c.IsConnected() {
		return
	}

	outcome := "error"
	if ok {
		outcome = "ok"
	}

	point := write.NewPoint(
		"command_latency",
		map[string]string{
			"entity_id": entityID,
			"outcome":   outcome,
		},
		map[string]interface{}{
			"millis": float64(elapsed.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
