package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthlabs/hearth-panel/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect = %v, want ErrDisabled", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck = %v, want ErrNotConnected", err)
	}
}

func TestRecord_NoopWhenDisconnected(t *testing.T) {
	// A closed or never-connected sink silently drops samples rather than
	// panicking or blocking the caller.
	c := &Client{}
	c.RecordPowerSample("dev-1", 42)
	c.RecordCommandLatency("dev-1", 10*time.Millisecond, true)
}

func TestClose_Idle(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on idle client: %v", err)
	}
}
