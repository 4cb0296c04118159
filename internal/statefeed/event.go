package statefeed

import (
	"time"

	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// Event is a live entity-state update from the backend. Nil fields carry
// no change; the event only overrides what it names.
type Event struct {
	EntityID string   `json:"entityId"`
	Status   *string  `json:"status,omitempty"`
	Active   *bool    `json:"active,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Power    *float64 `json:"power,omitempty"`
}

// Gate reports whether an entity has a mutation awaiting acknowledgment.
// Events for such entities are dropped: the pending optimistic value wins
// until the backend confirms or the engine rolls it back, and the next
// event or poll resynchronises.
type Gate interface {
	InFlight(entityID string) bool
}

// Recorder receives power telemetry from events. Optional.
type Recorder interface {
	RecordPowerSample(entityID string, watts float64)
}

// Logger defines the logging interface used by the feed sources.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// applyEvent folds an event into the registry, honouring the gate.
func applyEvent(reg *registry.Registry, gate Gate, rec Recorder, ev Event, log Logger) {
	if ev.EntityID == "" {
		return
	}

	if rec != nil && ev.Power != nil {
		rec.RecordPowerSample(ev.EntityID, *ev.Power)
	}

	if gate != nil && gate.InFlight(ev.EntityID) {
		log.Debug("dropping feed event for entity with mutation in flight",
			"entity", ev.EntityID)
		return
	}

	entity, err := reg.Get(ev.EntityID)
	if err != nil {
		// Unknown entity: the next full reload will pick it up.
		log.Debug("feed event for unknown entity", "entity", ev.EntityID)
		return
	}

	if ev.Status != nil {
		entity.Status = registry.Status(*ev.Status)
	}
	if ev.Active != nil {
		entity.Active = *ev.Active
	}
	if ev.Value != nil {
		v := *ev.Value
		entity.Value = &v
	}
	if ev.Power != nil {
		entity.PowerWatts = *ev.Power
	}
	now := time.Now().UTC()
	entity.LastUpdate = &now

	reg.Put(*entity)
}
