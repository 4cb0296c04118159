package registry

import "time"

// Kind distinguishes the two entity families the panel controls.
type Kind string

const (
	KindDevice Kind = "device"
	KindCamera Kind = "camera"
)

// Status is the backend-reported reachability of an entity.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// NumericRange bounds an entity's numeric setpoint.
type NumericRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Contains reports whether v lies within the range.
func (r NumericRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Entity is a controllable entity: a device or a camera. Active means
// "on" for a device and "recording" for a camera. Value/Range are only
// set for devices with a numeric setpoint (dimmers, thermostats).
type Entity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Type   string `json:"type,omitempty"`
	Status Status `json:"status"`
	Active bool   `json:"active"`

	Value *float64      `json:"value,omitempty"`
	Range *NumericRange `json:"range,omitempty"`

	Room       string  `json:"room,omitempty"`
	Icon       string  `json:"icon,omitempty"`
	PowerWatts float64 `json:"power,omitempty"`

	// Camera-only fields.
	StreamURL    string `json:"streamUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// DeepCopy creates a complete independent copy of the Entity.
// Pointer fields are cloned so modifications to the copy do not affect
// the original. This is essential for cache isolation.
func (e *Entity) DeepCopy() *Entity {
	if e == nil {
		return nil
	}

	cpy := *e

	if e.Value != nil {
		v := *e.Value
		cpy.Value = &v
	}
	if e.Range != nil {
		r := *e.Range
		cpy.Range = &r
	}
	if e.LastUpdate != nil {
		t := *e.LastUpdate
		cpy.LastUpdate = &t
	}

	return &cpy
}
