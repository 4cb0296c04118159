package panel

import (
	"context"
	"time"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// EntityLoader implements registry.Loader over the backend API, merging
// devices and cameras into the registry's unified entity shape.
type EntityLoader struct {
	Client *api.Client
}

// LoadEntities fetches devices and cameras and converts them. Either list
// failing fails the whole load, so the registry never half-replaces.
func (l EntityLoader) LoadEntities(ctx context.Context) ([]registry.Entity, error) {
	devices, err := l.Client.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	cameras, err := l.Client.ListCameras(ctx)
	if err != nil {
		return nil, err
	}

	entities := make([]registry.Entity, 0, len(devices)+len(cameras))
	for _, d := range devices {
		entities = append(entities, deviceEntity(d))
	}
	for _, c := range cameras {
		entities = append(entities, cameraEntity(c))
	}
	return entities, nil
}

// percentRange is assumed for devices that report a numeric value; the
// backend does not publish per-device ranges.
var percentRange = registry.NumericRange{Min: 0, Max: 100, Step: 1}

// deviceEntity converts a wire device into a registry entity.
func deviceEntity(d api.Device) registry.Entity {
	e := registry.Entity{
		ID:     d.ID,
		Name:   d.Name,
		Kind:   registry.KindDevice,
		Type:   d.Type,
		Status: registry.Status(d.Status),
		Active: d.Active,
		Room:   d.Room,
		Icon:   d.Icon,
	}
	if d.Power != nil {
		e.PowerWatts = *d.Power
	}
	if d.Value != nil {
		v := *d.Value
		e.Value = &v
		r := percentRange
		e.Range = &r
	}
	if d.LastUpdate != "" {
		if t, err := time.Parse(time.RFC3339, d.LastUpdate); err == nil {
			e.LastUpdate = &t
		}
	}
	return e
}

// cameraEntity converts a wire camera into a registry entity. Recording
// maps onto Active.
func cameraEntity(c api.Camera) registry.Entity {
	return registry.Entity{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         registry.KindCamera,
		Status:       registry.Status(c.Status),
		Active:       c.Recording,
		Room:         c.Location,
		StreamURL:    c.StreamURL,
		ThumbnailURL: c.ThumbnailURL,
	}
}
