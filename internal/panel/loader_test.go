package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

func TestDeviceEntity(t *testing.T) {
	power := 60.0
	value := 80.0
	d := api.Device{
		ID:         "dev-1",
		Name:       "Ceiling Light",
		Type:       "light",
		Status:     "online",
		Active:     true,
		Value:      &value,
		Room:       "Kitchen",
		Icon:       "lightbulb",
		Power:      &power,
		LastUpdate: "2026-08-30T18:00:00Z",
	}

	e := deviceEntity(d)

	if e.Kind != registry.KindDevice {
		t.Errorf("kind = %q", e.Kind)
	}
	if e.Status != registry.StatusOnline || !e.Active || e.Room != "Kitchen" {
		t.Errorf("entity = %+v", e)
	}
	if e.PowerWatts != 60 {
		t.Errorf("power = %g", e.PowerWatts)
	}
	if e.Value == nil || *e.Value != 80 {
		t.Errorf("value = %v", e.Value)
	}
	if e.Range == nil || !e.Range.Contains(100) || e.Range.Contains(101) {
		t.Errorf("range = %+v, want 0..100", e.Range)
	}
	want := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	if e.LastUpdate == nil || !e.LastUpdate.Equal(want) {
		t.Errorf("lastUpdate = %v", e.LastUpdate)
	}
}

func TestDeviceEntity_NoValueNoRange(t *testing.T) {
	e := deviceEntity(api.Device{ID: "dev-2", Status: "offline"})
	if e.Value != nil || e.Range != nil {
		t.Error("a device without a value has no range either")
	}
	if e.LastUpdate != nil {
		t.Error("no lastUpdate without a timestamp")
	}
}

func TestCameraEntity(t *testing.T) {
	c := api.Camera{
		ID:        "cam-1",
		Name:      "Front Door",
		Location:  "Porch",
		Status:    "online",
		Recording: true,
		StreamURL: "rtsp://cam-1/stream",
	}

	e := cameraEntity(c)

	if e.Kind != registry.KindCamera {
		t.Errorf("kind = %q", e.Kind)
	}
	if !e.Active {
		t.Error("recording should map onto active")
	}
	if e.Room != "Porch" {
		t.Errorf("room = %q, want location", e.Room)
	}
	if e.StreamURL != "rtsp://cam-1/stream" {
		t.Errorf("streamUrl = %q", e.StreamURL)
	}
}

func TestEntityLoader_MergesDevicesAndCameras(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/devices", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": []api.Device{
			{ID: "dev-1", Name: "Lamp", Status: "online"},
		}})
	})
	r.Get("/cameras", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"cameras": []api.Camera{
			{ID: "cam-1", Name: "Front Door", Status: "online"},
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	loader := EntityLoader{Client: api.NewClient(srv.URL, time.Second)}
	entities, err := loader.LoadEntities(context.Background())
	if err != nil {
		t.Fatalf("LoadEntities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(entities))
	}
	if entities[0].Kind != registry.KindDevice || entities[1].Kind != registry.KindCamera {
		t.Errorf("entities = %+v", entities)
	}
}

func TestEntityLoader_EitherListFailingFailsTheLoad(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/devices", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"devices": []api.Device{{ID: "dev-1"}}})
	})
	r.Get("/cameras", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	loader := EntityLoader{Client: api.NewClient(srv.URL, time.Second)}
	if _, err := loader.LoadEntities(context.Background()); err == nil {
		t.Error("a failing camera list must fail the whole load")
	}
}
