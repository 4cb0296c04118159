package registry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeLoader returns a fixed entity set, or an error when failing is set.
type fakeLoader struct {
	entities []Entity
	failing  bool
	calls    int
}

func (f *fakeLoader) LoadEntities(context.Context) ([]Entity, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("backend unreachable")
	}
	out := make([]Entity, len(f.entities))
	copy(out, f.entities)
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func sixEntities() []Entity {
	entities := make([]Entity, 0, 6)
	for i := 1; i <= 5; i++ {
		entities = append(entities, Entity{
			ID:         fmt.Sprintf("dev-%d", i),
			Name:       fmt.Sprintf("Device %d", i),
			Kind:       KindDevice,
			Status:     StatusOnline,
			Active:     i%2 == 1,
			PowerWatts: float64(i * 10),
		})
	}
	entities = append(entities, Entity{
		ID:     "cam-1",
		Name:   "Front Door",
		Kind:   KindCamera,
		Status: StatusOnline,
		Active: true,
	})
	return entities
}

func TestLoadAll_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{entities: sixEntities()}
	reg := NewRegistry(loader)

	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if reg.Count() != 6 {
		t.Fatalf("count = %d, want 6", reg.Count())
	}

	// Shrink the remote dataset; the registry must follow wholesale.
	loader.entities = loader.entities[:2]
	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("second LoadAll: %v", err)
	}
	if reg.Count() != 2 {
		t.Errorf("count after shrink = %d, want 2", reg.Count())
	}
}

func TestLoadAll_Idempotent(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{entities: sixEntities()}
	reg := NewRegistry(loader)

	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	after1 := reg.All()

	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("second LoadAll: %v", err)
	}
	after2 := reg.All()

	if !reflect.DeepEqual(after1, after2) {
		t.Error("two LoadAll calls with an unchanged dataset should yield equal registries")
	}
}

func TestLoadAll_FailureLeavesContentsUntouched(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{entities: sixEntities()}
	reg := NewRegistry(loader)

	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	before := reg.All()

	loader.failing = true
	if err := reg.LoadAll(ctx); err == nil {
		t.Fatal("failing LoadAll should return an error")
	}

	if reg.Count() != 6 {
		t.Errorf("count after failed reload = %d, want 6", reg.Count())
	}
	if !reflect.DeepEqual(before, reg.All()) {
		t.Error("failed reload must leave previous contents untouched")
	}
}

func TestGet_NotFound(t *testing.T) {
	reg := NewRegistry(&fakeLoader{})
	if _, err := reg.Get("missing"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Get(missing) = %v, want ErrEntityNotFound", err)
	}
}

func TestGet_ReturnsDeepCopy(t *testing.T) {
	reg := NewRegistry(&fakeLoader{})
	reg.Put(Entity{ID: "dev-1", Name: "Lamp", Kind: KindDevice, Value: ptr(40)})

	got, err := reg.Get("dev-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Name = "Mutated"
	*got.Value = 99

	again, err := reg.Get("dev-1")
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if again.Name != "Lamp" || *again.Value != 40 {
		t.Error("modifying a returned entity must not affect the registry")
	}
}

func TestAggregates_ComputedOnDemand(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{entities: sixEntities()}
	reg := NewRegistry(loader)
	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	// dev-1, dev-3, dev-5 and cam-1 are active.
	if got := reg.CountActive(); got != 4 {
		t.Errorf("CountActive = %d, want 4", got)
	}
	// 10+20+30+40+50 watts across devices.
	if got := reg.TotalPower(); got != 150 {
		t.Errorf("TotalPower = %g, want 150", got)
	}

	// Mutate one entity; aggregates must reflect it immediately.
	e, _ := reg.Get("dev-2")
	e.Active = true
	e.PowerWatts = 100
	reg.Put(*e)

	if got := reg.CountActive(); got != 5 {
		t.Errorf("CountActive after Put = %d, want 5", got)
	}
	if got := reg.TotalPower(); got != 230 {
		t.Errorf("TotalPower after Put = %g, want 230", got)
	}
}

func TestByKind(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&fakeLoader{entities: sixEntities()})
	if err := reg.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if got := len(reg.ByKind(KindDevice)); got != 5 {
		t.Errorf("devices = %d, want 5", got)
	}
	if got := len(reg.ByKind(KindCamera)); got != 1 {
		t.Errorf("cameras = %d, want 1", got)
	}
}

func TestRemove(t *testing.T) {
	reg := NewRegistry(&fakeLoader{})
	reg.Put(Entity{ID: "dev-1", Kind: KindDevice})
	reg.Remove("dev-1")
	if _, err := reg.Get("dev-1"); !errors.Is(err, ErrEntityNotFound) {
		t.Error("removed entity should be gone")
	}
}
