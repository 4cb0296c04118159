package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Loader produces the full entity set from the backend.
type Loader interface {
	LoadEntities(ctx context.Context) ([]Entity, error)
}

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the in-memory collection of controllable entities with
// their last-known state.
//
// LoadAll replaces the contents wholesale on success; on failure the
// previous contents are left untouched. Aggregate queries are computed
// on demand from current entity state, never cached.
//
// All public methods are thread-safe.
type Registry struct {
	loader Loader

	mu       sync.RWMutex
	entities map[string]*Entity

	logger Logger
}

// NewRegistry creates an empty registry backed by the given loader.
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		loader:   loader,
		entities: make(map[string]*Entity),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// LoadAll fetches the full entity set and replaces the registry contents.
// A load failure leaves the previous contents untouched (no partial
// clobber) and returns the error.
func (r *Registry) LoadAll(ctx context.Context) error {
	entities, err := r.loader.LoadEntities(ctx)
	if err != nil {
		r.logger.Warn("registry reload failed, keeping previous contents", "error", err)
		return fmt.Errorf("loading entities: %w", err)
	}

	fresh := make(map[string]*Entity, len(entities))
	for i := range entities {
		e := entities[i]
		fresh[e.ID] = e.DeepCopy()
	}

	r.mu.Lock()
	r.entities = fresh
	r.mu.Unlock()

	r.logger.Info("registry reloaded", "count", len(entities))
	return nil
}

// Get retrieves an entity by ID. Returns ErrEntityNotFound if absent.
// The returned entity is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	return e.DeepCopy(), nil
}

// All returns every entity, sorted by ID for deterministic iteration.
// The returned entities are deep copies.
func (r *Registry) All() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, *e.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByKind returns every entity of one kind, sorted by ID.
func (r *Registry) ByKind(kind Kind) []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entity
	for _, e := range r.entities {
		if e.Kind == kind {
			out = append(out, *e.DeepCopy())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Put inserts or replaces a single entity. Used by the mutation engine
// for optimistic applies and rollbacks, and by the state feed.
func (r *Registry) Put(e Entity) {
	r.mu.Lock()
	r.entities[e.ID] = e.DeepCopy()
	r.mu.Unlock()
}

// Remove deletes an entity. Called once the backend has acknowledged a
// delete.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entities, id)
	r.mu.Unlock()
}

// Count returns the number of entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// CountActive returns the number of active entities, computed on demand.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.entities {
		if e.Active {
			n++
		}
	}
	return n
}

// TotalPower returns the summed power draw in watts, computed on demand.
func (r *Registry) TotalPower() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, e := range r.entities {
		total += e.PowerWatts
	}
	return total
}
