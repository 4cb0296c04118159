package mutation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hearthlabs/hearth-panel/internal/auth"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// Change is the intended state change for an entity. Nil fields are left
// untouched. Active means "on" for a device and "recording" for a camera.
type Change struct {
	Active *bool
	Value  *float64
}

// IsZero reports whether the change would alter nothing.
func (c Change) IsZero() bool {
	return c.Active == nil && c.Value == nil
}

// Commander issues the remote command corresponding to a change. target is
// the entity state after the optimistic apply, so implementations can map
// the change onto the right endpoint for its kind.
type Commander interface {
	Send(ctx context.Context, target registry.Entity, change Change) error
}

// RoleSource reports the acting user's role. False means no session.
type RoleSource interface {
	Role(ctx context.Context) (auth.Role, bool)
}

// Recorder receives command round-trip telemetry. Optional.
type Recorder interface {
	RecordCommandLatency(entityID string, elapsed time.Duration, ok bool)
}

// Result is the outcome of one remote command, delivered asynchronously.
type Result struct {
	EntityID   string
	Err        error
	RolledBack bool
}

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ErrNoChange is returned when a mutation specifies no change at all.
var ErrNoChange = errors.New("mutation specifies no change")

// pendingMutation tracks the single in-flight command for one entity.
//
// snapshot is the exact rollback target: the last state the server
// acknowledged (or the pre-change state for a first command). queued holds
// at most one coalesced follow-up target; a newer mutation replaces it.
type pendingMutation struct {
	snapshot registry.Entity
	queued   *Change
}

// Engine applies mutations optimistically and reconciles them with the
// backend.
//
// Contract per Mutate call:
//  1. The permission gate runs first; a denial costs zero network calls.
//  2. The change is applied to the registry immediately, with the
//     pre-change state snapshotted.
//  3. The remote command is issued asynchronously with a bounded wait.
//  4. Success clears the in-flight flag; the applied state is now the
//     acknowledged state.
//  5. Failure (including timeout) rolls the entity back to the exact
//     snapshot, not to whatever the registry holds at rollback time, and
//     surfaces the error through the result callback.
//
// At most one command per entity is ever in flight. A mutation arriving
// while one is pending is applied optimistically and its target coalesced:
// exactly one follow-up command carrying the latest target is sent once
// the current one resolves. Overlapping requests for one entity cannot
// happen.
//
// In-flight commands are bound to the engine's lifetime, not the caller's
// context: the view that issued a mutation may disappear without breaking
// reconciliation.
type Engine struct {
	registry  *registry.Registry
	commander Commander
	roles     RoleSource
	policy    auth.Policy

	timeout  time.Duration
	onResult func(Result)
	recorder Recorder
	logger   Logger

	mu      sync.Mutex
	pending map[string]*pendingMutation
	wg      sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the bounded wait for a remote acknowledgment.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithOnResult sets the callback receiving command outcomes. It is invoked
// from the engine's dispatch goroutines.
func WithOnResult(fn func(Result)) Option {
	return func(e *Engine) { e.onResult = fn }
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// defaultTimeout is the bounded wait when none is configured.
const defaultTimeout = 10 * time.Second

// NewEngine creates a mutation engine over the given registry.
func NewEngine(reg *registry.Registry, commander Commander, roles RoleSource, policy auth.Policy, opts ...Option) *Engine {
	e := &Engine{
		registry:  reg,
		commander: commander,
		roles:     roles,
		policy:    policy,
		timeout:   defaultTimeout,
		logger:    noopLogger{},
		pending:   make(map[string]*pendingMutation),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mutate applies a change to an entity optimistically and schedules the
// remote command.
//
// It returns synchronously: auth.ErrPermissionDenied if the gate denies,
// registry.ErrEntityNotFound if the entity is unknown, ErrNoChange for an
// empty change. nil means the change is applied locally and accepted for
// delivery; the remote outcome arrives through the result callback.
func (e *Engine) Mutate(ctx context.Context, entityID string, class auth.MutationClass, change Change) error {
	role, ok := e.roles.Role(ctx)
	if !ok || !e.policy.Allows(role, class) {
		e.logger.Debug("mutation denied", "entity", entityID, "class", class, "role", role)
		return auth.ErrPermissionDenied
	}

	if change.IsZero() {
		return ErrNoChange
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, inflight := e.pending[entityID]; inflight {
		// Coalesce: apply optimistically and replace any queued target.
		// The in-flight command keeps running; no second request yet.
		current, err := e.registry.Get(entityID)
		if err != nil {
			return err
		}
		applyChange(current, change)
		e.registry.Put(*current)

		ch := change
		p.queued = &ch
		e.logger.Debug("mutation coalesced", "entity", entityID)
		return nil
	}

	current, err := e.registry.Get(entityID)
	if err != nil {
		return err
	}

	snapshot := *current.DeepCopy()
	applyChange(current, change)
	e.registry.Put(*current)

	e.pending[entityID] = &pendingMutation{snapshot: snapshot}

	e.wg.Add(1)
	go e.dispatch(entityID, *current, change)

	return nil
}

// InFlight reports whether a command for the entity is awaiting a
// response. The state feed uses this to avoid clobbering optimistic state.
func (e *Engine) InFlight(entityID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[entityID]
	return ok
}

// Wait blocks until all in-flight commands have resolved. Used at
// shutdown so rollbacks are not lost.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// dispatch sends the command for one entity and reconciles the outcome,
// chaining into the coalesced follow-up if one was queued.
//
// The send deliberately runs under the engine's own context, not the
// caller's: navigating away from the view that issued a mutation must not
// cancel it. The bounded wait is the engine timeout; expiry counts as
// failure and triggers rollback.
func (e *Engine) dispatch(entityID string, target registry.Entity, change Change) {
	defer e.wg.Done()

	for {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		start := time.Now()
		err := e.commander.Send(ctx, target, change)
		cancel()

		if e.recorder != nil {
			e.recorder.RecordCommandLatency(entityID, time.Since(start), err == nil)
		}

		e.mu.Lock()
		p := e.pending[entityID]

		if err != nil {
			// Roll back to the exact snapshot. Any coalesced follow-up is
			// discarded with it: its optimistic apply is part of what the
			// snapshot erases, and sending it would resurrect state the
			// user no longer sees.
			e.registry.Put(p.snapshot)
			delete(e.pending, entityID)
			e.mu.Unlock()

			e.logger.Warn("mutation failed, rolled back",
				"entity", entityID, "error", err)
			e.emit(Result{EntityID: entityID, Err: err, RolledBack: true})
			return
		}

		if p.queued == nil {
			delete(e.pending, entityID)
			e.mu.Unlock()

			e.logger.Debug("mutation acknowledged", "entity", entityID)
			e.emit(Result{EntityID: entityID})
			return
		}

		// A follow-up was coalesced while we were in flight. The state the
		// server just acknowledged becomes the rollback target for it.
		next := *p.queued
		p.queued = nil
		p.snapshot = target

		current, gerr := e.registry.Get(entityID)
		if gerr != nil {
			// Entity vanished mid-flight (delete acknowledged elsewhere).
			delete(e.pending, entityID)
			e.mu.Unlock()

			e.emit(Result{EntityID: entityID})
			return
		}
		target = *current
		change = next
		e.mu.Unlock()

		e.emit(Result{EntityID: entityID})
	}
}

// emit delivers a result to the callback, if set.
func (e *Engine) emit(res Result) {
	if e.onResult != nil {
		e.onResult(res)
	}
}

// applyChange mutates an entity in place with the intended change.
func applyChange(e *registry.Entity, ch Change) {
	if ch.Active != nil {
		e.Active = *ch.Active
	}
	if ch.Value != nil {
		v := *ch.Value
		e.Value = &v
	}
	now := time.Now().UTC()
	e.LastUpdate = &now
}
