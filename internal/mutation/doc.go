// Package mutation reconciles optimistic local state changes with the
// backend.
//
// The user sees every command take effect immediately; the engine owns
// getting the backend to agree, rolling the entity back to its exact
// pre-change snapshot when it does not. A per-entity in-flight flag with
// target coalescing guarantees the backend never sees overlapping
// commands for one entity, and that a burst of taps resolves to a single
// follow-up carrying the latest target.
package mutation
