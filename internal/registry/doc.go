// Package registry holds the in-memory catalogue of controllable entities.
//
// Devices and cameras share one Entity shape: Active means "on" for a
// device and "recording" for a camera. The registry is storage only; the
// mutation engine owns pending-change bookkeeping, the state feed owns
// live updates. Stored entities are isolated from callers through deep
// copies on every read and write.
package registry
