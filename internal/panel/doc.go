// Package panel composes the panel's components into user-facing
// operations.
//
// The controller mirrors the screens of the panel UI: auth, profile,
// devices, security, household, dashboard. Input validation and the
// permission gate both run before any network call; entity state changes
// go through the optimistic mutation engine rather than calling the
// backend directly. The package also holds the small adapters that bind
// the session store to the API client and mutation engine.
package panel
