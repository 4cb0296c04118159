// Package session holds the authenticated identity and credential token.
//
// The durable implementation persists the session in the panel's local
// SQLite store as two rows (token, serialised identity) that are written
// and cleared together, so the session survives restarts. Token freshness
// is never validated locally; a 401 from the backend forces a logout via
// the API client's unauthorised hook.
package session
