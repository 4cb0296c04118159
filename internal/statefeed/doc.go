// Package statefeed keeps the registry current with live entity-state
// events from the backend.
//
// Two sources implement the same apply path: a websocket feed (primary)
// and an MQTT feed for broker-equipped installations. Both honour the
// mutation engine's in-flight gate: an event for an entity with a pending
// optimistic change is dropped rather than clobbering what the user just
// did. Feeds only ever add freshness; losing one degrades to polling.
package statefeed
