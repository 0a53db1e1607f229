// Package core owns the live grid sessions behind the HTTP API.
//
// Each [Session] wraps one [grid.Grid] and the HTML presenter that renders
// it. A grid is single-threaded, so every access goes through
// [Session.Do], which holds the session lock; debounced filter callbacks
// are dispatched through the same lock.
//
// # Lifecycle
//
// Sessions are created by [Service.CreateSession], looked up by id, and
// removed either explicitly or by the idle sweeper started with
// [Service.StartSweeper]. View state (sort, filters, hidden columns) is
// persisted per grid name in the configured store, so a new session with
// the same name picks up where the previous one left off.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
package core
