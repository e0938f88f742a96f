// Package registry implements a concurrent key-to-observable map for ad-hoc
// shared state.
//
// Entries are keyed by (name, value type): GetOrCreate returns an existing
// observable only when the stored entry holds the exact requested type,
// otherwise it atomically creates a distinct entry under the same name. Two
// callers asking for the same name and type always receive the same
// observable instance.
//
// Removal drops the registry's reference eagerly. Handles already held by
// callers keep working; a later GetOrCreate for the removed name constructs
// a fresh observable.
package registry
