// Package observable implements a thread-safe observable value container
// with prioritized, rate-limited subscriber notification.
//
// An Observable holds a single value of any type. Subscribers register a
// callback and immediately receive the current value; afterwards every Set
// dispatches the new value to all subscribers ordered by priority. Each
// subscription can throttle (leading edge) or debounce (trailing edge) its
// deliveries and can redirect callbacks to an Executor.
//
// # Dispatch Ordering
//
// Dispatch runs on a per-observable serial queue, so notifications for
// successive Set calls arrive in write order. Subscribers with equal priority
// are notified in registration order. Callbacks never run while the
// observable's lock is held, so a callback may call back into the same
// observable (including Set) without deadlocking.
//
// # Batch Updates
//
// BeginUpdates/EndUpdates bracket a batch: Set calls inside the bracket
// coalesce into at most one trailing dispatch carrying the last value written.
//
// # Derived Observables
//
// The operator functions (Map, Filter, Merge, Zip, FlatMap, ...) build new
// observables whose values are functions of one or more sources. A derived
// observable owns its upstream registrations and releases them in Close.
package observable
