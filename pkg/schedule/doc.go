// Package schedule implements keyed cancellable timers for deferred delivery.
//
// A Manager owns one timer slot per key. Arming a key that already has a
// pending timer cancels and replaces it, so only the most recently scheduled
// task for a key can ever fire. This is the primitive behind trailing-edge
// (debounce) rate limiting: every new value re-arms the slot, and only the
// value that survives the quiet period is delivered.
//
// # Cancellation Guarantee
//
// Cancel and CancelAll are synchronous: after they return, the cancelled
// task's callback will not run. A callback that has already started cannot be
// interrupted, but a callback racing with Cancel detects the replacement and
// returns without running user code.
//
// # Accuracy
//
// Timers use the runtime timer wheel via time.AfterFunc. Accuracy is
// best-effort; callers must not depend on sub-millisecond precision.
package schedule
