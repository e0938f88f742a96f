// Package log provides structured event logging for the notification engine.
//
// Observables emit lifecycle and dispatch events (subscribe, unsubscribe,
// dispatch, rate-limit drop, state changes) through a Logger. Applications can
// route events to a CBOR log file (FileLogger), the standard library's slog
// facility (SlogAdapter), several sinks at once (MultiLogger), or discard them
// (NoopLogger, the default).
//
// # Event Format
//
// Events are encoded as CBOR maps with integer keys for compactness. A log
// file is a plain concatenation of CBOR-encoded events; Reader iterates and
// filters them.
//
// # Performance
//
// Loggers are invoked on the dispatch path. Implementations must be
// thread-safe and should return quickly; blocking delays subscriber delivery.
package log
