package observable

import (
	"time"

	"golang.org/x/time/rate"
)

// SubscriptionID uniquely identifies a subscription for the lifetime of its
// registration. IDs are UUIDs; the zero value never matches a registration.
type SubscriptionID string

// Priority controls notification order within a dispatch pass.
// Lower values are notified first.
type Priority uint8

const (
	// PriorityHigh subscribers are notified first.
	PriorityHigh Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 1

	// PriorityLow subscribers are notified last.
	PriorityLow Priority = 2
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityNormal:
		return "NORMAL"
	case PriorityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// RateLimitMode selects how a subscription limits delivery frequency.
type RateLimitMode uint8

const (
	// RateLimitNone delivers every value.
	RateLimitNone RateLimitMode = 0

	// RateLimitThrottle is leading-edge limiting: the first value after the
	// window opens is delivered, later values inside the window are dropped.
	RateLimitThrottle RateLimitMode = 1

	// RateLimitDebounce is trailing-edge limiting: only the last value
	// before a quiet period of the configured interval is delivered.
	RateLimitDebounce RateLimitMode = 2
)

// String returns a human-readable rate-limit mode name.
func (m RateLimitMode) String() string {
	switch m {
	case RateLimitNone:
		return "NONE"
	case RateLimitThrottle:
		return "THROTTLE"
	case RateLimitDebounce:
		return "DEBOUNCE"
	default:
		return "UNKNOWN"
	}
}

// subscription is one registered interest in an observable's value.
// Configuration is fixed at registration time; only the removed flag
// mutates, under the owning observable's lock.
type subscription[T any] struct {
	id       SubscriptionID
	seq      uint64 // registration order, tiebreak for equal priority
	priority Priority
	mode     RateLimitMode
	interval time.Duration
	executor Executor // nil means invoke inline on the dispatching goroutine
	callback func(T)

	// limiter enforces the throttle window. Burst 1, refill rate 1/interval,
	// so exactly one value passes per window, leading edge.
	limiter *rate.Limiter

	// removed is set when the subscription leaves the observable's list.
	// Guarded by the owning observable's lock; the dispatch path checks it
	// before arming or firing a debounce timer.
	removed bool
}

// admit applies the subscription's rate-limit policy at time now and reports
// whether the value may be delivered immediately. Debounce never admits
// immediately; the caller arms a trailing timer instead.
func (s *subscription[T]) admit(now time.Time) bool {
	switch s.mode {
	case RateLimitThrottle:
		return s.limiter.AllowN(now, 1)
	case RateLimitDebounce:
		return false
	default:
		return true
	}
}

// invoke delivers v to the callback, via the executor when one is set.
func (s *subscription[T]) invoke(v T) {
	if s.executor != nil {
		s.executor.Async(func() { s.callback(v) })
		return
	}
	s.callback(v)
}
