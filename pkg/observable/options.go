package observable

import "time"

// subscribeConfig is the per-call subscription configuration.
// Building it from options keeps configuration atomic per Subscribe call;
// there is no shared staging state two goroutines could race on.
type subscribeConfig struct {
	priority Priority
	mode     RateLimitMode
	interval time.Duration
	executor Executor
}

func defaultSubscribeConfig() subscribeConfig {
	return subscribeConfig{
		priority: PriorityNormal,
		mode:     RateLimitNone,
	}
}

// SubscribeOption configures a single Subscribe call.
type SubscribeOption func(*subscribeConfig)

// WithPriority sets the subscription's priority.
func WithPriority(p Priority) SubscribeOption {
	return func(c *subscribeConfig) {
		c.priority = p
	}
}

// Throttled applies leading-edge rate limiting: the first value after each
// interval window opens is delivered, later values inside the window are
// dropped. The initial delivery made by Subscribe is exempt and does not
// consume the window.
func Throttled(interval time.Duration) SubscribeOption {
	return func(c *subscribeConfig) {
		c.mode = RateLimitThrottle
		c.interval = interval
	}
}

// Debounced applies trailing-edge rate limiting: a value is delivered only
// after interval elapses with no newer value; intermediate values are
// silently discarded. The initial delivery made by Subscribe is exempt.
func Debounced(interval time.Duration) SubscribeOption {
	return func(c *subscribeConfig) {
		c.mode = RateLimitDebounce
		c.interval = interval
	}
}

// DeliverOn redirects the subscription's callbacks to the given executor.
// Without it, callbacks run inline on whatever goroutine performs dispatch.
func DeliverOn(e Executor) SubscribeOption {
	return func(c *subscribeConfig) {
		c.executor = e
	}
}

// DeliverOnMain redirects the subscription's callbacks to the process-wide
// main executor (see Main).
func DeliverOnMain() SubscribeOption {
	return func(c *subscribeConfig) {
		c.executor = Main()
	}
}
