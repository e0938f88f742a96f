package observable

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pulse-state/pulse-go/pkg/log"
	"github.com/pulse-state/pulse-go/pkg/schedule"
)

// Observable is a thread-safe value container that notifies subscribers when
// its value changes. The zero value is not usable; call New.
//
// All methods are safe for concurrent use. A single readers-writer lock
// guards the value and the subscriber list; subscriber callbacks are never
// invoked while it is held.
type Observable[T any] struct {
	mu sync.RWMutex

	// id identifies the observable in log events (UUID).
	id string

	// value is the current value.
	value T

	// subs is the subscriber list in registration order.
	subs []*subscription[T]

	// nextSeq is the registration sequence counter.
	nextSeq uint64

	// batchDepth is the BeginUpdates nesting depth.
	batchDepth int

	// pendingNotify records that a notifying Set happened inside a batch.
	pendingNotify bool

	// closed marks the observable as torn down; no further dispatch occurs.
	closed bool

	// releases are upstream detach hooks owned by derived observables.
	releases []func()

	// timers holds pending debounce timers, keyed by subscription ID.
	timers *schedule.Manager

	// queue serializes dispatch passes so notifications for successive
	// Set calls arrive in write order.
	queue *SerialExecutor

	// logger receives engine events; nil disables logging.
	logger log.Logger
}

// New creates an observable holding initial.
func New[T any](initial T) *Observable[T] {
	return &Observable[T]{
		id:     uuid.NewString(),
		value:  initial,
		timers: schedule.NewManager(),
		queue:  NewSerialExecutor(),
	}
}

// ID returns the observable's unique identifier.
func (o *Observable[T]) ID() string {
	return o.id
}

// SetEventLogger attaches a logger receiving subscribe, dispatch, drop and
// state events. Pass nil to disable logging (the default).
func (o *Observable[T]) SetEventLogger(l log.Logger) {
	o.mu.Lock()
	o.logger = l
	o.mu.Unlock()
}

// Value returns the current value. It may run concurrently with other reads
// and with dispatch, never with a write.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// SubscriberCount returns the number of registered subscriptions.
func (o *Observable[T]) SubscriberCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}

// Set swaps the value and notifies subscribers. Inside a batch the
// notification is deferred and coalesced; see BeginUpdates. The dispatch is
// asynchronous: Set returns once the value is swapped and the notification
// is queued.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	o.value = v
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.batchDepth > 0 {
		o.pendingNotify = true
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.queue.Async(func() { o.dispatch(v) })
}

// SetSilently swaps the value without notifying subscribers.
func (o *Observable[T]) SetSilently(v T) {
	o.mu.Lock()
	o.value = v
	o.mu.Unlock()
}

// Notify dispatches the current value to all subscribers regardless of
// whether it changed.
func (o *Observable[T]) Notify() {
	o.mu.RLock()
	v := o.value
	closed := o.closed
	o.mu.RUnlock()
	if closed {
		return
	}

	o.queue.Async(func() { o.dispatch(v) })
}

// BeginUpdates opens a batch. While at least one batch is open, notifying
// Set calls coalesce into at most one trailing dispatch carrying the last
// value written; the dispatch happens when the outermost EndUpdates closes
// the bracket. Brackets nest.
func (o *Observable[T]) BeginUpdates() {
	o.mu.Lock()
	o.batchDepth++
	first := o.batchDepth == 1
	logger := o.logger
	o.mu.Unlock()

	if first && logger != nil {
		o.logState(logger, "idle", "batching", "begin updates")
	}
}

// EndUpdates closes a batch. Calling it without a matching BeginUpdates is a
// no-op. When the outermost bracket closes and a notifying Set occurred
// inside it, the current value is dispatched once.
func (o *Observable[T]) EndUpdates() {
	o.mu.Lock()
	if o.batchDepth == 0 {
		o.mu.Unlock()
		return
	}
	o.batchDepth--
	if o.batchDepth > 0 {
		o.mu.Unlock()
		return
	}
	notify := o.pendingNotify && !o.closed
	o.pendingNotify = false
	v := o.value
	logger := o.logger
	o.mu.Unlock()

	if logger != nil {
		o.logState(logger, "batching", "idle", "end updates")
	}
	if notify {
		o.queue.Async(func() { o.dispatch(v) })
	}
}

// Subscribe registers a callback with the given options and returns its
// subscription ID. The callback is immediately invoked once with the current
// value; this initial delivery bypasses rate limiting entirely and, for a
// throttled subscription, does not consume the throttle window. When a
// delivery executor is configured the initial delivery is enqueued to it
// before Subscribe returns, so it precedes any later emission.
func (o *Observable[T]) Subscribe(callback func(T), opts ...SubscribeOption) SubscriptionID {
	cfg := defaultSubscribeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return o.register(callback, cfg, true)
}

// observe registers a callback without the initial priming delivery.
// Operators seed their derived observable explicitly and use this for
// forward propagation only.
func (o *Observable[T]) observe(callback func(T)) SubscriptionID {
	return o.register(callback, defaultSubscribeConfig(), false)
}

func (o *Observable[T]) register(callback func(T), cfg subscribeConfig, prime bool) SubscriptionID {
	sub := &subscription[T]{
		id:       SubscriptionID(uuid.NewString()),
		priority: cfg.priority,
		mode:     cfg.mode,
		interval: cfg.interval,
		executor: cfg.executor,
		callback: callback,
	}
	if cfg.mode == RateLimitThrottle {
		sub.limiter = rate.NewLimiter(rate.Every(cfg.interval), 1)
	}

	o.mu.Lock()
	v := o.value
	logger := o.logger
	if !o.closed {
		sub.seq = o.nextSeq
		o.nextSeq++
		o.subs = append(o.subs, sub)
	}
	// Enqueueing under the lock pins the initial delivery ahead of any
	// dispatch pass that can see this subscription.
	if prime && sub.executor != nil {
		sub.executor.Async(func() { callback(v) })
	}
	o.mu.Unlock()

	if logger != nil {
		ev := log.NewEvent(o.id, log.CategorySubscribe)
		ev.SubscriptionID = string(sub.id)
		ev.Subscribe = &log.SubscribeEvent{
			Priority:  sub.priority.String(),
			RateLimit: sub.mode.String(),
			Interval:  sub.interval,
			Deferred:  sub.executor != nil,
		}
		logger.Log(ev)
	}

	if prime {
		if sub.executor == nil {
			callback(v)
		}
		if logger != nil {
			o.logDispatch(logger, sub, v, true, false)
		}
	}

	return sub.id
}

// Unsubscribe removes the subscription with the given ID. It is a no-op if
// no such subscription exists. A pending debounce timer for the subscription
// is cancelled before removal, so its callback will not fire afterwards.
func (o *Observable[T]) Unsubscribe(id SubscriptionID) {
	o.mu.Lock()
	removed := false
	for i, sub := range o.subs {
		if sub.id == id {
			_ = o.timers.Cancel(string(id))
			sub.removed = true
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			removed = true
			break
		}
	}
	logger := o.logger
	o.mu.Unlock()

	if removed && logger != nil {
		ev := log.NewEvent(o.id, log.CategoryUnsubscribe)
		ev.SubscriptionID = string(id)
		logger.Log(ev)
	}
}

// RemoveAllSubscribers cancels all pending debounce timers and clears the
// subscriber list.
func (o *Observable[T]) RemoveAllSubscribers() {
	o.mu.Lock()
	o.timers.CancelAll()
	for _, sub := range o.subs {
		sub.removed = true
	}
	o.subs = nil
	o.mu.Unlock()
}

// Close tears the observable down: pending debounce timers are cancelled,
// subscribers are cleared, and any upstream registrations owned by a derived
// observable are released. After Close no further dispatch occurs. Close is
// idempotent.
func (o *Observable[T]) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.timers.CancelAll()
	for _, sub := range o.subs {
		sub.removed = true
	}
	o.subs = nil
	releases := o.releases
	o.releases = nil
	logger := o.logger
	o.mu.Unlock()

	for _, release := range releases {
		release()
	}
	if logger != nil {
		o.logState(logger, "idle", "closed", "close")
	}
}

// retain records an upstream detach hook to run on Close. Derived
// observables own their internal source registrations through it.
func (o *Observable[T]) retain(release func()) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		release()
		return
	}
	o.releases = append(o.releases, release)
	o.mu.Unlock()
}

// dispatch runs one notification pass for v. It snapshots the subscriber
// list under the read lock, sorts the snapshot by priority with registration
// order breaking ties, and applies each subscription's rate limit before
// invoking its callback. No lock is held during invocation.
func (o *Observable[T]) dispatch(v T) {
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		return
	}
	snapshot := make([]*subscription[T], len(o.subs))
	copy(snapshot, o.subs)
	logger := o.logger
	o.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].priority != snapshot[j].priority {
			return snapshot[i].priority < snapshot[j].priority
		}
		return snapshot[i].seq < snapshot[j].seq
	})

	now := time.Now()
	for _, sub := range snapshot {
		o.notifyOne(sub, v, now, logger)
	}
}

// notifyOne applies one subscription's rate-limit policy to v.
func (o *Observable[T]) notifyOne(sub *subscription[T], v T, now time.Time, logger log.Logger) {
	switch sub.mode {
	case RateLimitDebounce:
		o.armDebounce(sub, v, logger)

	default:
		if !sub.admit(now) {
			if logger != nil {
				o.logDrop(logger, sub, false)
			}
			return
		}
		if logger != nil {
			o.logDispatch(logger, sub, v, false, false)
		}
		sub.invoke(v)
	}
}

// armDebounce starts (or restarts) sub's trailing timer for v. The timer is
// armed under the read lock so it cannot land after Unsubscribe or Close
// cancelled the subscription's timers under the write lock; the fire path
// re-checks membership for the same reason, covering a fire that slipped
// past Cancel inside the timer manager.
func (o *Observable[T]) armDebounce(sub *subscription[T], v T, logger log.Logger) {
	o.mu.RLock()
	if o.closed || sub.removed {
		o.mu.RUnlock()
		return
	}
	superseded, err := o.timers.Arm(string(sub.id), sub.interval, func() {
		o.mu.RLock()
		gone := o.closed || sub.removed
		o.mu.RUnlock()
		if gone {
			return
		}
		if logger != nil {
			o.logDispatch(logger, sub, v, false, true)
		}
		sub.invoke(v)
	})
	o.mu.RUnlock()

	if err != nil {
		return
	}
	if superseded && logger != nil {
		o.logDrop(logger, sub, true)
	}
}

func (o *Observable[T]) logDispatch(logger log.Logger, sub *subscription[T], v T, initial, trailing bool) {
	ev := log.NewEvent(o.id, log.CategoryDispatch)
	ev.SubscriptionID = string(sub.id)
	ev.Dispatch = &log.DispatchEvent{
		Priority: sub.priority.String(),
		Value:    log.TruncateValue(fmt.Sprintf("%v", v)),
		Initial:  initial,
		Trailing: trailing,
	}
	logger.Log(ev)
}

func (o *Observable[T]) logDrop(logger log.Logger, sub *subscription[T], superseded bool) {
	ev := log.NewEvent(o.id, log.CategoryDrop)
	ev.SubscriptionID = string(sub.id)
	ev.Drop = &log.DropEvent{
		Mode:       sub.mode.String(),
		Superseded: superseded,
	}
	logger.Log(ev)
}

func (o *Observable[T]) logState(logger log.Logger, oldState, newState, reason string) {
	ev := log.NewEvent(o.id, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	logger.Log(ev)
}
