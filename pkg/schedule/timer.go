package schedule

import (
	"errors"
	"sync"
	"time"
)

// Timer errors.
var (
	ErrTimerNotFound = errors.New("timer not found")
	ErrInvalidDelay  = errors.New("invalid timer delay")
)

// task is one armed timer slot.
type task struct {
	key       string
	startTime time.Time
	delay     time.Duration
	fn        func()
	timer     *time.Timer
}

// expiresAt returns when the task will fire.
func (t *task) expiresAt() time.Time {
	return t.startTime.Add(t.delay)
}

// Manager manages keyed cancellable timers.
// The zero value is not usable; call NewManager.
type Manager struct {
	mu sync.Mutex

	// Pending tasks by key. A key holds at most one task.
	tasks map[string]*task
}

// NewManager creates a new timer manager.
func NewManager() *Manager {
	return &Manager{
		tasks: make(map[string]*task),
	}
}

// Arm schedules fn to run after delay, replacing any pending timer for key.
// It reports whether a pending timer was superseded.
// Returns ErrInvalidDelay if delay is not positive.
func (m *Manager) Arm(key string, delay time.Duration, fn func()) (bool, error) {
	if delay <= 0 {
		return false, ErrInvalidDelay
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	superseded := false
	if existing, exists := m.tasks[key]; exists {
		existing.timer.Stop()
		superseded = true
	}

	t := &task{
		key:       key,
		startTime: time.Now(),
		delay:     delay,
		fn:        fn,
	}
	t.timer = time.AfterFunc(delay, func() {
		m.fire(t)
	})
	m.tasks[key] = t

	return superseded, nil
}

// fire runs a task's callback if it is still the current task for its key.
// A task replaced or cancelled after its timer fired but before this check
// runs nothing.
func (m *Manager) fire(t *task) {
	m.mu.Lock()
	current, exists := m.tasks[t.key]
	if !exists || current != t {
		m.mu.Unlock()
		return
	}
	delete(m.tasks, t.key)
	m.mu.Unlock()

	t.fn()
}

// Cancel cancels the pending timer for key without running its callback.
// Returns ErrTimerNotFound if no timer is pending for key.
func (m *Manager) Cancel(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, exists := m.tasks[key]
	if !exists {
		return ErrTimerNotFound
	}
	t.timer.Stop()
	delete(m.tasks, key)
	return nil
}

// CancelAll cancels every pending timer without running callbacks.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, t := range m.tasks {
		t.timer.Stop()
		delete(m.tasks, key)
	}
}

// Pending returns true if a timer is pending for key.
func (m *Manager) Pending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.tasks[key]
	return exists
}

// RemainingTime returns the time until the pending timer for key fires,
// or zero if no timer is pending.
func (m *Manager) RemainingTime(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, exists := m.tasks[key]
	if !exists {
		return 0
	}
	remaining := time.Until(t.expiresAt())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Count returns the number of pending timers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
