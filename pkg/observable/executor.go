package observable

import "sync"

// Executor runs functions asynchronously. Subscriptions configured with
// DeliverOn have their callbacks handed off to the executor instead of
// running inline on the dispatching goroutine.
type Executor interface {
	// Async schedules fn to run. Implementations must not block the caller.
	Async(fn func())
}

// SerialExecutor runs submitted functions one at a time in FIFO order.
// It keeps no goroutine alive while idle; a drain goroutine is started when
// work arrives and exits when the queue empties.
type SerialExecutor struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

// NewSerialExecutor creates a new serial executor.
func NewSerialExecutor() *SerialExecutor {
	return &SerialExecutor{}
}

// Async schedules fn to run after all previously submitted functions.
func (e *SerialExecutor) Async(fn func()) {
	e.mu.Lock()
	e.queue = append(e.queue, fn)
	if !e.draining {
		e.draining = true
		go e.drain()
	}
	e.mu.Unlock()
}

func (e *SerialExecutor) drain() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.draining = false
			e.mu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		fn()
	}
}

// Compile-time interface satisfaction check.
var _ Executor = (*SerialExecutor)(nil)

var (
	mainOnce sync.Once
	mainExec *SerialExecutor
)

// Main returns the process-wide "main" executor used by DeliverOnMain.
// It is a serial executor created on first use; all deliveries routed to it
// run one at a time in submission order.
func Main() Executor {
	mainOnce.Do(func() {
		mainExec = NewSerialExecutor()
	})
	return mainExec
}
