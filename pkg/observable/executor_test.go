package observable_test

import (
	"sync"
	"testing"
	"time"

	"github.com/pulse-state/pulse-go/pkg/observable"
)

func TestSerialExecutorFIFO(t *testing.T) {
	exec := observable.NewSerialExecutor()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	const n = 100
	for i := 0; i < n; i++ {
		i := i
		exec.Async(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == n-1 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("executor did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != n {
		t.Fatalf("ran %d tasks, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
}

func TestSerialExecutorRestartsAfterIdle(t *testing.T) {
	exec := observable.NewSerialExecutor()

	first := make(chan struct{})
	exec.Async(func() { close(first) })
	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first task did not run")
	}

	// Let the drain goroutine exit, then submit again.
	time.Sleep(50 * time.Millisecond)
	second := make(chan struct{})
	exec.Async(func() { close(second) })
	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second task did not run after idle")
	}
}

func TestMainIsSingleton(t *testing.T) {
	if observable.Main() != observable.Main() {
		t.Error("Main() returned different executors")
	}
}
