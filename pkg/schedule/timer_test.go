package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestArmFires(t *testing.T) {
	m := NewManager()
	fired := make(chan struct{})

	superseded, err := m.Arm("k", 20*time.Millisecond, func() { close(fired) })
	if err != nil {
		t.Fatalf("Arm returned error: %v", err)
	}
	if superseded {
		t.Error("Arm on empty slot reported superseded")
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	if m.Pending("k") {
		t.Error("Pending = true after fire")
	}
}

func TestArmInvalidDelay(t *testing.T) {
	m := NewManager()
	if _, err := m.Arm("k", 0, func() {}); err != ErrInvalidDelay {
		t.Errorf("Arm(0) error = %v, want ErrInvalidDelay", err)
	}
	if _, err := m.Arm("k", -time.Second, func() {}); err != ErrInvalidDelay {
		t.Errorf("Arm(-1s) error = %v, want ErrInvalidDelay", err)
	}
}

func TestCancelPreventsFire(t *testing.T) {
	m := NewManager()
	var fired atomic.Bool

	if _, err := m.Arm("k", 50*time.Millisecond, func() { fired.Store(true) }); err != nil {
		t.Fatalf("Arm returned error: %v", err)
	}
	if err := m.Cancel("k"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled timer fired")
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d after cancel, want 0", m.Count())
	}
}

func TestCancelUnknownKey(t *testing.T) {
	m := NewManager()
	if err := m.Cancel("missing"); err != ErrTimerNotFound {
		t.Errorf("Cancel error = %v, want ErrTimerNotFound", err)
	}
}

func TestArmReplacesPendingTimer(t *testing.T) {
	m := NewManager()
	got := make(chan int, 2)

	if _, err := m.Arm("k", 40*time.Millisecond, func() { got <- 1 }); err != nil {
		t.Fatalf("Arm returned error: %v", err)
	}
	superseded, err := m.Arm("k", 40*time.Millisecond, func() { got <- 2 })
	if err != nil {
		t.Fatalf("Arm returned error: %v", err)
	}
	if !superseded {
		t.Error("Arm over pending timer did not report superseded")
	}

	select {
	case v := <-got:
		if v != 2 {
			t.Errorf("fired callback = %d, want 2 (replacement)", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timer did not fire")
	}

	// The replaced timer must stay silent.
	select {
	case v := <-got:
		t.Errorf("unexpected extra fire: %d", v)
	case <-time.After(120 * time.Millisecond):
	}
}

func TestCancelAll(t *testing.T) {
	m := NewManager()
	var fired atomic.Int32

	for _, key := range []string{"a", "b", "c"} {
		if _, err := m.Arm(key, 50*time.Millisecond, func() { fired.Add(1) }); err != nil {
			t.Fatalf("Arm(%q) returned error: %v", key, err)
		}
	}
	if m.Count() != 3 {
		t.Fatalf("Count = %d, want 3", m.Count())
	}

	m.CancelAll()

	time.Sleep(150 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Errorf("%d cancelled timers fired", n)
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d after CancelAll, want 0", m.Count())
	}
}

func TestRemainingTime(t *testing.T) {
	m := NewManager()
	if _, err := m.Arm("k", time.Second, func() {}); err != nil {
		t.Fatalf("Arm returned error: %v", err)
	}

	remaining := m.RemainingTime("k")
	if remaining <= 0 || remaining > time.Second {
		t.Errorf("RemainingTime = %v, want in (0, 1s]", remaining)
	}
	if m.RemainingTime("missing") != 0 {
		t.Error("RemainingTime for unknown key should be 0")
	}
	m.CancelAll()
}
