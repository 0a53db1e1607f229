package grid

import (
	"testing"
	"time"
)

func TestDebouncer_RunsLastTrigger(t *testing.T) {
	done := make(chan string, 4)
	d := NewDebouncer(10*time.Millisecond, nil)

	d.Trigger(func() { done <- "first" })
	d.Trigger(func() { done <- "second" })

	select {
	case got := <-done:
		if got != "second" {
			t.Errorf("ran %q, want second", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}

	select {
	case got := <-done:
		t.Errorf("extra run %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_Dispatch(t *testing.T) {
	dispatched := make(chan func(), 1)
	d := NewDebouncer(time.Millisecond, func(fn func()) { dispatched <- fn })

	ran := false
	d.Trigger(func() { ran = true })

	select {
	case fn := <-dispatched:
		if ran {
			t.Fatal("function ran before dispatch")
		}
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing dispatched")
	}
	if !ran {
		t.Error("dispatched function did not run")
	}
}

func TestDebouncer_CancelAndFlush(t *testing.T) {
	d := NewDebouncer(time.Hour, nil)
	n := 0

	d.Trigger(func() { n++ })
	d.Cancel()
	d.Flush()
	if n != 0 || d.Pending() {
		t.Errorf("after Cancel: runs = %d, pending = %v", n, d.Pending())
	}

	d.Trigger(func() { n++ })
	if !d.Pending() {
		t.Error("Pending() = false after Trigger")
	}
	d.Flush()
	d.Flush()
	if n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}
