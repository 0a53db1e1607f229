package grid

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger
// arrived for the configured delay. Each trigger restarts the timer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	pending  func()
	dispatch func(func())
}

// NewDebouncer creates a debouncer. dispatch receives the callback when the
// timer fires; nil runs it on the timer goroutine.
func NewDebouncer(delay time.Duration, dispatch func(func())) *Debouncer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Debouncer{delay: delay, dispatch: dispatch}
}

// Trigger schedules fn, replacing any pending function.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if fn := d.take(seq); fn != nil {
			d.dispatch(fn)
		}
	})
}

// take returns the pending function if seq is still the latest trigger.
func (d *Debouncer) take(seq uint64) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq || d.pending == nil {
		return nil
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	return fn
}

// Cancel drops the pending function.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a function is waiting for the timer.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush runs the pending function now, on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.seq++
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}
