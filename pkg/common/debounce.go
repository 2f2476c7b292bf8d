package common

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once the triggers
// have been quiet for the delay. Each trigger restarts the wait.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	gen   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fireGen(gen)
	})
}

// fireGen runs the pending function unless a newer trigger replaced the
// timer that fired.
func (d *Debouncer) fireGen(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn := d.takeUnsafe()
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *Debouncer) takeUnsafe() func() {
	fn := d.fn
	d.fn = nil
	d.timer = nil
	return fn
}

// Flush runs a pending function immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.takeUnsafe()
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop drops a pending function, it reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.fn != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	return pending
}
