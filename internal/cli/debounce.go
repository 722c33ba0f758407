package cli

import (
	"sync"
	"time"
)

// DefaultDebounce is how long search input must settle before a fetch.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs only the most recent of a burst of calls, once the burst
// has been quiet for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	fn    func()
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs the pending call now, if there is one.
func (d *Debouncer) Flush() {
	if fn := d.take(); fn != nil {
		fn()
	}
}

// Stop drops the pending call.
func (d *Debouncer) Stop() {
	d.take()
}

func (d *Debouncer) take() func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	fn := d.fn
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	return fn
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.mu.Unlock()

	fn()
}
