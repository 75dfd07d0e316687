package services

import (
	"sync"
	"time"
)

// Debouncer delivers the last observed value once delay has passed without another
// Observe. Intermediate values are never delivered.
type Debouncer[T any] struct {
	delay time.Duration
	out   chan T

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet period
func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// C returns the channel settled values are delivered on
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Observe records value and restarts the quiet period, cancelling any pending delivery
func (d *Debouncer[T]) Observe(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.deliver(seq, value)
	})
}

func (d *Debouncer[T]) deliver(seq uint64, value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A later Observe or Stop won the race with this timer
	if d.stopped || seq != d.seq {
		return
	}

	// Replace an undelivered older value
	select {
	case <-d.out:
	default:
	}
	d.out <- value
}

// Stop cancels any pending delivery. Nothing is delivered after Stop returns.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.out:
	default:
	}
}
