package funclimit

import (
	"sync"
	"time"
)

type debouncer[T any] struct {
	action    func(T)
	window    time.Duration
	immediate bool
	clock     Clock

	mu    sync.Mutex
	timer Timer
	gen   uint64 // bumped on every call, a timer only fires if it still owns the current generation
}

// Debounce returns a function that delays invoking action until window has elapsed since the last time it was called.
// Every call cancels the run scheduled by the previous one, so a burst of calls spaced less than window apart
// results in a single run carrying the value of the last call.
//
// With WithImmediate, action runs synchronously on the first call of a burst and the trailing run is suppressed;
// the next synchronous run happens only after window has elapsed without calls.
//
// The returned function is safe for concurrent use and does not wait for a deferred run to complete.
// Panics raised by action are not recovered.
func Debounce[T any](action func(T), window time.Duration, opts ...Option) func(T) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &debouncer[T]{
		action:    action,
		window:    window,
		immediate: o.immediate,
		clock:     o.clock,
	}

	return d.call
}

// DebounceFunc is Debounce for actions that take no argument.
func DebounceFunc(action func(), window time.Duration, opts ...Option) func() {
	debounced := Debounce(func(struct{}) { action() }, window, opts...)
	return func() { debounced(struct{}{}) }
}

func (d *debouncer[T]) call(v T) {
	d.mu.Lock()

	callNow := d.immediate && d.timer == nil
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen, v) })

	d.mu.Unlock()

	if callNow {
		d.action(v)
	}
}

func (d *debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	if !d.immediate {
		d.action(v)
	}
}
