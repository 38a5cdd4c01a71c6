package funclimit

import (
	"sync"
	"time"
)

type throttler[T any] struct {
	action func(T)
	window time.Duration
	clock  Clock

	mu      sync.Mutex
	ran     bool
	lastRan time.Time
	timer   Timer
	gen     uint64
}

// Throttle returns a function that invokes action at most once per window.
//
// The first call runs action synchronously, as does any call made at least window after the last run.
// A call arriving sooner replaces the pending deferred run, if any, with one due when window will have elapsed
// since the last run, carrying the value of that call. When the deferred run fires it checks the elapsed time
// again and drops the run if the window has not passed yet.
//
// A burst of calls therefore collapses into one leading run and one trailing run per window,
// the trailing run carrying the value of the last call received before it fires.
//
// The returned function is safe for concurrent use. Panics raised by action are not recovered.
func Throttle[T any](action func(T), window time.Duration, opts ...Option) func(T) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &throttler[T]{
		action: action,
		window: window,
		clock:  o.clock,
	}

	return t.call
}

// ThrottleFunc is Throttle for actions that take no argument.
func ThrottleFunc(action func(), window time.Duration, opts ...Option) func() {
	throttled := Throttle(func(struct{}) { action() }, window, opts...)
	return func() { throttled(struct{}{}) }
}

func (t *throttler[T]) call(v T) {
	t.mu.Lock()

	now := t.clock.Now()
	elapsed := now.Sub(t.lastRan)

	t.stopLocked()

	if !t.ran || elapsed >= t.window {
		t.ran = true
		t.lastRan = now
		t.mu.Unlock()

		t.action(v)
		return
	}

	gen := t.gen
	t.timer = t.clock.AfterFunc(t.window-elapsed, func() { t.fire(gen, v) })

	t.mu.Unlock()
}

func (t *throttler[T]) fire(gen uint64, v T) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil

	now := t.clock.Now()
	if now.Sub(t.lastRan) < t.window {
		t.mu.Unlock()
		return
	}
	t.lastRan = now
	t.mu.Unlock()

	t.action(v)
}

// stopLocked cancels the pending deferred run and invalidates its callback in case it already started.
func (t *throttler[T]) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
