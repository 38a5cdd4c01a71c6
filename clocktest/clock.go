// Package clocktest provides a manually advanced funclimit.Clock for tests.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/muktihari/funclimit"
)

// Clock is a fake clock whose time only moves when Advance is called.
// Timers scheduled with AfterFunc fire synchronously inside Advance.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*timer
}

var _ funclimit.Clock = (*Clock)(nil) // should satisfy funclimit.Clock interface

type timer struct {
	c        *Clock
	deadline time.Time
	seq      uint64
	f        func()
	done     bool // fired or stopped
}

// New creates a Clock starting at start.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the fake time reaches Now()+d. A non-positive d fires on the next Advance.
func (c *Clock) AfterFunc(d time.Duration, f func()) funclimit.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}

	c.seq++
	t := &timer{c: c, deadline: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)

	return t
}

// Advance moves the fake time forward by d, firing due timers in deadline order.
// While a timer runs, Now reports its deadline. Timers scheduled by a callback fire too if they fall within d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		t.done = true
		c.now = t.deadline
		c.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// nextLocked drops finished timers and returns the earliest one due at or before target.
func (c *Clock) nextLocked(target time.Time) *timer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})

	if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
		return nil
	}
	return c.timers[0]
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}
