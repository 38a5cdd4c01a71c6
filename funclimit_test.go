package funclimit_test

import (
	"time"

	"github.com/muktihari/funclimit/clocktest"
)

var epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type call struct {
	at time.Duration // offset from epoch
	v  int
}

type run struct {
	At time.Duration
	V  int
}

// recorder collects the runs of an action along with the fake time they happened at.
type recorder struct {
	clock *clocktest.Clock
	runs  []run
}

func newRecorder() *recorder {
	return &recorder{clock: clocktest.New(epoch)}
}

func (r *recorder) action(v int) {
	r.runs = append(r.runs, run{At: r.clock.Now().Sub(epoch), V: v})
}

// play performs calls in order on the fake timeline, then lets the clock run until the given offset.
func (r *recorder) play(fn func(int), calls []call, until time.Duration) {
	for _, c := range calls {
		r.clock.Advance(c.at - r.clock.Now().Sub(epoch))
		fn(c.v)
	}
	r.clock.Advance(until - r.clock.Now().Sub(epoch))
}
