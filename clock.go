package funclimit

import "time"

// Clock is the time source used by the wrappers to read the current time and to schedule deferred runs.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a run scheduled by Clock.AfterFunc.
// Stop reports whether the call prevented the run, the same way *time.Timer does.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

var _ Clock = systemClock{} // should satisfy Clock interface

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
