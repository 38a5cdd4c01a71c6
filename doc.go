// Package funclimit wraps functions to control when they run.
//
// Debounce collapses a burst of calls into a single run after the burst has gone quiet:
//
//	save := funclimit.Debounce(func(doc string) { store.Save(doc) }, 500*time.Millisecond)
//	save(draft) // called on every keystroke, runs once the typing stops
//
// Throttle runs at most once per window, keeping the first call of a burst and the last one:
//
//	report := funclimit.ThrottleFunc(printProgress, time.Second)
//
// Both return immediately; deferred runs happen on the clock's timer goroutine.
package funclimit
