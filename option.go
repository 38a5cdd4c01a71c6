package funclimit

type options struct {
	immediate bool
	clock     Clock
}

func defaultOptions() options {
	return options{clock: systemClock{}}
}

// Option configures Debounce and Throttle.
type Option func(o *options)

// WithImmediate makes Debounce run the action on the leading edge of a burst instead of the trailing edge.
// Throttle ignores it, it always runs on the leading edge.
func WithImmediate() Option {
	return func(o *options) { o.immediate = true }
}

// WithClock replaces the system clock. Nil is ignored.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}
