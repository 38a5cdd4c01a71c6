package watch

import (
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muktihari/funclimit"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrNilHandler    = errors.New("nil handler")
	ErrClosed        = errors.New("watcher closed")
)

// Config configures a Watcher.
type Config struct {
	// Window is the quiet period a path must go through before its latest event is dispatched.
	// Zero means the default of 100ms.
	Window time.Duration

	// Leading dispatches the first event of a burst right away and drops the rest of the burst.
	Leading bool

	// Ops selects the operations to report. Zero reports all of them.
	Ops fsnotify.Op

	// Limiter, if set, is waited on before every dispatch.
	Limiter Limiter

	// Logger receives fsnotify errors and dispatch diagnostics.
	// Default: zerolog.Nop()
	Logger zerolog.Logger

	// Clock drives the per-path debouncers. Nil means the system clock.
	Clock funclimit.Clock
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Window: 100 * time.Millisecond,
		Logger: zerolog.Nop(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Window < 0 {
		return ErrInvalidWindow
	}
	return nil
}

func (c *Config) wants(op fsnotify.Op) bool {
	return c.Ops == 0 || c.Ops&op != 0
}
