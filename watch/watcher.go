// Package watch reports filesystem changes the way editors and build tools want them:
// a burst of events on one path becomes a single notification once the path has gone quiet.
package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/muktihari/funclimit"
	"github.com/sourcegraph/conc"
)

// queueSize bounds the events waiting for the handler.
const queueSize = 64

// Handler receives the latest event of every debounced burst.
type Handler func(fsnotify.Event)

// Watcher wraps fsnotify.Watcher and debounces its events per path.
//
// The handler is called from a single goroutine, one event at a time, and is never called after Close returns.
type Watcher struct {
	cfg     Config
	opts    []funclimit.Option
	handler Handler
	fs      *fsnotify.Watcher

	mu         sync.Mutex
	debouncers map[string]*pathDebouncer // keyed by event name

	queue  chan fsnotify.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
	closed atomic.Bool
}

// New creates a Watcher with no paths and starts processing its events.
// A zero cfg.Window takes the default.
func New(cfg Config, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return newWatcher(cfg, handler, fsw, fsw.Events, fsw.Errors), nil
}

func newWatcher(cfg Config, handler Handler, fsw *fsnotify.Watcher, events <-chan fsnotify.Event, errs <-chan error) *Watcher {
	if cfg.Window == 0 {
		cfg.Window = DefaultConfig().Window
	}

	opts := []funclimit.Option{funclimit.WithClock(cfg.Clock)}
	if cfg.Leading {
		opts = append(opts, funclimit.WithImmediate())
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		cfg:        cfg,
		opts:       opts,
		handler:    handler,
		fs:         fsw,
		debouncers: make(map[string]*pathDebouncer),
		queue:      make(chan fsnotify.Event, queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	w.wg.Go(func() { w.readLoop(events, errs) })
	w.wg.Go(w.dispatchLoop)

	return w
}

// Add starts watching path. Directories are watched non-recursively.
func (w *Watcher) Add(path string) error {
	if w.closed.Load() {
		return ErrClosed
	}
	return w.fs.Add(path)
}

// Remove stops watching path. Events already debounced for it are still dispatched.
func (w *Watcher) Remove(path string) error {
	if w.closed.Load() {
		return ErrClosed
	}
	return w.fs.Remove(path)
}

// Paths returns the paths currently watched.
func (w *Watcher) Paths() []string {
	if w.closed.Load() {
		return nil
	}
	return w.fs.WatchList()
}

// Close stops the watcher and waits for its goroutines to exit.
// Debounced events that have not been dispatched yet are discarded.
func (w *Watcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	w.cancel()

	var err error
	if w.fs != nil {
		err = w.fs.Close()
	}

	w.wg.Wait()

	return err
}

func (w *Watcher) readLoop(events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.cfg.Logger.Warn().Err(err).Msg("fsnotify error")
		}
	}
}

// pathDebouncer holds the debounced dispatch for one path, plus a trailing
// debounce that forgets the path once it has been quiet for a full window.
type pathDebouncer struct {
	dispatch func(fsnotify.Event)
	expire   func()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.cfg.wants(ev.Op) {
		return
	}

	w.mu.Lock()
	pd, ok := w.debouncers[ev.Name]
	if !ok {
		pd = &pathDebouncer{dispatch: funclimit.Debounce(w.enqueue, w.cfg.Window, w.opts...)}
		pd.expire = funclimit.DebounceFunc(func() { w.forget(ev.Name, pd) }, w.cfg.Window, funclimit.WithClock(w.cfg.Clock))
		w.debouncers[ev.Name] = pd
	}
	w.mu.Unlock()

	pd.dispatch(ev)
	pd.expire()
}

// forget drops name unless it has already been replaced by a newer debouncer.
func (w *Watcher) forget(name string, pd *pathDebouncer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debouncers[name] == pd {
		delete(w.debouncers, name)
	}
}

// enqueue runs on the debouncer's timer goroutine, or on the read loop in leading mode.
func (w *Watcher) enqueue(ev fsnotify.Event) {
	select {
	case w.queue <- ev:
	case <-w.ctx.Done():
	}
}

func (w *Watcher) dispatchLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev := <-w.queue:
			if err := wait(w.ctx, w.cfg.Limiter); err != nil {
				if w.ctx.Err() != nil {
					return
				}
				w.cfg.Logger.Warn().Err(err).Str("name", ev.Name).Msg("dispatch dropped by limiter")
				continue
			}
			if w.ctx.Err() != nil {
				return
			}

			w.cfg.Logger.Debug().Str("name", ev.Name).Stringer("op", ev.Op).Msg("dispatch")
			w.handler(ev)
		}
	}
}
