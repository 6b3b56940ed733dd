package timers

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/logging"
	"github.com/arthur-debert/settle/pkg/runner"
	"github.com/rs/zerolog"
)

// Callback runs when the timer of key fires
type Callback[K comparable] func(key K) error

// Options configures a Registry
type Options struct {
	// Context is handed to callbacks; cancelling it does not stop timers.
	Context context.Context
	// Logger defaults to the "timers" component logger.
	Logger *zerolog.Logger
}

// Registry holds at most one pending timer per key. It is safe for
// concurrent use.
type Registry[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry[K]
	closed  bool
	ctx     context.Context
	logger  zerolog.Logger
}

type entry[K comparable] struct {
	timer    *time.Timer
	callback Callback[K]
}

// New creates an empty registry
func New[K comparable](opts Options) *Registry[K] {
	logger := logging.GetLogger("timers")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Registry[K]{
		entries: make(map[K]*entry[K]),
		ctx:     ctx,
		logger:  logger,
	}
}

// Schedule arms a timer for key that calls fn after d. An existing timer for
// the same key is replaced.
func (r *Registry[K]) Schedule(key K, d time.Duration, fn Callback[K]) error {
	if fn == nil {
		return errors.New(errors.ErrInvalidInput, "timer callback cannot be nil")
	}
	if d < 0 {
		return errors.Newf(errors.ErrInvalidInput, "timer delay cannot be negative: %s", d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New(errors.ErrClosed, "timer registry is stopped")
	}
	r.arm(key, d, fn)
	return nil
}

// Touch restarts the timer of key with a new delay, keeping its callback.
// A timer that already fired is gone and reports NOT_FOUND.
func (r *Registry[K]) Touch(key K, d time.Duration) error {
	if d < 0 {
		return errors.Newf(errors.ErrInvalidInput, "timer delay cannot be negative: %s", d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New(errors.ErrClosed, "timer registry is stopped")
	}
	e, exists := r.entries[key]
	if !exists {
		return errors.Newf(errors.ErrNotFound, "no timer for key '%v'", key)
	}
	r.arm(key, d, e.callback)
	return nil
}

// arm replaces the timer of key. r.mu must be held.
func (r *Registry[K]) arm(key K, d time.Duration, fn Callback[K]) {
	if old, exists := r.entries[key]; exists {
		old.timer.Stop()
	}

	e := &entry[K]{callback: fn}
	e.timer = time.AfterFunc(d, func() { r.fire(key, e) })
	r.entries[key] = e
}

// Cancel stops the timer of key. It reports whether a timer was pending.
func (r *Registry[K]) Cancel(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.entries[key]
	if !exists {
		return false
	}
	e.timer.Stop()
	delete(r.entries, key)
	return true
}

// Has checks if a timer is pending for key
func (r *Registry[K]) Has(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.entries[key]
	return exists
}

// Len returns the number of pending timers
func (r *Registry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Keys returns the keys with a pending timer, in no particular order
func (r *Registry[K]) Keys() []K {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]K, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stop cancels every pending timer. Later calls to Schedule fail.
func (r *Registry[K]) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		e.timer.Stop()
		delete(r.entries, key)
	}
	r.closed = true
}

func (r *Registry[K]) fire(key K, e *entry[K]) {
	r.mu.Lock()
	current, exists := r.entries[key]
	if !exists || current != e {
		// Replaced or cancelled after the timer had already fired.
		r.mu.Unlock()
		return
	}
	delete(r.entries, key)
	r.mu.Unlock()

	res := runner.Run(r.ctx, func(s *runner.Scope) (struct{}, error) {
		return struct{}{}, e.callback(key)
	}, runner.WithLogger(r.logger))

	if res.IsFailure() {
		r.logger.Warn().
			Interface("key", key).
			Err(res.Err()).
			Msg("Timer callback failed")
	}
}
