package runner

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/settle/pkg/result"
	"github.com/google/uuid"
)

// DebouncedFunc is the unit of work coalesced by a Debouncer
type DebouncedFunc[A, T any] func(s *Scope, args A) (T, error)

// Debouncer coalesces bursts of calls into one execution per window.
//
// The first call opens a window and every further call restarts its timer.
// When the window elapses without a new call, fn runs once with the
// arguments of the FIRST call of the window, and every caller of that window
// receives the same Result. Calls made while that execution is running join
// it. Once the execution completes the window state is cleared and the next
// call opens a new window.
type Debouncer[A, T any] struct {
	ctx   context.Context
	fn    DebouncedFunc[A, T]
	delay time.Duration
	opts  Options

	mu      sync.Mutex
	current *batch[A, T]
}

type batch[A, T any] struct {
	id      string
	args    A
	timer   *time.Timer
	running bool
	callers int
	done    chan struct{}
	data    T
	err     error
}

// RunDebounced returns a Debouncer for fn. ctx governs every execution.
// OnError fires once per execution; Throw applies to each caller.
func RunDebounced[A, T any](ctx context.Context, fn DebouncedFunc[A, T], delay time.Duration, opts ...Option) *Debouncer[A, T] {
	return &Debouncer[A, T]{
		ctx:   orBackground(ctx),
		fn:    fn,
		delay: delay,
		opts:  buildOptions(opts),
	}
}

// Call joins the current window (or opens one) and blocks until the shared
// outcome is available. If ctx is done first, this caller gets an abort
// failure while the execution goes on for the others.
func (d *Debouncer[A, T]) Call(ctx context.Context, args A) result.Result[T] {
	ctx = orBackground(ctx)

	d.mu.Lock()
	b := d.current
	switch {
	case b == nil:
		b = &batch[A, T]{
			id:   uuid.NewString(),
			args: args,
			done: make(chan struct{}),
		}
		d.current = b
		b.timer = time.AfterFunc(d.delay, func() { d.fire(b) })
		d.opts.Logger.Debug().Str("batch", b.id).Dur("delay", d.delay).Msg("Debounce window opened")
	case !b.running && b.timer.Stop():
		b.timer.Reset(d.delay)
	}
	b.callers++
	d.mu.Unlock()

	select {
	case <-b.done:
		if b.err != nil {
			return raise[T](&d.opts, b.err)
		}
		return result.Success(b.data)
	case <-ctx.Done():
		return raise[T](&d.opts, abortError(ctx))
	}
}

// Pending reports whether a window is open or its execution is running
func (d *Debouncer[A, T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil
}

func (d *Debouncer[A, T]) fire(b *batch[A, T]) {
	d.mu.Lock()
	b.running = true
	callers := b.callers
	d.mu.Unlock()

	d.opts.Logger.Debug().Str("batch", b.id).Int("callers", callers).Msg("Debounce window elapsed")

	s := newScope(d.ctx, 1)
	data, err := execute(s, func(s *Scope) (T, error) { return d.fn(s, b.args) }, &d.opts)
	logSettled(&d.opts, "debounce", err)
	if err != nil && d.opts.OnError != nil {
		d.opts.OnError(err)
	}

	d.mu.Lock()
	b.data, b.err = data, err
	if d.current == b {
		d.current = nil
	}
	d.mu.Unlock()
	close(b.done)
}
