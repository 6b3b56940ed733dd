package runner

import (
	"context"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/result"
)

// RunTimeout races Run against a timer. When the timer fires first the
// result is a timeout failure naming the duration and the invocation's
// signal is aborted; fn itself keeps running unless it watches
// Scope.Context(). Its deferred actions run when it settles, so their
// failures reach OnError from the worker goroutine after RunTimeout has
// returned. A timeout of zero or less disables the deadline.
func RunTimeout[T any](ctx context.Context, fn Func[T], timeout time.Duration, opts ...Option) result.Result[T] {
	o := buildOptions(opts)
	ctx = orBackground(ctx)
	if timeout <= 0 {
		s := newScope(ctx, 1)
		data, err := execute(s, fn, &o)
		logSettled(&o, "timeout", err)
		return settle(&o, data, err)
	}

	token := NewController(ctx)

	type outcome struct {
		data T
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		s := newScope(token.Signal(), 1)
		data, err := execute(s, fn, &o)
		done <- outcome{data: data, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		token.release()
		logSettled(&o, "timeout", out.err)
		return settle(&o, out.data, out.err)
	case <-timer.C:
		err := errors.TimedOut(timeout)
		token.abortWith(err)
		o.Logger.Debug().Dur("timeout", timeout).Msg("Deadline elapsed before the work settled")
		return settle(&o, zero, error(err))
	case <-ctx.Done():
		err := abortError(ctx)
		token.abortWith(err)
		logSettled(&o, "timeout", err)
		return settle(&o, zero, err)
	}
}
