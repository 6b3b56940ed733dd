package runner

import (
	"context"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/result"
)

// RunAbortable is Run governed by a cancellation token. The token is created
// for the invocation from ctx; a caller-owned Controller passed with
// WithController aborts it as well. If the token is already aborted, fn is
// never called and the result is an abort failure.
func RunAbortable[T any](ctx context.Context, fn Func[T], opts ...Option) result.Result[T] {
	o := buildOptions(opts)
	token := NewController(ctx)
	defer token.release()

	if owner := o.Controller; owner != nil {
		if owner.Aborted() {
			token.abortWith(context.Cause(owner.Signal()))
		} else {
			stop := context.AfterFunc(owner.Signal(), func() {
				token.abortWith(context.Cause(owner.Signal()))
			})
			defer stop()
		}
	}

	if token.Aborted() {
		var zero T
		err := abortError(token.Signal())
		logSettled(&o, "abortable", err)
		return settle(&o, zero, err)
	}

	s := newScope(token.Signal(), 1)
	data, err := execute(s, fn, &o)
	if err == nil && token.Aborted() {
		var zero T
		data, err = zero, abortError(token.Signal())
	}
	logSettled(&o, "abortable", err)
	return settle(&o, data, err)
}

// Abortable races fn against the scope's signal, or against signal when one
// is given. Whichever settles first wins:
//
//   - signal already fired: an abort error, fn is not started;
//   - signal fires first: an abort error carrying the reason;
//   - fn returns first but the signal fired meanwhile: an abort error.
//
// fn is not stopped when it loses. It receives the governing context and is
// expected to return once that context is done; its late result is dropped.
func Abortable[U any](s *Scope, fn func(ctx context.Context) (U, error), signal ...context.Context) (U, error) {
	var zero U
	governing := s.Context()
	if len(signal) > 0 && signal[0] != nil {
		governing = signal[0]
	}
	if governing.Err() != nil {
		return zero, abortError(governing)
	}

	type outcome struct {
		data U
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- outcome{err: errors.Normalize(v)}
			}
		}()
		data, err := fn(governing)
		done <- outcome{data: data, err: err}
	}()

	select {
	case out := <-done:
		if governing.Err() != nil {
			return zero, abortError(governing)
		}
		return out.data, out.err
	case <-governing.Done():
		return zero, abortError(governing)
	}
}
