package runner

import (
	"context"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/result"
)

// Run executes fn, replays its deferred actions and returns its outcome.
// With WithThrow a failure panics with the error once cleanup has run.
func Run[T any](ctx context.Context, fn Func[T], opts ...Option) result.Result[T] {
	o := buildOptions(opts)
	s := newScope(ctx, 1)

	data, err := execute(s, fn, &o)
	logSettled(&o, "run", err)
	return settle(&o, data, err)
}

// invoke runs fn and turns a panic into an error
func invoke[T any](s *Scope, fn Func[T]) (data T, err error) {
	defer func() {
		if v := recover(); v != nil {
			var zero T
			data, err = zero, errors.Normalize(v)
		}
	}()
	return fn(s)
}

// execute is invoke followed by the LIFO replay of the scope's actions
func execute[T any](s *Scope, fn Func[T], o *Options) (T, error) {
	data, err := invoke(s, fn)
	s.registry.Flush(cleanupReporter(o))
	return data, err
}

// settle reports a failure and either returns it as a Result or raises it
func settle[T any](o *Options, data T, err error) result.Result[T] {
	if err == nil {
		return result.Success(data)
	}
	if o.OnError != nil {
		o.OnError(err)
	}
	return raise[T](o, err)
}

// raise returns the failure, or panics with it when Throw is set
func raise[T any](o *Options, err error) result.Result[T] {
	if o.Throw {
		panic(err)
	}
	return result.Failure[T](err)
}

func cleanupReporter(o *Options) func(error) {
	return func(err error) {
		o.Logger.Warn().Err(err).Msg("Deferred action failed")
		if o.OnError != nil {
			o.OnError(err)
		}
	}
}

func logSettled(o *Options, executor string, err error) {
	if err != nil {
		o.Logger.Debug().
			Str("executor", executor).
			Str("code", string(errors.GetErrorCode(err))).
			Err(err).
			Msg("Execution failed")
		return
	}
	o.Logger.Debug().Str("executor", executor).Msg("Execution succeeded")
}
