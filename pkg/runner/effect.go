package runner

import (
	"context"

	"github.com/arthur-debert/settle/pkg/deferred"
	"github.com/arthur-debert/settle/pkg/result"
)

// Effect is the outcome of RunEffect together with the handle that releases
// what the work deferred.
type Effect[T any] struct {
	result.Result[T]
	registry *deferred.Registry
	report   func(error)
}

// Cleanup replays the deferred actions, most recent first. Only the first
// call does anything.
func (e Effect[T]) Cleanup() {
	if e.registry == nil {
		return
	}
	e.registry.Flush(e.report)
}

// RunEffect runs fn like Run but leaves the deferred actions to the caller,
// for call sites that own a lifecycle (mount/unmount, start/stop). With
// WithAutomaticCleanup they run before RunEffect returns. A failure raised
// with WithThrow always runs them first.
func RunEffect[T any](ctx context.Context, fn Func[T], opts ...Option) Effect[T] {
	o := buildOptions(opts)
	s := newScope(ctx, 1)
	report := cleanupReporter(&o)

	data, err := invoke(s, fn)
	if o.AutomaticCleanup || (err != nil && o.Throw) {
		s.registry.Flush(report)
	}
	logSettled(&o, "effect", err)

	return Effect[T]{
		Result:   settle(&o, data, err),
		registry: s.registry,
		report:   report,
	}
}
