package runner

import (
	"context"

	"github.com/arthur-debert/settle/pkg/deferred"
)

// Func is the unit of work run by the executors
type Func[T any] func(s *Scope) (T, error)

// Scope is handed to the work of one invocation
type Scope struct {
	ctx      context.Context
	registry *deferred.Registry
	attempt  int
}

func newScope(ctx context.Context, attempt int) *Scope {
	return &Scope{
		ctx:      orBackground(ctx),
		registry: deferred.New(),
		attempt:  attempt,
	}
}

// Defer registers a cleanup action for this invocation
func (s *Scope) Defer(fn func()) {
	if fn == nil {
		return
	}
	s.registry.Push(deferred.Func(fn))
}

// DeferErr registers a cleanup action whose error is reported via OnError
func (s *Scope) DeferErr(fn func() error) {
	s.registry.Push(fn)
}

// Context returns the signal governing this invocation
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Aborted reports whether the governing signal has fired. Long running work
// polls it between steps.
func (s *Scope) Aborted() bool {
	return s.ctx.Err() != nil
}

// Attempt returns the 1-based attempt number (always 1 outside RunRetry)
func (s *Scope) Attempt() int {
	return s.attempt
}
