package runner_test

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController(t *testing.T) {
	c := runner.NewController(context.Background())
	assert.False(t, c.Aborted())
	assert.Equal(t, "", c.Reason())
	assert.NoError(t, c.Signal().Err())

	c.Abort("first")
	c.Abort("second")

	assert.True(t, c.Aborted())
	assert.Equal(t, "first", c.Reason(), "the first reason is kept")
	assert.Error(t, c.Signal().Err())
}

func TestController_FollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	c := runner.NewController(parent)
	cancel()

	assert.True(t, c.Aborted())
	assert.Equal(t, "", c.Reason())
}

func TestRunAbortable_PreAborted(t *testing.T) {
	t.Run("caller_controller", func(t *testing.T) {
		c := runner.NewController(context.Background())
		c.Abort("user navigated away")

		called := false
		res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
			called = true
			return 1, nil
		}, runner.WithController(c))

		assert.False(t, called, "fn must not run on a pre-aborted token")
		require.True(t, res.IsFailure())
		assert.True(t, errors.IsAborted(res.Err()))
		assert.Equal(t, "user navigated away", errors.Reason(res.Err()))
	})

	t.Run("cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		res := runner.RunAbortable(ctx, func(s *runner.Scope) (int, error) {
			called = true
			return 1, nil
		})

		assert.False(t, called)
		assert.True(t, errors.IsAborted(res.Err()))
	})
}

func TestRunAbortable_Success(t *testing.T) {
	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (string, error) {
		return runner.Abortable(s, func(ctx context.Context) (string, error) {
			return "fetched", nil
		})
	})

	require.True(t, res.IsSuccess())
	assert.Equal(t, "fetched", res.Data())
}

func TestRunAbortable_MidFlightAbort(t *testing.T) {
	c := runner.NewController(context.Background())
	rec := &recorder{}
	var finished atomic.Bool

	go func() {
		time.Sleep(20 * time.Millisecond)
		c.Abort("stop")
	}()

	start := time.Now()
	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
		s.Defer(func() { rec.add("cleanup") })
		return runner.Abortable(s, func(ctx context.Context) (int, error) {
			// Ignores ctx on purpose: the race must still end early.
			time.Sleep(300 * time.Millisecond)
			finished.Store(true)
			return 1, nil
		})
	}, runner.WithController(c))

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	require.True(t, res.IsFailure())
	assert.True(t, errors.IsAborted(res.Err()))
	assert.Equal(t, "stop", errors.Reason(res.Err()))
	assert.Equal(t, []string{"cleanup"}, rec.list(), "cleanup runs on the cancellation path")
	assert.False(t, finished.Load(), "the losing work is not waited for")
}

func TestAbortable_LateSuccessDoesNotOverrideAbort(t *testing.T) {
	c := runner.NewController(context.Background())

	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
		return runner.Abortable(s, func(ctx context.Context) (int, error) {
			c.Abort("superseded")
			<-ctx.Done()
			return 99, nil
		})
	}, runner.WithController(c))

	require.True(t, res.IsFailure())
	assert.True(t, errors.IsAborted(res.Err()))
}

func TestRunAbortable_SuccessAfterAbortIsDiscarded(t *testing.T) {
	c := runner.NewController(context.Background())

	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
		c.Abort("late")
		<-s.Context().Done()
		return 5, nil
	}, runner.WithController(c))

	assert.True(t, errors.IsAborted(res.Err()))
	assert.Equal(t, 0, res.Data())
}

func TestAbortable_SubSignal(t *testing.T) {
	sub := runner.NewController(context.Background())
	sub.Abort("sub-operation cancelled")

	called := false
	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
		return runner.Abortable(s, func(ctx context.Context) (int, error) {
			called = true
			return 1, nil
		}, sub.Signal())
	})

	assert.False(t, called)
	assert.Equal(t, "sub-operation cancelled", errors.Reason(res.Err()))
}

func TestAbortable_ErrorsAndPanics(t *testing.T) {
	domain := stderrors.New("upstream 503")

	t.Run("error", func(t *testing.T) {
		res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
			return runner.Abortable(s, func(ctx context.Context) (int, error) {
				return 0, domain
			})
		})
		assert.Same(t, domain, res.Err())
	})

	t.Run("panic", func(t *testing.T) {
		res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
			return runner.Abortable(s, func(ctx context.Context) (int, error) {
				panic(42)
			})
		})
		assert.True(t, errors.IsUnknown(res.Err()))
	})
}

func TestAbortable_WorksInsidePlainRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := runner.Run(ctx, func(s *runner.Scope) (int, error) {
		return runner.Abortable(s, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	})

	assert.True(t, errors.IsAborted(res.Err()))
}

func TestRunAbortable_LateDeferReleasesResource(t *testing.T) {
	c := runner.NewController(context.Background())
	released := make(chan struct{})

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Abort("")
	}()

	res := runner.RunAbortable(context.Background(), func(s *runner.Scope) (int, error) {
		return runner.Abortable(s, func(ctx context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			// Acquired after the invocation already settled.
			s.Defer(func() { close(released) })
			return 1, nil
		})
	}, runner.WithController(c))

	assert.True(t, errors.IsAborted(res.Err()))
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("late deferred action never ran")
	}
}
