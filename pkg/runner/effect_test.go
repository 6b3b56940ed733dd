package runner_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunEffect_CleanupIsManual(t *testing.T) {
	var order []string

	effect := runner.RunEffect(context.Background(), func(s *runner.Scope) (string, error) {
		s.Defer(func() { order = append(order, "unsubscribe") })
		s.Defer(func() { order = append(order, "stop timer") })
		return "mounted", nil
	})

	require.True(t, effect.IsSuccess())
	assert.Equal(t, "mounted", effect.Data())
	assert.Empty(t, order, "cleanup waits for the caller")

	effect.Cleanup()
	assert.Equal(t, []string{"stop timer", "unsubscribe"}, order)

	effect.Cleanup()
	assert.Len(t, order, 2, "cleanup runs at most once")
}

func TestRunEffect_AutomaticCleanup(t *testing.T) {
	cleaned := false

	effect := runner.RunEffect(context.Background(), func(s *runner.Scope) (int, error) {
		s.Defer(func() { cleaned = true })
		return 1, nil
	}, runner.WithAutomaticCleanup())

	assert.True(t, cleaned)
	assert.NotPanics(t, effect.Cleanup)
}

func TestRunEffect_Failure(t *testing.T) {
	domain := stderrors.New("subscribe failed")
	cleaned := false

	effect := runner.RunEffect(context.Background(), func(s *runner.Scope) (int, error) {
		s.Defer(func() { cleaned = true })
		return 0, domain
	})

	assert.Same(t, domain, effect.Err())
	assert.False(t, cleaned)
	effect.Cleanup()
	assert.True(t, cleaned)
}

func TestRunEffect_PanicIsNormalized(t *testing.T) {
	effect := runner.RunEffect(context.Background(), func(s *runner.Scope) (int, error) {
		panic("not an error")
	})

	assert.True(t, errors.IsUnknown(effect.Err()))
}

func TestRunEffect_ThrowCleansUpFirst(t *testing.T) {
	cleaned := false

	assert.Panics(t, func() {
		runner.RunEffect(context.Background(), func(s *runner.Scope) (int, error) {
			s.Defer(func() { cleaned = true })
			return 0, stderrors.New("raise")
		}, runner.WithThrow())
	})
	assert.True(t, cleaned)
}

func TestRunEffect_CleanupFailureReported(t *testing.T) {
	observer := &errorObserver{}
	observer.On("OnError", mock.MatchedBy(errors.IsCleanup)).Once()

	effect := runner.RunEffect(context.Background(), func(s *runner.Scope) (int, error) {
		s.DeferErr(func() error { return stderrors.New("close failed") })
		return 1, nil
	}, runner.WithOnError(observer.OnError))

	effect.Cleanup()
	assert.True(t, effect.IsSuccess())
	observer.AssertExpectations(t)
}

func TestEffect_ZeroValueCleanup(t *testing.T) {
	var effect runner.Effect[int]
	assert.NotPanics(t, effect.Cleanup)
}
