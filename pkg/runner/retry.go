package runner

import (
	"context"
	"time"

	"github.com/arthur-debert/settle/pkg/result"
)

// RetryFunc is the unit of work run by RunRetry; attempt starts at 1
type RetryFunc[T any] func(s *Scope, attempt int) (T, error)

// RunRetry runs fn up to MaxAttempts times. Each attempt gets a fresh scope,
// and its deferred actions finish before the next attempt starts. A failure
// stops the loop when it was the last attempt or when ShouldRetry declines
// it; otherwise OnRetry is called and the loop waits for the backoff delay.
// Cancelling ctx during that wait ends the loop with an abort failure.
//
// OnError observes every failed attempt; Throw applies to the final failure.
func RunRetry[T any](ctx context.Context, fn RetryFunc[T], opts ...Option) result.Result[T] {
	o := buildOptions(opts)
	ctx = orBackground(ctx)
	policy := o.ShouldRetry
	if policy == nil {
		policy = DefaultRetryPolicy
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		s := newScope(ctx, attempt)
		data, err := execute(s, func(s *Scope) (T, error) { return fn(s, attempt) }, &o)
		if err == nil {
			o.Logger.Debug().Int("attempt", attempt).Msg("Attempt succeeded")
			return result.Success(data)
		}

		lastErr = err
		if o.OnError != nil {
			o.OnError(err)
		}

		if attempt >= o.MaxAttempts || !policy(err, attempt) {
			o.Logger.Debug().
				Int("attempt", attempt).
				Int("max_attempts", o.MaxAttempts).
				Err(err).
				Msg("Giving up")
			break
		}

		if o.OnRetry != nil {
			o.OnRetry(err, attempt)
		}

		wait := o.Backoff.Delay(o.Delay, attempt)
		o.Logger.Debug().
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("backoff", o.Backoff.String()).
			Err(err).
			Msg("Attempt failed, retrying")

		if waitErr := sleep(ctx, wait); waitErr != nil {
			lastErr = waitErr
			if o.OnError != nil {
				o.OnError(waitErr)
			}
			break
		}
	}

	return raise[T](&o, lastErr)
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return abortError(ctx)
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return abortError(ctx)
	}
}
