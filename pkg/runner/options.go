package runner

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/logging"
	"github.com/rs/zerolog"
)

// Default values applied by DefaultOptions
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = time.Second
	DefaultBackoff     = BackoffExponential

	// MaxDelay is the longest wait a Backoff returns
	MaxDelay = time.Duration(math.MaxInt64)
)

// Options configures every executor. Fields an executor does not use are
// ignored by it.
type Options struct {
	// Throw re-raises a failure as a panic carrying the error, after cleanup.
	Throw bool
	// OnError observes every failure, including deferred action failures.
	// Calls made for one invocation never overlap. Deferred actions that run
	// after a deadline (RunTimeout) or that were registered from an
	// Abortable goroutine report from their own goroutine, possibly after
	// the executor has returned.
	OnError func(error)

	// Controller is a caller-owned cancellation token for RunAbortable.
	Controller *Controller

	// AutomaticCleanup makes RunEffect replay deferred actions before returning.
	AutomaticCleanup bool

	MaxAttempts int
	Delay       time.Duration
	Backoff     Backoff
	// ShouldRetry decides whether a failed attempt is retried. Nil selects
	// DefaultRetryPolicy.
	ShouldRetry RetryPolicy
	// OnRetry is called before waiting for the next attempt.
	OnRetry func(err error, attempt int)

	Logger zerolog.Logger
}

// Option mutates Options
type Option func(*Options)

// DefaultOptions returns the options every executor starts from
func DefaultOptions() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Backoff:     DefaultBackoff,
		Logger:      logging.GetLogger("runner"),
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.OnError != nil {
		o.OnError = serialized(o.OnError)
	}
	return o
}

// serialized makes calls to fn mutually exclusive
func serialized(fn func(error)) func(error) {
	var mu sync.Mutex
	return func(err error) {
		mu.Lock()
		defer mu.Unlock()
		fn(err)
	}
}

// WithOptions replaces the option set, typically with values loaded from
// configuration. The logger is left untouched (see WithLogger) and later
// options still apply on top.
func WithOptions(base Options) Option {
	return func(o *Options) {
		logger := o.Logger
		*o = base
		o.Logger = logger
	}
}

// WithThrow makes failures panic with their error after cleanup
func WithThrow() Option {
	return func(o *Options) { o.Throw = true }
}

// WithOnError registers a failure observer
func WithOnError(fn func(error)) Option {
	return func(o *Options) { o.OnError = fn }
}

// WithController supplies a caller-owned cancellation token
func WithController(c *Controller) Option {
	return func(o *Options) { o.Controller = c }
}

// WithAutomaticCleanup makes RunEffect run deferred actions before returning
func WithAutomaticCleanup() Option {
	return func(o *Options) { o.AutomaticCleanup = true }
}

// WithMaxAttempts bounds the number of retry attempts
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithDelay sets the base backoff delay
func WithDelay(d time.Duration) Option {
	return func(o *Options) { o.Delay = d }
}

// WithBackoff selects the backoff curve
func WithBackoff(b Backoff) Option {
	return func(o *Options) { o.Backoff = b }
}

// WithShouldRetry sets the retry predicate
func WithShouldRetry(p RetryPolicy) Option {
	return func(o *Options) { o.ShouldRetry = p }
}

// WithOnRetry registers a callback invoked before each backoff wait
func WithOnRetry(fn func(err error, attempt int)) Option {
	return func(o *Options) { o.OnRetry = fn }
}

// WithLogger overrides the executor logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Backoff selects how the wait between retry attempts grows
type Backoff int

const (
	// BackoffExponential waits delay * 2^(attempt-1)
	BackoffExponential Backoff = iota
	// BackoffLinear waits delay * attempt
	BackoffLinear
)

// String returns the configuration name of the backoff
func (b Backoff) String() string {
	switch b {
	case BackoffExponential:
		return "exponential"
	case BackoffLinear:
		return "linear"
	default:
		return fmt.Sprintf("backoff(%d)", int(b))
	}
}

// ParseBackoff parses "linear" or "exponential"
func ParseBackoff(s string) (Backoff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exponential", "":
		return BackoffExponential, nil
	case "linear":
		return BackoffLinear, nil
	default:
		return BackoffExponential, errors.Newf(errors.ErrInvalidInput, "unknown backoff: %q", s)
	}
}

// Delay returns the wait after the given failed attempt (attempt >= 1).
// Waits that do not fit a time.Duration saturate at MaxDelay.
func (b Backoff) Delay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	switch b {
	case BackoffLinear:
		return scaleDelay(base, int64(attempt))
	default:
		shift := attempt - 1
		if shift > 62 {
			return scaleDelay(base, math.MaxInt64)
		}
		return scaleDelay(base, int64(1)<<uint(shift))
	}
}

func scaleDelay(base time.Duration, factor int64) time.Duration {
	if base <= 0 {
		return 0
	}
	if factor > int64(MaxDelay/base) {
		return MaxDelay
	}
	return base * time.Duration(factor)
}

// RetryPolicy decides whether the failed attempt should be retried
type RetryPolicy func(err error, attempt int) bool

// RetryAlways retries every failure, aborts and timeouts included
func RetryAlways(error, int) bool { return true }

// RetryNever never retries
func RetryNever(error, int) bool { return false }

// DefaultRetryPolicy retries domain failures but not aborts or timeouts
func DefaultRetryPolicy(err error, _ int) bool {
	return !errors.IsAborted(err) && !errors.IsTimeout(err)
}

// RetryIf returns a uniform policy from a static flag
func RetryIf(retry bool) RetryPolicy {
	if retry {
		return DefaultRetryPolicy
	}
	return RetryNever
}
