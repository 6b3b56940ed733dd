package config

import (
	"context"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/runner"
)

// Config is the effective executor configuration
type Config struct {
	Run      Run      `koanf:"run"`
	Effect   Effect   `koanf:"effect"`
	Retry    Retry    `koanf:"retry"`
	Timeout  Timeout  `koanf:"timeout"`
	Debounce Debounce `koanf:"debounce"`
	Log      Log      `koanf:"log"`
}

// Run holds options shared by every executor
type Run struct {
	Throw bool `koanf:"throw"`
}

// Effect holds RunEffect options
type Effect struct {
	AutomaticCleanup bool `koanf:"automatic_cleanup"`
}

// Retry holds RunRetry options
type Retry struct {
	MaxAttempts int           `koanf:"max_attempts"`
	Delay       time.Duration `koanf:"delay"`
	Backoff     string        `koanf:"backoff"`
	ShouldRetry bool          `koanf:"should_retry"`
}

// Timeout holds the RunTimeout deadline
type Timeout struct {
	Duration time.Duration `koanf:"duration"`
}

// Debounce holds the RunDebounced window
type Debounce struct {
	Delay time.Duration `koanf:"delay"`
}

// Log holds logging options
type Log struct {
	Verbosity int `koanf:"verbosity"`
}

// Validate checks that every value is usable by the executors
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return errors.Newf(errors.ErrConfigValid, "retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts).
			WithDetail("key", "retry.max_attempts")
	}
	if c.Retry.Delay < 0 {
		return errors.Newf(errors.ErrConfigValid, "retry.delay cannot be negative: %s", c.Retry.Delay).
			WithDetail("key", "retry.delay")
	}
	if _, err := runner.ParseBackoff(c.Retry.Backoff); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid retry.backoff").
			WithDetail("key", "retry.backoff")
	}
	if c.Timeout.Duration < 0 {
		return errors.Newf(errors.ErrConfigValid, "timeout.duration cannot be negative: %s", c.Timeout.Duration).
			WithDetail("key", "timeout.duration")
	}
	if c.Debounce.Delay < 0 {
		return errors.Newf(errors.ErrConfigValid, "debounce.delay cannot be negative: %s", c.Debounce.Delay).
			WithDetail("key", "debounce.delay")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "log.verbosity cannot be negative: %d", c.Log.Verbosity).
			WithDetail("key", "log.verbosity")
	}
	return nil
}

// RunnerOptions converts the configuration into executor options. The
// configuration is expected to be valid.
func (c *Config) RunnerOptions() []runner.Option {
	backoff, _ := runner.ParseBackoff(c.Retry.Backoff)

	opts := []runner.Option{
		runner.WithMaxAttempts(c.Retry.MaxAttempts),
		runner.WithDelay(c.Retry.Delay),
		runner.WithBackoff(backoff),
		runner.WithShouldRetry(runner.RetryIf(c.Retry.ShouldRetry)),
	}
	if c.Run.Throw {
		opts = append(opts, runner.WithThrow())
	}
	if c.Effect.AutomaticCleanup {
		opts = append(opts, runner.WithAutomaticCleanup())
	}
	return opts
}

// NewDebouncer returns a Debouncer for fn whose window is debounce.delay and
// whose options come from RunnerOptions.
func NewDebouncer[A, T any](ctx context.Context, c *Config, fn runner.DebouncedFunc[A, T], opts ...runner.Option) *runner.Debouncer[A, T] {
	return runner.RunDebounced(ctx, fn, c.Debounce.Delay, append(c.RunnerOptions(), opts...)...)
}
