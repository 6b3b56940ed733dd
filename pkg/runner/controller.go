package runner

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/settle/pkg/errors"
)

// Controller is a cancellation token: a read-only signal plus the capability
// to abort it. Once aborted it stays aborted and keeps the first reason.
type Controller struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewController creates a token that is also aborted when parent is done
func NewController(parent context.Context) *Controller {
	ctx, cancel := context.WithCancelCause(orBackground(parent))
	return &Controller{ctx: ctx, cancel: cancel}
}

// Abort triggers the signal. Only the first call has an effect.
func (c *Controller) Abort(reason string) {
	c.cancel(errors.Aborted(reason))
}

// Signal returns the observable side of the token
func (c *Controller) Signal() context.Context {
	return c.ctx
}

// Aborted reports whether the signal has fired
func (c *Controller) Aborted() bool {
	return c.ctx.Err() != nil
}

// Reason returns the abort reason, or "" while active or when none was given
func (c *Controller) Reason() string {
	if !c.Aborted() {
		return ""
	}
	return errors.Reason(abortError(c.ctx))
}

func (c *Controller) abortWith(cause error) {
	c.cancel(cause)
}

func (c *Controller) release() {
	c.cancel(errors.Aborted("invocation settled"))
}

// abortError builds the abort error observed by code waiting on ctx
func abortError(ctx context.Context) error {
	cause := context.Cause(ctx)
	switch {
	case cause == nil:
		return errors.Aborted("")
	case errors.IsAborted(cause):
		return cause
	case stderrors.Is(cause, context.Canceled):
		return errors.Aborted("")
	case stderrors.Is(cause, context.DeadlineExceeded):
		return errors.Aborted("deadline exceeded")
	}

	reason := cause.Error()
	var settleErr *errors.SettleError
	if stderrors.As(cause, &settleErr) {
		reason = settleErr.Message
	}
	err := errors.Aborted(reason)
	err.Wrapped = cause
	return err
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
