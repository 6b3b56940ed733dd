// Package deferred implements the per-invocation list of cleanup actions
// that executors replay in last-in-first-out order once the work settles.
package deferred

import (
	"sync"

	"github.com/arthur-debert/settle/pkg/errors"
)

// Action is a zero-argument cleanup callback. A returned error or a panic
// marks the action as failed.
type Action func() error

// Func adapts a callback without an error result into an Action.
func Func(fn func()) Action {
	return func() error {
		fn()
		return nil
	}
}

// Registry collects the actions of one invocation. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	actions []Action
	pushed  int
	flushed bool
	report  func(error)
}

// New creates an empty registry
func New() *Registry {
	return &Registry{}
}

// Push registers an action. Once the registry has been flushed, the action
// runs immediately and its failure goes to the reporter given to Flush.
func (r *Registry) Push(action Action) {
	if action == nil {
		return
	}

	r.mu.Lock()
	index := r.pushed
	r.pushed++
	if !r.flushed {
		r.actions = append(r.actions, action)
		r.mu.Unlock()
		return
	}
	report := r.report
	r.mu.Unlock()

	if err := runAction(action, index); err != nil && report != nil {
		report(err)
	}
}

// Len returns the number of actions waiting to run
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

// Flushed reports whether Flush has already run
func (r *Registry) Flushed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushed
}

// Flush runs every registered action, most recent first. Each failure is
// wrapped as a cleanup error, passed to report (if not nil) and returned;
// a failing action never prevents the remaining ones from running.
// Only the first call does any work.
func (r *Registry) Flush(report func(error)) []error {
	r.mu.Lock()
	if r.flushed {
		r.mu.Unlock()
		return nil
	}
	r.flushed = true
	r.report = report
	actions := r.actions
	r.actions = nil
	r.mu.Unlock()

	var failures []error
	for i := len(actions) - 1; i >= 0; i-- {
		if err := runAction(actions[i], i); err != nil {
			failures = append(failures, err)
			if report != nil {
				report(err)
			}
		}
	}
	return failures
}

func runAction(action Action, index int) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Cleanup(errors.Normalize(v), index)
		}
	}()

	if actionErr := action(); actionErr != nil {
		return errors.Cleanup(actionErr, index)
	}
	return nil
}
