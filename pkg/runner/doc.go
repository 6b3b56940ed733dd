// Package runner provides the executors of settle: small wrappers that run a
// caller-supplied unit of work and always hand back a result.Result.
//
// Every executor gives the work a *Scope. Scope.Defer registers cleanup that
// runs once the work settles, most recently registered first, whether the
// work returned, failed, panicked or was cancelled. A failing cleanup action
// is reported through the OnError option and never replaces the result.
//
// The executors are:
//
//   - Run: the base executor.
//   - RunAbortable: Run plus a cancellation token (Controller) and the
//     Abortable helper that races a sub-operation against it.
//   - RunEffect: runs synchronously but hands the cleanup back to the caller.
//   - RunRetry: bounded retries with linear or exponential backoff.
//   - RunTimeout: races the work against a deadline.
//   - RunDebounced: coalesces bursts of calls into one execution.
//
// # Cancellation is cooperative
//
// Aborting a Controller, a timeout firing or a context being cancelled only
// changes what the waiting code observes: the awaited call returns an abort
// (or timeout) error immediately. Work that has already started keeps
// running until it returns on its own. Long running work must watch
// Scope.Context() and stop itself, and must release anything it acquires
// after the abort through Scope.Defer, which runs late registrations
// immediately.
package runner
