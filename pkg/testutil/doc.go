// Package testutil provides utilities for testing settle components.
//
// Tests that load configuration or set up logging must not see the user's
// own files: IsolatedEnv points every XDG directory settle reads at a
// per-test temporary directory.
package testutil
