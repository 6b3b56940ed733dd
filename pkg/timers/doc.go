// Package timers provides a keyed registry of pending timers, such as the
// per-sender expiry of typing indicators. A Registry is owned by the
// component that coordinates the keys and is passed around explicitly;
// there is no package level state.
package timers
