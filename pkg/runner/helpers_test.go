package runner_test

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

// errorObserver records the errors passed to OnError
type errorObserver struct {
	mock.Mock
}

func (m *errorObserver) OnError(err error) {
	m.Called(err)
}

// recorder is a goroutine-safe ordered event log
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
