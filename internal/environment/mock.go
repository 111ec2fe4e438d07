package environment

import (
	"context"
	"sync"
)

// Mock is an Environment that tracks running names without touching any
// external tool. It is used by script front-ends running against no real
// environment and by tests in other packages.
type Mock struct {
	mu      sync.Mutex
	running map[string]bool

	// Calls records every operation in order, e.g. "start:db".
	Calls []string

	// Err, when set, is returned from every start/stop operation.
	Err error
}

// NewMock returns an empty mock environment.
func NewMock() *Mock {
	return &Mock{running: make(map[string]bool)}
}

func (m *Mock) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "start-all")
	return m.Err
}

func (m *Mock) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "stop-all")
	m.running = make(map[string]bool)
	return m.Err
}

func (m *Mock) StartComponent(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "start:"+name)
	if m.Err != nil {
		return m.Err
	}
	m.running[name] = true
	return nil
}

func (m *Mock) StopComponent(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "stop:"+name)
	if m.Err != nil {
		return m.Err
	}
	delete(m.running, name)
	return nil
}

func (m *Mock) IsRunning(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running[name]
}

func (m *Mock) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.running))
	for name := range m.running {
		names = append(names, name)
	}
	return names
}
