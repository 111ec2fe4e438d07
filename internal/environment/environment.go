package environment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"samctl/internal/config"
	"samctl/pkg/logging"
)

// Manager owns the set of currently running components and implements
// Environment on top of the per-type drivers. The running set is guarded
// by a single mutex; no external tool invocation happens while it is
// held.
type Manager struct {
	cfg     config.Config
	drivers map[config.ComponentType]Driver

	mu      sync.Mutex
	running map[string]bool
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDriver overrides the driver used for a component type. Used by
// tests and by callers plugging in a different container tool.
func WithDriver(t config.ComponentType, d Driver) Option {
	return func(m *Manager) {
		m.drivers[t] = d
	}
}

// NewManager creates a Manager for the given component graph. By default
// containers and pods are driven through podman and processes through
// the runtime-state directory from the config's global settings.
func NewManager(cfg config.Config, opts ...Option) *Manager {
	rt := NewPodmanRuntime()

	stateDir := cfg.Global.RuntimeDir
	if stateDir == "" {
		stateDir = DefaultStateDir()
	}

	m := &Manager{
		cfg: cfg,
		drivers: map[config.ComponentType]Driver{
			config.TypeContainer: newContainerDriver(rt),
			config.TypePod:       newPodDriver(rt),
			config.TypeProcess:   newProcessDriver(stateDir),
		},
		running: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsRunning implements Environment.
func (m *Manager) IsRunning(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running[name]
}

// Running implements Environment.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.running))
	for name := range m.running {
		names = append(names, name)
	}
	return names
}

// depsRunning reports whether every dependency of comp is started.
func (m *Manager) depsRunning(comp *config.Component) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dep := range comp.Dependencies {
		if !m.running[dep] {
			return false
		}
	}
	return true
}

// dependentsStopped reports whether no running component still depends
// on name.
func (m *Manager) dependentsStopped(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dependent := range m.cfg.Dependents(name) {
		if m.running[dependent] {
			return false
		}
	}
	return true
}

// StartComponent implements Environment. It first guarantees every
// transitive dependency is running, then launches the component itself.
func (m *Manager) StartComponent(ctx context.Context, name string) error {
	if m.cfg.GetComponent(name) == nil {
		return fmt.Errorf("%w: %s", config.ErrUnknownComponent, name)
	}

	pending := m.collectPendingDeps(name)
	if err := m.startPending(ctx, pending); err != nil {
		return err
	}
	return m.startOne(ctx, name)
}

// collectPendingDeps gathers the transitive set of not-yet-running
// dependencies of name via a work-queue traversal, deduplicated.
func (m *Manager) collectPendingDeps(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var pending []string
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		comp := m.cfg.GetComponent(current)
		if comp == nil {
			continue
		}
		for _, dep := range comp.Dependencies {
			if m.running[dep] || seen[dep] {
				continue
			}
			seen[dep] = true
			pending = append(pending, dep)
			queue = append(queue, dep)
		}
	}
	return pending
}

// startPending repeatedly scans pending and starts any component whose
// own dependencies are already running, until the set empties or a full
// scan makes no progress.
func (m *Manager) startPending(ctx context.Context, pending []string) error {
	for len(pending) > 0 {
		progress := false
		var stuck []string

		for _, name := range pending {
			comp := m.cfg.GetComponent(name)
			if comp == nil {
				return fmt.Errorf("%w: %s", config.ErrUnknownComponent, name)
			}
			if !m.depsRunning(comp) {
				stuck = append(stuck, name)
				continue
			}
			if err := m.startOne(ctx, name); err != nil {
				return err
			}
			progress = true
		}

		pending = stuck
		if !progress && len(pending) > 0 {
			return &CycleError{Op: "start", Remaining: pending}
		}
	}
	return nil
}

// startOne launches a single component, assuming its dependencies are
// satisfied. No-op if already running.
func (m *Manager) startOne(ctx context.Context, name string) error {
	m.mu.Lock()
	if m.running[name] {
		m.mu.Unlock()
		logging.Debug("Environment", "Component %s already running, skipping", name)
		return nil
	}
	m.mu.Unlock()

	comp := m.cfg.GetComponent(name)
	if comp == nil {
		return fmt.Errorf("%w: %s", config.ErrUnknownComponent, name)
	}
	driver, ok := m.drivers[comp.Type]
	if !ok {
		return fmt.Errorf("%w: %q (component %s)", config.ErrUnknownType, comp.Type, name)
	}

	logging.Debug("Environment", "Starting component %s", name)
	if err := driver.Launch(ctx, comp); err != nil {
		return err
	}

	m.mu.Lock()
	m.running[name] = true
	m.mu.Unlock()
	return nil
}

// StopComponent implements Environment. Every running component that
// transitively depends on name is stopped first.
func (m *Manager) StopComponent(ctx context.Context, name string) error {
	if m.cfg.GetComponent(name) == nil {
		return fmt.Errorf("%w: %s", config.ErrUnknownComponent, name)
	}
	if !m.IsRunning(name) {
		logging.Debug("Environment", "Component %s not running, skipping", name)
		return nil
	}

	pending := m.collectRunningDependents(name)
	if err := m.stopPending(ctx, pending); err != nil {
		return err
	}
	return m.stopOne(ctx, name)
}

// collectRunningDependents gathers the transitive set of running
// components that depend on name, via a work-queue traversal over
// dependents.
func (m *Manager) collectRunningDependents(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var pending []string
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, dependent := range m.cfg.Dependents(current) {
			if !m.running[dependent] || seen[dependent] {
				continue
			}
			seen[dependent] = true
			pending = append(pending, dependent)
			queue = append(queue, dependent)
		}
	}
	return pending
}

// stopPending is the stop-side fixed-point loop: stop any pending
// component whose own running dependents are all gone, repeat until
// empty or stuck.
func (m *Manager) stopPending(ctx context.Context, pending []string) error {
	for len(pending) > 0 {
		progress := false
		var stuck []string

		for _, name := range pending {
			if !m.dependentsStopped(name) {
				stuck = append(stuck, name)
				continue
			}
			if err := m.stopOne(ctx, name); err != nil {
				return err
			}
			progress = true
		}

		pending = stuck
		if !progress && len(pending) > 0 {
			return &CycleError{Op: "stop", Remaining: pending}
		}
	}
	return nil
}

// stopOne terminates a single component. No-op if not running.
func (m *Manager) stopOne(ctx context.Context, name string) error {
	m.mu.Lock()
	if !m.running[name] {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	comp := m.cfg.GetComponent(name)
	if comp == nil {
		return fmt.Errorf("%w: %s", config.ErrUnknownComponent, name)
	}
	driver, ok := m.drivers[comp.Type]
	if !ok {
		return fmt.Errorf("%w: %q (component %s)", config.ErrUnknownType, comp.Type, name)
	}

	logging.Debug("Environment", "Stopping component %s", name)
	if err := driver.Stop(ctx, comp); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.running, name)
	m.mu.Unlock()
	return nil
}

// StartAll implements Environment: the fixed-point start loop seeded
// from the start_by_default components and their transitive
// dependencies.
func (m *Manager) StartAll(ctx context.Context) error {
	logging.Info("Environment", "Starting environment...")
	started := time.Now()

	seen := make(map[string]bool)
	var pending []string
	for _, name := range m.cfg.DefaultComponents() {
		if m.IsRunning(name) {
			continue
		}
		if !seen[name] {
			seen[name] = true
			pending = append(pending, name)
		}
		for _, dep := range m.collectPendingDeps(name) {
			if !seen[dep] {
				seen[dep] = true
				pending = append(pending, dep)
			}
		}
	}

	if err := m.startPending(ctx, pending); err != nil {
		return err
	}

	logging.Info("Environment", "Environment started successfully in %s",
		time.Since(started).Round(time.Millisecond))
	return nil
}

// StopAll implements Environment: stops the full running set in reverse
// dependency order, then sweeps away all declared pods so no shared
// network namespaces linger.
func (m *Manager) StopAll(ctx context.Context) error {
	logging.Info("Environment", "Stopping environment...")
	started := time.Now()

	if err := m.stopPending(ctx, m.Running()); err != nil {
		return err
	}

	for i := range m.cfg.Components {
		comp := &m.cfg.Components[i]
		if comp.Type != config.TypePod {
			continue
		}
		logging.Debug("Environment", "Removing pod %s", comp.Name)
		if err := m.drivers[config.TypePod].Stop(ctx, comp); err != nil {
			return err
		}
	}

	logging.Info("Environment", "Environment stopped successfully in %s",
		time.Since(started).Round(time.Millisecond))
	return nil
}
