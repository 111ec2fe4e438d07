package environment

import "context"

// Environment manages the lifecycle of the declared component set.
// All methods are safe for concurrent use; start/stop of a single
// component is idempotent.
type Environment interface {
	// StartAll starts every component marked start_by_default, in
	// dependency order.
	StartAll(ctx context.Context) error

	// StopAll stops every currently running component, dependents first.
	StopAll(ctx context.Context) error

	// StartComponent starts the named component after first ensuring all
	// of its transitive dependencies are running. Starting a running
	// component is a no-op.
	StartComponent(ctx context.Context, name string) error

	// StopComponent stops the named component after first stopping every
	// running component that depends on it. Stopping a stopped component
	// is a no-op.
	StopComponent(ctx context.Context, name string) error

	// IsRunning reports whether the named component is currently started.
	IsRunning(name string) bool

	// Running returns a snapshot of the names of all started components.
	Running() []string
}
