package environment

import (
	"context"

	"samctl/internal/config"
)

// defaultNetwork is the shared network pods are attached to when the
// config does not name one.
const defaultNetwork = "samnet"

// Driver knows how to launch and terminate one resource instance of a
// single component type. Drivers do not track running state; that is the
// Manager's job.
type Driver interface {
	Launch(ctx context.Context, comp *config.Component) error
	Stop(ctx context.Context, comp *config.Component) error
}
