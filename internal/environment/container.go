package environment

import (
	"context"
	"fmt"

	"samctl/internal/config"
	"samctl/pkg/logging"
)

// containerDriver launches a component as a single isolated container.
type containerDriver struct {
	rt Runtime
}

func newContainerDriver(rt Runtime) *containerDriver {
	return &containerDriver{rt: rt}
}

func (d *containerDriver) Launch(ctx context.Context, comp *config.Component) error {
	args := []string{"run", "-d", "--replace", "--name", comp.Name}

	for _, vol := range comp.Volumes {
		args = append(args, "-v", fmt.Sprintf("%s:%s:z", vol.Host, vol.Container))
	}
	for _, env := range comp.Environment {
		args = append(args, "-e", env)
	}
	if comp.Network != "" {
		args = append(args, fmt.Sprintf("--network=%s", comp.Network))
	}
	for _, port := range comp.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", port.Host, port.Container))
	}
	if comp.Entrypoint != "" {
		args = append(args, "--entrypoint", comp.Entrypoint)
	}

	args = append(args, comp.Image)
	args = append(args, comp.Command...)

	if _, stderr, err := d.rt.Run(ctx, args...); err != nil {
		return &DriverError{Component: comp.Name, Output: stderr, Err: err}
	}

	logging.Debug("Container", "Launched container %s", comp.Name)
	return nil
}

func (d *containerDriver) Stop(ctx context.Context, comp *config.Component) error {
	if _, stderr, err := d.rt.Run(ctx, "rm", "-f", "-t=0", comp.Name); err != nil {
		return &DriverError{Component: comp.Name, Output: stderr, Err: err}
	}

	logging.Debug("Container", "Removed container %s", comp.Name)
	return nil
}
