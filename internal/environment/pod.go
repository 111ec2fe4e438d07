package environment

import (
	"context"
	"fmt"

	"samctl/internal/config"
	"samctl/pkg/logging"
)

// podDriver launches a component as a pod: a shared network namespace
// holding an ordered list of sub-containers.
type podDriver struct {
	rt Runtime
}

func newPodDriver(rt Runtime) *podDriver {
	return &podDriver{rt: rt}
}

// ensureNetwork creates the shared network if it does not exist yet.
func (d *podDriver) ensureNetwork(ctx context.Context) error {
	if _, _, err := d.rt.Run(ctx, "network", "exists", defaultNetwork); err == nil {
		return nil
	}

	logging.Info("Pod", "Creating network %s", defaultNetwork)
	if _, stderr, err := d.rt.Run(ctx, "network", "create", defaultNetwork); err != nil {
		return &DriverError{Component: defaultNetwork, Output: stderr, Err: err}
	}
	return nil
}

func (d *podDriver) Launch(ctx context.Context, comp *config.Component) error {
	if err := d.ensureNetwork(ctx); err != nil {
		return err
	}

	network := comp.Network
	if network == "" {
		network = defaultNetwork
	}

	args := []string{"pod", "create", "--replace", "--name", comp.Name,
		fmt.Sprintf("--network=%s", network)}
	for _, port := range comp.Ports {
		args = append(args, fmt.Sprintf("-p=%d:%d", port.Host, port.Container))
	}

	if _, stderr, err := d.rt.Run(ctx, args...); err != nil {
		return &DriverError{Component: comp.Name, Output: stderr, Err: err}
	}

	for _, ctr := range comp.Containers {
		if err := d.launchContainer(ctx, comp.Name, &ctr); err != nil {
			return err
		}
	}

	logging.Debug("Pod", "Launched pod %s with %d containers", comp.Name, len(comp.Containers))
	return nil
}

func (d *podDriver) launchContainer(ctx context.Context, podName string, ctr *config.Container) error {
	args := []string{"run", "-d", "--pod", podName, "--name", ctr.Name}

	for _, vol := range ctr.Volumes {
		args = append(args, "-v", fmt.Sprintf("%s:%s", vol.Host, vol.Container))
	}
	for _, env := range ctr.Environment {
		args = append(args, "-e", env)
	}
	if ctr.Entrypoint != "" {
		args = append(args, "--entrypoint", ctr.Entrypoint)
	}
	if ctr.Network != "" {
		args = append(args, fmt.Sprintf("--network=%s", ctr.Network))
	}

	args = append(args, ctr.Image)
	args = append(args, ctr.Command...)

	if _, stderr, err := d.rt.Run(ctx, args...); err != nil {
		return &DriverError{Component: ctr.Name, Output: stderr, Err: err}
	}
	return nil
}

// Stop force-removes the pod, which also removes its sub-containers.
func (d *podDriver) Stop(ctx context.Context, comp *config.Component) error {
	if _, stderr, err := d.rt.Run(ctx, "pod", "rm", "-f", "-t=0", comp.Name); err != nil {
		return &DriverError{Component: comp.Name, Output: stderr, Err: err}
	}

	logging.Debug("Pod", "Removed pod %s", comp.Name)
	return nil
}
