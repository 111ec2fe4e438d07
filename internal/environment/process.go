package environment

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"samctl/internal/config"
	"samctl/pkg/logging"
)

// processDriver spawns a component as a bare child process. The child's
// pid is persisted under the runtime-state directory so a later Stop can
// find it, and its stdout/stderr are captured into per-component log
// files for the life of the process.
type processDriver struct {
	stateDir string
}

func newProcessDriver(stateDir string) *processDriver {
	return &processDriver{stateDir: stateDir}
}

// DefaultStateDir returns the runtime-state directory used when the
// config does not set one: $XDG_RUNTIME_DIR, falling back to the system
// temp directory.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

func (d *processDriver) pidFile(name string) string {
	return filepath.Join(d.stateDir, name+".pid")
}

func (d *processDriver) Launch(ctx context.Context, comp *config.Component) error {
	if err := os.MkdirAll(d.stateDir, 0755); err != nil {
		return &DriverError{Component: comp.Name, Err: err}
	}

	// Log files are handed to the child as its stdout/stderr directly.
	// Pipes with copy goroutines would race cmd.Wait, which closes them
	// on exit and truncates whatever is still in flight; with inherited
	// file descriptors the kernel finishes every write.
	stdout, err := d.createLogFile(comp.Name + ".stdout")
	if err != nil {
		return &DriverError{Component: comp.Name, Err: err}
	}
	stderr, err := d.createLogFile(comp.Name + ".stderr")
	if err != nil {
		stdout.Close()
		return &DriverError{Component: comp.Name, Err: err}
	}

	// The child must outlive this call, so it is deliberately not bound
	// to ctx.
	cmd := exec.Command(comp.Command[0], comp.Command[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return &DriverError{Component: comp.Name, Err: err}
	}

	pid := cmd.Process.Pid
	if err := os.WriteFile(d.pidFile(comp.Name), []byte(strconv.Itoa(pid)), 0644); err != nil {
		return &DriverError{Component: comp.Name, Err: err}
	}

	// Reap the child when it exits so it does not linger as a zombie,
	// then release the parent's handles on the log files.
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug("Process", "Component %s exited: %v", comp.Name, err)
		}
		stdout.Close()
		stderr.Close()
	}()

	logging.Debug("Process", "Launched component %s with pid %d", comp.Name, pid)
	return nil
}

func (d *processDriver) createLogFile(filename string) (*os.File, error) {
	return os.Create(filepath.Join(d.stateDir, filename))
}

func (d *processDriver) Stop(ctx context.Context, comp *config.Component) error {
	data, err := os.ReadFile(d.pidFile(comp.Name))
	if err != nil {
		return &DriverError{Component: comp.Name, Err: fmt.Errorf("reading pid file: %w", err)}
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return &DriverError{Component: comp.Name, Err: fmt.Errorf("parsing pid file: %w", err)}
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return &DriverError{Component: comp.Name, Err: err}
	}
	if err := proc.Kill(); err != nil {
		return &DriverError{Component: comp.Name, Err: fmt.Errorf("killing pid %d: %w", pid, err)}
	}

	_ = os.Remove(d.pidFile(comp.Name))

	logging.Debug("Process", "Stopped component %s (pid %d)", comp.Name, pid)
	return nil
}
