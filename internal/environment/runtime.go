package environment

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// For mocking in tests
var execCommand = exec.CommandContext

// Runtime invokes the external container management tool. The concrete
// tool (podman, docker, ...) is a pluggable detail; drivers only issue
// abstract argument lists.
type Runtime interface {
	// Run executes the tool with the given arguments and returns the
	// captured stdout and stderr. A non-zero exit status is an error.
	Run(ctx context.Context, args ...string) (stdout string, stderr string, err error)
}

type cliRuntime struct {
	binary string
}

// NewCLIRuntime returns a Runtime that shells out to the named binary.
func NewCLIRuntime(binary string) Runtime {
	return &cliRuntime{binary: binary}
}

// NewPodmanRuntime returns the default podman-backed Runtime.
func NewPodmanRuntime() Runtime {
	return NewCLIRuntime("podman")
}

func (r *cliRuntime) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := execCommand(ctx, r.binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()

	stdoutStr := stdoutBuf.String()
	stderrStr := stderrBuf.String()

	if runErr != nil {
		return stdoutStr, stderrStr, fmt.Errorf("%s %v: %w", r.binary, args, runErr)
	}
	return stdoutStr, stderrStr, nil
}
