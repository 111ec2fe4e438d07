package environment

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIRuntime_CapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	rt := NewCLIRuntime("echo")
	stdout, stderr, err := rt.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
	assert.Empty(t, stderr)
}

func TestCLIRuntime_NonZeroExitIsError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	rt := NewCLIRuntime("sh")
	_, stderr, err := rt.Run(context.Background(), "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, stderr, "boom")
}
