package script

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"samctl/internal/color"
	"samctl/internal/environment"
	"samctl/internal/harness"
	"samctl/internal/tasks"
	"samctl/pkg/logging"
)

// Runner is the standard Host implementation: it binds the test state
// machine, the environment and the task registry together and prints
// the scripted run as an indented console log.
//
// A Runner never tears the environment down itself; that is the
// caller's responsibility after the run, which also means background
// Runners created by Spawn cannot tear down shared resources when they
// finish.
type Runner struct {
	ctx      context.Context
	state    *harness.State
	env      environment.Environment
	registry *tasks.Registry
	store    *Store
	out      io.Writer
}

// Option customizes a Runner.
type Option func(*Runner)

// WithOutput redirects the console test output. Pass io.Discard to
// silence it.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithFilter sets the allow-list predicate for case paths.
func WithFilter(expr string) Option {
	return func(r *Runner) {
		r.state.SetFilter(expr)
	}
}

// WithSkip sets the deny-list predicate for case paths.
func WithSkip(expr string) Option {
	return func(r *Runner) {
		r.state.SetSkip(expr)
	}
}

// NewRunner creates a Runner over the given environment.
func NewRunner(ctx context.Context, env environment.Environment, opts ...Option) *Runner {
	r := &Runner{
		ctx:      ctx,
		state:    harness.NewState(),
		env:      env,
		registry: tasks.NewRegistry(),
		store:    NewStore(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// child derives the independent execution context for a background
// task: a fresh state machine sharing the environment, registry and
// scratch store with the parent.
func (r *Runner) child() *Runner {
	child := &Runner{
		ctx:      r.ctx,
		state:    harness.NewState(),
		env:      r.env,
		registry: r.registry,
		store:    r.store,
		out:      r.out,
	}
	return child
}

// Run executes a top-level scenario body on this Runner, converting a
// panic into an error.
func (r *Runner) Run(body Body) error {
	return r.runBody(body)
}

// State exposes the underlying state machine, e.g. for report building.
func (r *Runner) State() *harness.State {
	return r.state
}

// runBody executes a scripted block, converting a panic into an error
// so the enclosing exit hook always runs.
func (r *Runner) runBody(body Body) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("script panicked: %v", rec)
		}
	}()
	return body(r)
}

func (r *Runner) printf(indent int, format string, args ...any) {
	prefix := color.Prefix.Render(" TEST") + strings.Repeat("  ", indent+1)
	fmt.Fprintf(r.out, prefix+format, args...)
}

// Describe implements Host.
func (r *Runner) Describe(name string, body Body) error {
	return r.describe(name, body, "Testing")
}

// Task implements Host.
func (r *Runner) Task(name string, body Body) error {
	return r.describe(name, body, "Task:")
}

func (r *Runner) describe(name string, body Body, prefix string) error {
	r.state.EnterSuite(name)
	indent := r.state.Depth() - 1
	r.printf(indent, "%s %s ...\n", prefix, color.Name.Render(name))

	start := time.Now()
	err := r.runBody(body)
	outcome := r.state.ExitSuite()
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case err != nil:
		r.printf(indent, "%s %s %s: %v (%s)\n",
			prefix, color.Name.Render(name), color.Failure.Render("failed!")+" 😭", err, elapsed)
	case outcome.Skipped:
		r.printf(indent, "%s %s %s ⏭️ (no tests) (%s)\n",
			prefix, color.Name.Render(name), color.Skipped.Render("skipped!"), elapsed)
	case outcome.Errors == 0:
		r.printf(indent, "%s %s %s ✅ (%d tests passed) (%s)\n",
			prefix, color.Name.Render(name), color.Success.Render("succeeded!"), outcome.Tests, elapsed)
	default:
		r.printf(indent, "%s %s %s 😭 (%d tests failed out of %d) (%s)\n",
			prefix, color.Name.Render(name), color.Failure.Render("failed!"), outcome.Errors, outcome.Tests, elapsed)
	}
	return nil
}

// It implements Host.
func (r *Runner) It(name string, body Body) error {
	return r.it(name, body, "It")
}

// Step implements Host.
func (r *Runner) Step(name string, body Body) error {
	return r.it(name, body, "Step:")
}

func (r *Runner) it(name string, body Body, prefix string) error {
	indent := r.state.Depth()
	if r.state.EnterCase(name) {
		r.printf(indent, "%s %s ⏭️\n", prefix, color.Name.Render(name))
		return nil
	}

	r.printf(indent, "%s %s...", prefix, color.Name.Render(name))

	start := time.Now()
	err := r.runBody(body)
	outcome := r.state.ExitCase(err)
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case err != nil:
		msg := strings.ReplaceAll(err.Error(), "\n", " ")
		fmt.Fprintf(r.out, "😭: %s (%s)\n", msg, elapsed)
	case outcome.Failed:
		fmt.Fprintf(r.out, "😭 (%s)\n", elapsed)
	default:
		fmt.Fprintf(r.out, "✅ (%s)\n", elapsed)
	}

	for _, a := range outcome.FailedAssertions {
		r.printf(indent+1, "%s %s\n", color.Name.Render(a.Message), color.Failure.Render("(failed)"))
	}
	return nil
}

// Assert implements Host.
func (r *Runner) Assert(success bool, message string) {
	file, line := callerPosition()
	r.state.Record(message, success, file, line)
}

// Require implements Host.
func (r *Runner) Require(success bool, message string) error {
	file, line := callerPosition()
	r.state.Record(message, success, file, line)
	if !success {
		return fmt.Errorf("required assertion failed: %s", message)
	}
	return nil
}

func callerPosition() (string, int) {
	// Skip callerPosition and the Host method.
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown", 0
	}
	return file, line
}

// Log implements Host.
func (r *Runner) Log(message string) {
	file, line := callerPosition()
	logging.Info("Script", "%s:%d: %s", filepath.Base(file), line, message)
}

// StartComponent implements Host.
func (r *Runner) StartComponent(name string) error {
	if err := r.env.StartComponent(r.ctx, name); err != nil {
		return fmt.Errorf("failed to start component: %w", err)
	}
	return nil
}

// StopComponent implements Host.
func (r *Runner) StopComponent(name string) error {
	if err := r.env.StopComponent(r.ctx, name); err != nil {
		return fmt.Errorf("failed to stop component: %w", err)
	}
	return nil
}

// Spawn implements Host. The body runs on an independent context with
// its own suite/path state; only its error is visible to the parent, at
// join time.
func (r *Runner) Spawn(body Body) int64 {
	child := r.child()
	return r.registry.Spawn(func() error {
		return child.runBody(body)
	})
}

// Wait implements Host.
func (r *Runner) Wait(id int64) error {
	return r.registry.Join(id)
}

// WaitAll implements Host.
func (r *Runner) WaitAll(ids ...int64) error {
	return r.registry.JoinAll(ids...)
}

// WaitUntil implements Host.
func (r *Runner) WaitUntil(cond func() (bool, error), timeout time.Duration) error {
	return harness.WaitUntil(r.ctx, cond, timeout)
}

// Sleep implements Host.
func (r *Runner) Sleep(d time.Duration) {
	select {
	case <-r.ctx.Done():
	case <-time.After(d):
	}
}

// Set implements Host.
func (r *Runner) Set(key string, value any) {
	r.store.Set(key, value)
}

// Get implements Host.
func (r *Runner) Get(key string) (any, bool) {
	return r.store.Get(key)
}

// Exec implements Host.
func (r *Runner) Exec(command string) (string, error) {
	cmd := exec.CommandContext(r.ctx, "sh", "-c", command)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
