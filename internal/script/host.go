package script

import "time"

// Body is a scripted block: a suite body, case body or background task.
// It receives the Host it runs under so nested hooks stay bound to the
// right execution context.
type Body func(h Host) error

// Host is the narrow capability surface scripts program against. It is
// implemented by Runner on top of the test state machine, the
// environment and the task registry; any scripting front-end (embedded
// interpreter, config-driven runner, plain Go) drives tests exclusively
// through this hook set.
type Host interface {
	// Describe runs a nested suite. The suite's exit hook always runs,
	// even when body fails; a failing suite does not abort its siblings.
	Describe(name string, body Body) error
	// Task is an alias of Describe with task-flavored output.
	Task(name string, body Body) error

	// It runs a single case, honoring the configured skip/filter
	// predicates. A failing case does not abort its siblings.
	It(name string, body Body) error
	// Step is an alias of It with step-flavored output.
	Step(name string, body Body) error

	// Assert records an assertion and continues regardless of outcome.
	Assert(success bool, message string)
	// Require records an assertion and returns an error when it failed,
	// aborting the enclosing case.
	Require(success bool, message string) error

	// Log writes a message attributed to the calling script position.
	Log(message string)

	// StartComponent and StopComponent drive the environment.
	StartComponent(name string) error
	StopComponent(name string) error

	// Spawn begins a background execution with its own fresh script
	// context and returns its task id immediately. Wait joins one id;
	// WaitAll joins in order, stopping at the first error.
	Spawn(body Body) int64
	Wait(id int64) error
	WaitAll(ids ...int64) error

	// WaitUntil polls cond until true or the timeout elapses.
	WaitUntil(cond func() (bool, error), timeout time.Duration) error

	// Sleep pauses the calling script.
	Sleep(d time.Duration)

	// Set and Get access the run-wide scratch store.
	Set(key string, value any)
	Get(key string) (any, bool)

	// Exec runs a shell command, returning its stdout. A non-zero exit
	// status is an error carrying the captured stderr.
	Exec(command string) (string, error)
}
