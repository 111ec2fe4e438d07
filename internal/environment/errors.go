package environment

import (
	"fmt"
	"strings"
)

// CycleError is returned when the fixed-point start/stop loop makes a
// full pass over the pending components without progress. It names the
// stuck set so the offending cycle can be found in the config.
type CycleError struct {
	Op        string // "start" or "stop"
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected during %s, stuck components: %s",
		e.Op, strings.Join(e.Remaining, ", "))
}

// DriverError is returned when the external tool invocation for a
// component fails. Output carries the tool's captured stderr.
type DriverError struct {
	Component string
	Output    string
	Err       error
}

func (e *DriverError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("component %s: %v: %s", e.Component, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}
