package harness

import (
	"context"
	"fmt"
	"time"
)

// pollInterval is how often WaitUntil re-evaluates its condition.
const pollInterval = 100 * time.Millisecond

// TimeoutError is returned when a WaitUntil condition did not become
// true within its deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for condition after %s", e.Timeout)
}

// WaitUntil re-evaluates cond every poll interval until it returns true,
// the timeout elapses, the context is cancelled, or cond itself errors.
// An erroring condition aborts the wait immediately.
func WaitUntil(ctx context.Context, cond func() (bool, error), timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return &TimeoutError{Timeout: timeout}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
