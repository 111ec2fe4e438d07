// Package tasks tracks background sub-executions spawned from within a
// script. Each spawned task gets a dense integer id; a task leaves the
// registry exactly once, at the moment it is joined. Joining an unknown
// or already-joined id is a caller error, never silently ignored.
package tasks

import (
	"errors"
	"fmt"
	"sync"

	"samctl/pkg/logging"
)

// ErrUnknownTask is returned when joining an id that was never spawned
// or was already joined.
var ErrUnknownTask = errors.New("no such task")

type task struct {
	done chan struct{}
	err  error
}

// Registry assigns ids to background executions and lets callers join
// them by id.
type Registry struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[int64]*task)}
}

// Spawn begins executing body on its own goroutine and returns its
// freshly assigned id immediately. A panic inside body is recovered and
// surfaced as the task's error at join time.
func (r *Registry) Spawn(body func() error) int64 {
	t := &task{done: make(chan struct{})}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.tasks[id] = t
	r.mu.Unlock()

	go func() {
		defer close(t.done)
		defer func() {
			if rec := recover(); rec != nil {
				t.err = fmt.Errorf("task %d panicked: %v", id, rec)
			}
		}()
		t.err = body()
	}()

	logging.Debug("Tasks", "Spawned task %d", id)
	return id
}

// Join blocks until the task with the given id completes, removes it
// from the registry and returns its error, if any.
func (r *Registry) Join(id int64) error {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if ok {
		delete(r.tasks, id)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}

	<-t.done
	logging.Debug("Tasks", "Joined task %d", id)
	return t.err
}

// JoinAll joins the given ids sequentially, short-circuiting on the
// first error. Ids after a failing one stay in the registry.
func (r *Registry) JoinAll(ids ...int64) error {
	for _, id := range ids {
		if err := r.Join(id); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the number of not-yet-joined tasks.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
