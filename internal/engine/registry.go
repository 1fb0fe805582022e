package engine

import (
	"context"
	"sync"

	"github.com/petrijr/transiro/pkg/api"
)

// task is a registry entry: one running effect goroutine, addressable by id
// and distinguishable by pointer identity for the removal race check.
type task struct {
	id     api.TaskID
	cancel context.CancelFunc
}

// taskRegistry tracks the running effect tasks of one runtime, at most one
// per identifier.
//
// Register and Cancel are only called from the runtime goroutine; RemoveIf
// races in from completing task goroutines, so every mutation takes the
// lock.
type taskRegistry struct {
	mu    sync.Mutex
	tasks map[api.TaskID]*task
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{
		tasks: make(map[api.TaskID]*task),
	}
}

// Register installs t under its id. An existing holder is cancelled and
// evicted first; the eviction is atomic with respect to the registry, the
// evicted task's own unwinding proceeds concurrently. Reports whether a
// previous holder was superseded.
func (r *taskRegistry) Register(t *task) bool {
	r.mu.Lock()
	prev := r.tasks[t.id]
	r.tasks[t.id] = t
	r.mu.Unlock()

	if prev != nil {
		prev.cancel()
		return true
	}
	return false
}

// RemoveIf removes the entry for t.id only if it still holds t itself. A
// task that was superseded finds a different pointer there and must not
// evict its successor.
func (r *taskRegistry) RemoveIf(t *task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.tasks[t.id]; ok && current == t {
		delete(r.tasks, t.id)
		return true
	}
	return false
}

// Cancel cancels and removes the task registered under id. Unknown ids are
// a no-op.
func (r *taskRegistry) Cancel(id api.TaskID) bool {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if ok {
		delete(r.tasks, id)
	}
	r.mu.Unlock()

	if ok {
		t.cancel()
	}
	return ok
}

// CancelAll cancels every held task, empties the registry, and returns the
// cancelled identifiers. Called on every runtime exit path so no concurrent
// work outlives the state machine.
func (r *taskRegistry) CancelAll() []api.TaskID {
	r.mu.Lock()
	tasks := make([]*task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.tasks = make(map[api.TaskID]*task)
	r.mu.Unlock()

	ids := make([]api.TaskID, 0, len(tasks))
	for _, t := range tasks {
		t.cancel()
		ids = append(ids, t.id)
	}
	return ids
}

// Len reports how many tasks are currently registered.
func (r *taskRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
