package commands

import (
	"context"

	"gtaskbot/internal/service"
)

// Resolver turns a positional reference from an earlier rendering into a
// deletion of the task currently at that position.
//
// Resolution re-fetches the list and deletes by durable ID, so a position
// that no longer exists is rejected instead of being passed to the store.
// It does not detect reordering: if tasks before the position were removed
// or moved since the list was shown, a different task may now occupy it.
type Resolver struct {
	svc service.Service
}

// NewResolver creates a resolver over svc.
func NewResolver(svc service.Service) *Resolver {
	return &Resolver{svc: svc}
}

// Resolve deletes the task at position in a fresh snapshot and returns it.
// Out-of-range positions yield a *ValidationError wrapping
// *StaleReferenceError and no delete call. Store failures are returned as is.
func (r *Resolver) Resolve(ctx context.Context, position int) (service.Task, error) {
	tasks, err := r.svc.ListOpenTasks(ctx)
	if err != nil {
		return service.Task{}, err
	}

	if position < 0 || position >= len(tasks) {
		return service.Task{}, &ValidationError{
			Err:  &StaleReferenceError{Position: position, Len: len(tasks)},
			Hint: "Task not found, list may have changed. Use /list to refresh.",
		}
	}

	task := tasks[position]
	if err := r.svc.DeleteTask(ctx, task.ID); err != nil {
		return service.Task{}, err
	}
	return task, nil
}
