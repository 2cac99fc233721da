// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All Google Tasks API calls go through this interface.
// Commands never import Google SDK directly.
//
// A Service is bound to a single task list and is created per unit of work.
// Every failure is returned as *StoreError.
type Service interface {
	// ListOpenTasks returns the open tasks of the list in API order.
	// Completed, hidden and deleted tasks are excluded.
	// Each call is a fresh fetch; results are never cached.
	ListOpenTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a new task and returns it with its durable ID.
	CreateTask(ctx context.Context, title string) (Task, error)

	// DeleteTask deletes a task by its durable ID.
	DeleteTask(ctx context.Context, taskID string) error
}
