// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
type Task struct {
	ID        string // durable id assigned by the backend
	Title     string
	Position  string // backend ordering key, informational only
	Completed bool
}

// StoreError reports a failed round trip to the task backend.
// Err carries a user-presentable reason.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
