// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gtaskbot/internal/service"
)

// ErrNotFound is returned when a task ID does not exist.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
// It records every call so tests can assert on store traffic.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int

	// Calls
	ListCalls   int
	CreateCalls []string // titles
	DeleteCalls []string // task IDs

	// Error injection for testing
	ListErr   error
	CreateErr error
	DeleteErr error

	// AfterList runs between the resolver's fetch and its delete call,
	// simulating a concurrent change to the list.
	AfterList func(f *FakeService)
}

// NewFakeService creates a FakeService holding the given tasks in order.
func NewFakeService(tasks ...service.Task) *FakeService {
	f := &FakeService{}
	f.tasks = append(f.tasks, tasks...)
	return f
}

// AddTask appends an open task.
func (f *FakeService) AddTask(taskID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: taskID, Title: title})
}

// AddCompletedTask appends a completed task, which ListOpenTasks must hide.
func (f *FakeService) AddCompletedTask(taskID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: taskID, Title: title, Completed: true})
}

// RemoveTask deletes a task behind the bot's back.
func (f *FakeService) RemoveTask(taskID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(taskID)
}

// Tasks returns a copy of all stored tasks, open and completed.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListOpenTasks implements service.Service.
func (f *FakeService) ListOpenTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	if f.ListErr != nil {
		f.mu.Unlock()
		return nil, &service.StoreError{Op: "list", Err: f.ListErr}
	}
	open := []service.Task{}
	for _, t := range f.tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	hook := f.AfterList
	f.mu.Unlock()

	if hook != nil {
		hook(f)
	}
	return open, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls = append(f.CreateCalls, title)
	if f.CreateErr != nil {
		return service.Task{}, &service.StoreError{Op: "insert", Err: f.CreateErr}
	}

	f.nextID++
	task := service.Task{ID: fmt.Sprintf("fake-%d", f.nextID), Title: title}
	// Google Tasks inserts new tasks at the top of the list
	f.tasks = append([]service.Task{task}, f.tasks...)
	return task, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls = append(f.DeleteCalls, taskID)
	if f.DeleteErr != nil {
		return &service.StoreError{Op: "delete", Err: f.DeleteErr}
	}
	if !f.removeLocked(taskID) {
		return &service.StoreError{Op: "delete", Err: ErrNotFound}
	}
	return nil
}

func (f *FakeService) removeLocked(taskID string) bool {
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true
		}
	}
	return false
}
