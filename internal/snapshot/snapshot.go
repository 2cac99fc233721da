// Package snapshot assigns transient positions to a fetched task list.
//
// A position is only meaningful relative to the snapshot that produced it.
// The store may reorder or remove tasks between two fetches, so positions
// must never be treated as stable keys; mutations always go through the
// durable task ID.
package snapshot

import "gtaskbot/internal/service"

// Entry pairs a task with its zero-based position in one snapshot.
type Entry struct {
	Position int
	Task     service.Task
}

// Index assigns positions 0..n-1 in sequence order. It does no filtering:
// closed tasks must already be excluded by the fetch.
func Index(tasks []service.Task) []Entry {
	entries := make([]Entry, len(tasks))
	for i, task := range tasks {
		entries[i] = Entry{Position: i, Task: task}
	}
	return entries
}
