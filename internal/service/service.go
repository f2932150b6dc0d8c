// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task store operations.
// All remote task API calls go through this interface.
// The view and commands never build HTTP requests directly.
type Service interface {
	// CreateTask creates a task with the given text.
	// Returns the server-assigned record, including its new ID.
	CreateTask(ctx context.Context, text string) (Task, error)

	// ListTasks returns the full current collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// UpdateTask sends the set fields of upd to the task addressed by id.
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (Task, error)

	// DeleteTask removes the task addressed by id.
	DeleteTask(ctx context.Context, id string) error
}
