// Package service defines the backend-agnostic interface for task operations.
package service

import "errors"

// ErrNotFound is returned when the store has no task with the given ID.
var ErrNotFound = errors.New("task not found")

// Task represents a single task record.
// The identifier is assigned by the server and never set by the client.
type Task struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskUpdate holds the fields of a partial update.
// Nil fields are left untouched by the server.
type TaskUpdate struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply returns a copy of t with the set fields of u applied.
func (u TaskUpdate) Apply(t Task) Task {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	return t
}

// SetText returns an update that changes only the text.
func SetText(text string) TaskUpdate {
	return TaskUpdate{Text: &text}
}

// SetCompleted returns an update that changes only the completed flag.
func SetCompleted(completed bool) TaskUpdate {
	return TaskUpdate{Completed: &completed}
}
