// Package storage defines the persistence contract behind the task server.
package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tasklist/internal/service"
)

// ErrNotFound is returned when no task has the given identifier. It is the
// same sentinel the client reports for a 404, so callers on either side of
// the wire test for one error.
var ErrNotFound = service.ErrNotFound

// Store persists tasks for the server. Implementations are safe for
// concurrent use and list tasks in creation order.
type Store interface {
	Create(ctx context.Context, text string) (service.Task, error)
	List(ctx context.Context) ([]service.Task, error)
	// Update applies the set fields of upd and returns the stored record.
	Update(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh identifier in the 24 hex digit ObjectID form the
// wire format uses for "_id".
func NewID() string {
	return primitive.NewObjectID().Hex()
}
