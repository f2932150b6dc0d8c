// Package memory is an in-process task store.
package memory

import (
	"context"
	"sync"

	"tasklist/internal/service"
	"tasklist/internal/storage"
)

// Store keeps tasks in a slice guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	tasks []service.Task
	newID func() string
}

// New creates an empty store.
func New() *Store {
	return &Store{newID: storage.NewID}
}

func (s *Store) Create(ctx context.Context, text string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := service.Task{ID: s.newID(), Text: text}
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *Store) Update(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = upd.Apply(s.tasks[i])
			return s.tasks[i], nil
		}
	}
	return service.Task{}, storage.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
