// Package tasksrepo is the access point for task storage. Repository forwards
// every call to the injected Storer and returns its results and errors as is.
package tasksrepo

import (
	"context"

	"github.com/jrazmi/tasker/sdk/logger"
)

// Storer is the persistence contract a task backend must satisfy.
//
// FindAll returns tasks ordered by TaskID. FindByID reports a missing task
// with found == false and a nil error. Save inserts a task when it is new or
// its id is unknown to the store, otherwise it updates the stored record in
// place; it returns the canonical stored form.
type Storer interface {
	FindAll(ctx context.Context) ([]Task, error)
	FindByID(ctx context.Context, taskID int64) (task Task, found bool, err error)
	Save(ctx context.Context, task Task) (Task, error)
}

// Repository provides access to task storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new Task repository. storer is shared, not owned.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// List returns every stored task in store order.
func (r *Repository) List(ctx context.Context) ([]Task, error) {
	return r.storer.FindAll(ctx)
}

// GetByID returns the task with taskID. found is false when no such task exists.
func (r *Repository) GetByID(ctx context.Context, taskID int64) (Task, bool, error) {
	return r.storer.FindByID(ctx, taskID)
}

// Save persists task and returns what the store recorded, including its id.
func (r *Repository) Save(ctx context.Context, task Task) (Task, error) {
	saved, err := r.storer.Save(ctx, task)
	if err != nil {
		return Task{}, err
	}
	r.log.DebugContext(ctx, "task saved", "task_id", saved.TaskID, "new", task.IsNew())
	return saved, nil
}
