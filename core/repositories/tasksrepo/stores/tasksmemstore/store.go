// Package tasksmemstore keeps tasks in process memory. It backs tests and
// STORE_DRIVER=memory; nothing survives a restart.
package tasksmemstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
)

var _ tasksrepo.Storer = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	tasks  map[int64]tasksrepo.Task
	nextID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		tasks:  make(map[int64]tasksrepo.Task),
		nextID: 1,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

// FindAll returns copies of all tasks ordered by id.
func (s *Store) FindAll(ctx context.Context) ([]tasksrepo.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]tasksrepo.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (s *Store) FindByID(ctx context.Context, taskID int64) (tasksrepo.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	return task, ok, nil
}

// Save updates an existing task or inserts a new one under the next id.
func (s *Store) Save(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	if err := ctx.Err(); err != nil {
		return tasksrepo.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.tasks[task.TaskID]; ok && !task.IsNew() {
		task.CreatedAt = existing.CreatedAt
		task.UpdatedAt = now
		s.tasks[task.TaskID] = task
		return task, nil
	}

	task.TaskID = s.nextID
	task.CreatedAt = now
	task.UpdatedAt = now
	s.nextID++
	s.tasks[task.TaskID] = task
	return task, nil
}

// StatusCheck always succeeds.
func (s *Store) StatusCheck(ctx context.Context) error {
	return nil
}
