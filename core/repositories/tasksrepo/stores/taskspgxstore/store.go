// Package taskspgxstore stores tasks in PostgreSQL through a pgx pool.
package taskspgxstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/sdk/logger"
)

var _ tasksrepo.Storer = (*Store)(nil)

const taskColumns = `task_id, name, description, completed, created_at, updated_at`

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) FindAll(ctx context.Context) ([]tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY task_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return tasks, nil
}

func (s *Store) FindByID(ctx context.Context, taskID int64) (tasksrepo.Task, bool, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = @task_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return tasksrepo.Task{}, false, postgresdb.HandlePgError(err)
	}

	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tasksrepo.Task{}, false, nil
		}
		return tasksrepo.Task{}, false, postgresdb.HandlePgError(err)
	}
	return task, true, nil
}

// Save updates the row with task.TaskID when it exists, otherwise inserts a
// new row and lets the identity column choose the id.
func (s *Store) Save(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	var saved tasksrepo.Task

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		args := pgx.NamedArgs{
			"task_id":     task.TaskID,
			"name":        task.Name,
			"description": task.Description,
			"completed":   task.Completed,
		}

		if !task.IsNew() {
			rows, err := tx.Query(ctx, `UPDATE tasks
				SET name = @name,
					description = @description,
					completed = @completed,
					updated_at = NOW()
				WHERE task_id = @task_id
				RETURNING `+taskColumns, args)
			if err != nil {
				return err
			}
			saved, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
			if err == nil {
				return nil
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			s.log.DebugContext(ctx, "task id unknown, inserting", "requested_id", task.TaskID)
		}

		rows, err := tx.Query(ctx, `INSERT INTO tasks (name, description, completed)
			VALUES (@name, @description, @completed)
			RETURNING `+taskColumns, args)
		if err != nil {
			return err
		}
		saved, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
		return err
	})
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return saved, nil
}

// StatusCheck pings the database.
func (s *Store) StatusCheck(ctx context.Context) error {
	return postgresdb.StatusCheck(ctx, s.pool)
}
