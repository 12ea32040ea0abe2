// Package tasksmysqlstore stores tasks in MySQL.
package tasksmysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/sdk/logger"
)

var _ tasksrepo.Storer = (*Store)(nil)

const selectTask = `SELECT task_id, name, description, completed, created_at, updated_at FROM tasks`

type Store struct {
	log *logger.Logger
	db  *sql.DB
}

func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (tasksrepo.Task, error) {
	var t tasksrepo.Task
	err := row.Scan(&t.TaskID, &t.Name, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) FindAll(ctx context.Context) ([]tasksrepo.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTask+` ORDER BY task_id`)
	if err != nil {
		return nil, mysqldb.HandleMySQLError(err)
	}
	defer rows.Close()

	tasks := []tasksrepo.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mysqldb.HandleMySQLError(err)
	}
	return tasks, nil
}

func (s *Store) FindByID(ctx context.Context, taskID int64) (tasksrepo.Task, bool, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, selectTask+` WHERE task_id = ?`, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tasksrepo.Task{}, false, nil
		}
		return tasksrepo.Task{}, false, mysqldb.HandleMySQLError(err)
	}
	return t, true, nil
}

// Save locks the existing row, if any, and updates it; otherwise it inserts a
// new row under an AUTO_INCREMENT id. The stored row is read back before commit.
func (s *Store) Save(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.upsert(ctx, tx, task)
	if err != nil {
		return tasksrepo.Task{}, mysqldb.HandleMySQLError(err)
	}

	saved, err := scanTask(tx.QueryRowContext(ctx, selectTask+` WHERE task_id = ?`, id))
	if err != nil {
		return tasksrepo.Task{}, mysqldb.HandleMySQLError(err)
	}

	if err := tx.Commit(); err != nil {
		return tasksrepo.Task{}, fmt.Errorf("commit transaction: %w", err)
	}
	return saved, nil
}

func (s *Store) upsert(ctx context.Context, tx *sql.Tx, task tasksrepo.Task) (int64, error) {
	if !task.IsNew() {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE task_id = ? FOR UPDATE`, task.TaskID).Scan(&one)
		switch {
		case err == nil:
			_, err := tx.ExecContext(ctx, `UPDATE tasks
				SET name = ?, description = ?, completed = ?, updated_at = CURRENT_TIMESTAMP(6)
				WHERE task_id = ?`,
				task.Name, task.Description, task.Completed, task.TaskID)
			return task.TaskID, err
		case !errors.Is(err, sql.ErrNoRows):
			return 0, err
		}
		s.log.DebugContext(ctx, "task id unknown, inserting", "requested_id", task.TaskID)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO tasks (name, description, completed) VALUES (?, ?, ?)`,
		task.Name, task.Description, task.Completed)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// StatusCheck pings the database.
func (s *Store) StatusCheck(ctx context.Context) error {
	return mysqldb.StatusCheck(ctx, s.db)
}
