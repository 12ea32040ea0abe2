package tasksrepo

import "time"

// Task is a unit of work tracked by the service.
//
// TaskID is assigned by the store on the first successful save; a zero TaskID
// marks a task that has never been persisted.
type Task struct {
	TaskID      int64     `db:"task_id" json:"task_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsNew reports whether the task has not been assigned an id yet.
func (t Task) IsNew() bool {
	return t.TaskID == 0
}
