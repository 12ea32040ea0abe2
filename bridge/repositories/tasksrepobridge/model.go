package tasksrepobridge

import (
	"time"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
)

// Task is the wire form of a task.
type Task struct {
	TaskID      int64  `json:"task_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskInput is the body accepted by create and update. Ids and timestamps
// come from the path and the store, never the body.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// MarshalToBridge converts a stored task to its wire form.
func MarshalToBridge(task tasksrepo.Task) Task {
	return Task{
		TaskID:      task.TaskID,
		Name:        task.Name,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   formatTime(task.CreatedAt),
		UpdatedAt:   formatTime(task.UpdatedAt),
	}
}

// MarshalListToBridge converts a list of stored tasks to wire form.
func MarshalListToBridge(tasks []tasksrepo.Task) []Task {
	bridgeTasks := make([]Task, len(tasks))
	for i, task := range tasks {
		bridgeTasks[i] = MarshalToBridge(task)
	}
	return bridgeTasks
}

// MarshalInputToRepository builds the task handed to Save. taskID is zero for creates.
func MarshalInputToRepository(taskID int64, input TaskInput) tasksrepo.Task {
	return tasksrepo.Task{
		TaskID:      taskID,
		Name:        input.Name,
		Description: input.Description,
		Completed:   input.Completed,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
