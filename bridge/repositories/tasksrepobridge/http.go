// Package tasksrepobridge exposes the task repository over HTTP.
package tasksrepobridge

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrazmi/tasker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/logger"
)

// Config holds configuration for the Task bridge
type Config struct {
	Log        *logger.Logger
	Repository *tasksrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Task
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)

	group.GET("/tasks", b.httpList, cfg.Middleware...)
	group.GET("/tasks/{task_id}", b.httpGetByID, cfg.Middleware...)
	group.POST("/tasks", b.httpCreate, cfg.Middleware...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	tasks, err := b.taskRepository.List(ctx)
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	return web.NewJSONResponse(MarshalListToBridge(tasks))
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	taskID, perr := parseTaskID(r)
	if perr != nil {
		return perr
	}

	task, found, err := b.taskRepository.GetByID(ctx, taskID)
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	if !found {
		return errs.Newf(errs.NotFound, "task %d not found", taskID)
	}
	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input TaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	task, err := b.taskRepository.Save(ctx, MarshalInputToRepository(0, input))
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

// httpUpdate saves the body under the path id. An id the store does not
// know is inserted under a fresh id, which the response reports.
func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	taskID, perr := parseTaskID(r)
	if perr != nil {
		return perr
	}

	var input TaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	task, err := b.taskRepository.Save(ctx, MarshalInputToRepository(taskID, input))
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	if task.TaskID != taskID {
		b.log.InfoContext(ctx, "task id unknown, saved as new task", "requested_id", taskID, "task_id", task.TaskID)
	}
	return web.NewJSONResponse(MarshalToBridge(task))
}

func parseTaskID(r *http.Request) (int64, *errs.Error) {
	raw := web.Param(r, "task_id")
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Newf(errs.InvalidArgument, "invalid task_id %q", raw)
	}
	return taskID, nil
}
