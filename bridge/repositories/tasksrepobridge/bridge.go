package tasksrepobridge

import (
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/sdk/logger"
)

// bridge provides HTTP handlers for Task operations.
type bridge struct {
	log            *logger.Logger
	taskRepository *tasksrepo.Repository
}

func newBridge(log *logger.Logger, taskRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		log:            log,
		taskRepository: taskRepository,
	}
}
