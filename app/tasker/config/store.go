package config

import (
	"context"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
)

// StatusChecker reports whether the store can take requests.
type StatusChecker interface {
	StatusCheck(ctx context.Context) error
}

// Store is a task backend the service can run on.
type Store interface {
	tasksrepo.Storer
	StatusChecker
}
