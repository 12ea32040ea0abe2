// Package config holds the settings and shared dependencies of the tasker service.
package config

import (
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/jrazmi/tasker/sdk/telemetry"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// StoreOptions selects the task store backend.
type StoreOptions struct {
	Driver string `env:"STORE_DRIVER" default:"postgres"`
}

// Repositories represents the repositories this instance of tasker serves.
type Repositories struct {
	Task *tasksrepo.Repository
}

// Tasker is the overall configuration for the tasker application.
type Tasker struct {
	Build     string
	ApiRoute  string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry

	Repositories Repositories
	Checker      StatusChecker
}
