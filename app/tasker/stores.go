package main

import (
	"context"
	"fmt"

	"github.com/jrazmi/tasker/app/tasker/config"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksmemstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksmysqlstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksredisstore"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/infrastructure/redisdb"
	"github.com/jrazmi/tasker/sdk/logger"
)

// openStore connects the backend named by driver. The returned func
// releases its connections.
func openStore(ctx context.Context, log *logger.Logger, prefix, driver string) (config.Store, func(), error) {
	switch driver {
	case config.DriverPostgres:
		pg, err := postgresdb.NewFromEnv(prefix, postgresdb.WithLogger(log.Logger))
		if err != nil {
			return nil, nil, fmt.Errorf("configuring postgres support: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "postgres")
		return taskspgxstore.NewStore(log, pg), pg.Close, nil

	case config.DriverMySQL:
		db, err := mysqldb.NewFromEnv(prefix)
		if err != nil {
			return nil, nil, fmt.Errorf("configuring mysql support: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "mysql")
		return tasksmysqlstore.NewStore(log, db), func() { db.Close() }, nil

	case config.DriverRedis:
		client, cfg, err := redisdb.NewFromEnv(prefix)
		if err != nil {
			return nil, nil, fmt.Errorf("configuring redis support: %w", err)
		}
		log.InfoContext(ctx, "init", "service", "redis", "key_prefix", cfg.KeyPrefix)
		return tasksredisstore.NewStore(log, client, cfg.KeyPrefix), func() { client.Close() }, nil

	case config.DriverMemory:
		log.WarnContext(ctx, "init", "service", "memory", "status", "tasks are not persisted")
		return tasksmemstore.NewStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
