// Package commands implements the tooling subcommands.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/schema"
)

// migrateTimeout bounds a whole migration run.
const migrateTimeout = 5 * time.Minute

// MigratePostgres applies the embedded postgres migrations to pool.
func MigratePostgres(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	if err := postgresdb.StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("database status check failed: %w", err)
	}

	log.InfoContext(ctx, "database status check successful", "step", "running migrations")

	if err := postgresdb.Migrate(ctx, log, pool, schema.MigrationsFS, schema.PostgresDir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.InfoContext(ctx, "migrations completed successfully")
	return nil
}

// MigrateMySQL applies the embedded mysql migrations to db.
func MigrateMySQL(ctx context.Context, log *slog.Logger, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	if err := mysqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("database status check failed: %w", err)
	}

	log.InfoContext(ctx, "database status check successful", "step", "running migrations")

	if err := mysqldb.Migrate(ctx, log, db, schema.MigrationsFS, schema.MySQLDir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.InfoContext(ctx, "migrations completed successfully")
	return nil
}
