package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrazmi/tasker/app/tooling/commands"
	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo/stores/schemamigrationsmysqlstore"
	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo/stores/schemamigrationspgxstore"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/schema"
	"github.com/jrazmi/tasker/sdk/environment"
	"github.com/jrazmi/tasker/sdk/logger"
)

var build = "develop"
var appName = "TOOLING"

type toolingOptions struct {
	Driver string `env:"STORE_DRIVER" default:"postgres"`
}

func processCommands(ctx context.Context, log *logger.Logger, command string, driver string) error {
	switch command {
	case "migrate":
		log.InfoContext(ctx, "running migration", "driver", driver)
		err := withDatabase(ctx, log, driver, database{
			postgres: func(pg *pgxpool.Pool) error { return commands.MigratePostgres(ctx, log.Logger, pg) },
			mysql:    func(db *sql.DB) error { return commands.MigrateMySQL(ctx, log.Logger, db) },
		})
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil

	case "status":
		err := withDatabase(ctx, log, driver, database{
			postgres: func(pg *pgxpool.Pool) error {
				repo := schemamigrationsrepo.NewRepository(log, schemamigrationspgxstore.NewStore(log, pg))
				return commands.Status(ctx, os.Stdout, repo, schema.PostgresDir)
			},
			mysql: func(db *sql.DB) error {
				repo := schemamigrationsrepo.NewRepository(log, schemamigrationsmysqlstore.NewStore(log, db))
				return commands.Status(ctx, os.Stdout, repo, schema.MySQLDir)
			},
		})
		if err != nil {
			return fmt.Errorf("status failed: %w", err)
		}
		return nil

	default:
		printHelp()
		return nil
	}
}

// database holds the per-driver body of a command.
type database struct {
	postgres func(*pgxpool.Pool) error
	mysql    func(*sql.DB) error
}

func withDatabase(ctx context.Context, log *logger.Logger, driver string, fn database) error {
	switch driver {
	case "postgres":
		pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger), postgresdb.WithLogQueries(true))
		if err != nil {
			return fmt.Errorf("configuring postgres support: %w", err)
		}
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing database connection")
			pg.Close()
		}()
		return fn.postgres(pg)

	case "mysql":
		db, err := mysqldb.NewFromEnv(appName)
		if err != nil {
			return fmt.Errorf("configuring mysql support: %w", err)
		}
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing database connection")
			db.Close()
		}()
		return fn.mysql(db)

	default:
		return fmt.Errorf("store driver %q has no migrations", driver)
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  migrate        - create the schema in the database selected by TOOLING_STORE_DRIVER (postgres, mysql)")
	fmt.Println("  status         - list embedded migrations and when each was applied")
	fmt.Println("  help           - show this message")
	fmt.Println()
	fmt.Println("Use 'go run app/tooling/main.go <command>'.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "" || command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	var cfg toolingOptions
	if err := environment.ParseEnvTags(appName, &cfg); err != nil {
		return fmt.Errorf("parsing tooling config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- processCommands(ctx, log, command, cfg.Driver)
	}()

	select {
	case err := <-done:
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		select {
		case err := <-done:
			return err
		case <-shutdownCtx.Done():
			return fmt.Errorf("shutdown timeout: %w", shutdownCtx.Err())
		}
	}
}

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
		os.Exit(1)
	}

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}
