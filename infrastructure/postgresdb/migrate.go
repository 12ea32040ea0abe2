package postgresdb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies every *.sql file in dir of migrations that has not been
// applied yet, in lexical order (001_xxx.sql before 002_xxx.sql). Applied
// files are recorded with a checksum in schema_migrations; editing an applied
// file is an error. There are no down migrations.
func Migrate(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, migrations fs.FS, dir string) error {
	if err := StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			checksum   VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	files, err := migrationFiles(migrations, dir)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, file := range files {
		if err := applyMigration(ctx, log, pool, migrations, path.Join(dir, file)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	log.InfoContext(ctx, "migrations complete", "count", len(files))
	return nil
}

func migrationFiles(migrations fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func applyMigration(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool, migrations fs.FS, file string) error {
	version := path.Base(file)

	content, err := fs.ReadFile(migrations, file)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	checksum := fmt.Sprintf("%x", sha256.Sum256(content))

	var applied string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&applied)
	switch {
	case err == nil:
		if applied != checksum {
			return fmt.Errorf("checksum mismatch: %s changed after being applied (applied %s, now %s)", version, applied, checksum)
		}
		log.DebugContext(ctx, "migration already applied", "version", version)
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("read applied checksum: %w", err)
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
		_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", version, checksum)
		return err
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "migration applied", "version", version, "checksum", checksum[:8])
	return nil
}
