package mysqldb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Migrate applies pending *.sql files from dir in lexical order and records
// them in schema_migrations with a checksum. MySQL commits DDL implicitly, so
// a failed file may leave partial changes behind.
func Migrate(ctx context.Context, log *slog.Logger, db *sql.DB, migrations fs.FS, dir string) error {
	if err := StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) NOT NULL PRIMARY KEY,
			checksum   CHAR(64)     NOT NULL,
			applied_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations, path.Join(dir, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		checksum := fmt.Sprintf("%x", sha256.Sum256(content))

		var applied string
		err = db.QueryRowContext(ctx, "SELECT checksum FROM schema_migrations WHERE version = ?", file).Scan(&applied)
		switch {
		case err == nil:
			if applied != checksum {
				return fmt.Errorf("checksum mismatch: %s changed after being applied", file)
			}
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("read applied checksum: %w", err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES (?, ?)", file, checksum); err != nil {
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		log.InfoContext(ctx, "migration applied", "version", file, "checksum", checksum[:8])
	}

	log.InfoContext(ctx, "migrations complete", "count", len(files))
	return nil
}
