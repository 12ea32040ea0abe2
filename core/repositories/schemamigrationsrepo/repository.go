// Package schemamigrationsrepo reads the schema_migrations ledger written by
// the migration runners.
package schemamigrationsrepo

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jrazmi/tasker/sdk/logger"
)

// Storer reads applied migrations ordered by version.
type Storer interface {
	List(ctx context.Context) ([]SchemaMigration, error)
}

// Repository provides access to schemaMigration storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new SchemaMigration repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// List returns every applied migration.
func (r *Repository) List(ctx context.Context) ([]SchemaMigration, error) {
	return r.storer.List(ctx)
}

// Status pairs a migration file with its ledger entry, if any.
type Status struct {
	Version string
	Applied *SchemaMigration
}

// Pending compares the *.sql files in dir of migrations with the ledger and
// returns one Status per file in lexical order.
func (r *Repository) Pending(ctx context.Context, migrations fs.FS, dir string) ([]Status, error) {
	applied, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	byVersion := make(map[string]SchemaMigration, len(applied))
	for _, m := range applied {
		byVersion[m.Version] = m
	}

	files, err := fs.Glob(migrations, dir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migration files: %w", err)
	}

	out := make([]Status, 0, len(files))
	for _, file := range files {
		st := Status{Version: file[len(dir)+1:]}
		if m, ok := byVersion[st.Version]; ok {
			st.Applied = &m
		}
		out = append(out, st)
	}

	r.log.DebugContext(ctx, "migration status", "files", len(files), "applied", len(applied))
	return out, nil
}
