package schemamigrationsmysqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/sdk/logger"
)

// Store provides database access for SchemaMigration.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

// NewStore creates a new SchemaMigration store
func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// List returns the applied migrations. A database that was never migrated
// has no schema_migrations table and yields an empty ledger.
func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return s.ledger(ctx, nil, err)
	}
	defer rows.Close()

	entities := []schemamigrationsrepo.SchemaMigration{}
	for rows.Next() {
		var m schemamigrationsrepo.SchemaMigration
		if err := rows.Scan(&m.Version, &m.Checksum, &m.AppliedAt); err != nil {
			return nil, err
		}
		entities = append(entities, m)
	}
	return s.ledger(ctx, entities, rows.Err())
}

func (s *Store) ledger(ctx context.Context, entities []schemamigrationsrepo.SchemaMigration, err error) ([]schemamigrationsrepo.SchemaMigration, error) {
	if err == nil {
		return entities, nil
	}

	err = mysqldb.HandleMySQLError(err)
	if errors.Is(err, mysqldb.ErrUndefinedTable) {
		s.log.InfoContext(ctx, "migration ledger missing, database not migrated yet")
		return []schemamigrationsrepo.SchemaMigration{}, nil
	}
	return nil, err
}
