package schemamigrationspgxstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/sdk/logger"
)

// Store provides database access for SchemaMigration.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore creates a new SchemaMigration store
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// List returns the applied migrations. A database that was never migrated
// has no schema_migrations table and yields an empty ledger.
func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	rows, err := s.pool.Query(ctx, `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return s.ledger(ctx, nil, err)
	}

	entities, err := pgx.CollectRows(rows, pgx.RowToStructByName[schemamigrationsrepo.SchemaMigration])
	return s.ledger(ctx, entities, err)
}

func (s *Store) ledger(ctx context.Context, entities []schemamigrationsrepo.SchemaMigration, err error) ([]schemamigrationsrepo.SchemaMigration, error) {
	if err == nil {
		return entities, nil
	}

	err = postgresdb.HandlePgError(err)
	if errors.Is(err, postgresdb.ErrUndefinedTable) {
		s.log.InfoContext(ctx, "migration ledger missing, database not migrated yet")
		return []schemamigrationsrepo.SchemaMigration{}, nil
	}
	return nil, err
}
