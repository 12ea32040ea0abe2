package commands_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jrazmi/tasker/app/tooling/commands"
	"github.com/jrazmi/tasker/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/tasker/schema"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger []schemamigrationsrepo.SchemaMigration

func (l ledger) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	return l, nil
}

func TestStatus(t *testing.T) {
	log := logger.NewDefault(logger.WithLevel("ERROR"))
	applied := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	repo := schemamigrationsrepo.NewRepository(log, ledger{
		{Version: "001_create_tasks.sql", Checksum: "0123456789abcdef", AppliedAt: applied},
	})
	require.NoError(t, commands.Status(context.Background(), &buf, repo, schema.PostgresDir))

	assert.Contains(t, buf.String(), "001_create_tasks.sql")
	assert.Contains(t, buf.String(), "2025-01-02T03:04:05Z")
	assert.Contains(t, buf.String(), "01234567")
	assert.NotContains(t, buf.String(), "pending")

	buf.Reset()
	require.NoError(t, commands.Status(context.Background(), &buf, schemamigrationsrepo.NewRepository(log, ledger{}), schema.MySQLDir))
	assert.Contains(t, buf.String(), "pending")
}
