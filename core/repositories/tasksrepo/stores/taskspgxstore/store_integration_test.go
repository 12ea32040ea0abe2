package taskspgxstore_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/taskstest"
	"github.com/jrazmi/tasker/infrastructure/postgresdb"
	"github.com/jrazmi/tasker/schema"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set TASKER_TEST_DATABASE_URL to a disposable database to run these tests.
// The tasks table is truncated before every case.
func newTestStore(t *testing.T) tasksrepo.Storer {
	t.Helper()
	return newTestStoreWithLog(t, logger.NewDefault(logger.WithLevel("ERROR")))
}

func newTestStoreWithLog(t *testing.T, log *logger.Logger) tasksrepo.Storer {
	t.Helper()

	dbURL := os.Getenv("TASKER_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TASKER_TEST_DATABASE_URL not set (integration test)")
	}

	pool, err := postgresdb.NewTestDB(dbURL, postgresdb.WithLogger(log.Logger))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ctx := context.Background()
	require.NoError(t, postgresdb.Migrate(ctx, slog.New(slog.DiscardHandler), pool, schema.MigrationsFS, schema.PostgresDir))

	_, err = pool.Exec(ctx, `TRUNCATE tasks RESTART IDENTITY`)
	require.NoError(t, err)

	return taskspgxstore.NewStore(log, pool)
}

func TestStore_Conformance(t *testing.T) {
	taskstest.RunStorerSuite(t, newTestStore)
}

func TestStore_LogsUnknownIDInsert(t *testing.T) {
	var buf bytes.Buffer
	s := newTestStoreWithLog(t, logger.NewDefault(logger.WithOutput(&buf), logger.WithLevel("DEBUG")))

	saved, err := s.Save(context.Background(), tasksrepo.Task{TaskID: 77, Name: "A"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), saved.TaskID)
	assert.Contains(t, buf.String(), "task id unknown, inserting")
	assert.Contains(t, buf.String(), `"requested_id":77`)
}
