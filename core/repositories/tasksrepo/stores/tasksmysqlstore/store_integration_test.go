package tasksmysqlstore_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksmysqlstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/taskstest"
	"github.com/jrazmi/tasker/infrastructure/mysqldb"
	"github.com/jrazmi/tasker/schema"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set TASKER_TEST_MYSQL_DSN to a disposable database to run these tests.
func newTestStore(t *testing.T) tasksrepo.Storer {
	t.Helper()
	return newTestStoreWithLog(t, logger.NewDefault(logger.WithLevel("ERROR")))
}

func newTestStoreWithLog(t *testing.T, log *logger.Logger) tasksrepo.Storer {
	t.Helper()

	dsn := os.Getenv("TASKER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKER_TEST_MYSQL_DSN not set (integration test)")
	}

	db, err := mysqldb.New(mysqldb.Options{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, mysqldb.Migrate(ctx, slog.New(slog.DiscardHandler), db, schema.MigrationsFS, schema.MySQLDir))

	_, err = db.ExecContext(ctx, `TRUNCATE TABLE tasks`)
	require.NoError(t, err)

	return tasksmysqlstore.NewStore(log, db)
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
}

// CURRENT_TIMESTAMP runs in the session time zone while the driver reads
// DATETIME as UTC; both must agree or stored times drift by the server offset.
func TestStore_TimestampsAreUTC(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.Save(context.Background(), tasksrepo.Task{Name: "A"})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), saved.CreatedAt, time.Minute)
	assert.WithinDuration(t, time.Now(), saved.UpdatedAt, time.Minute)
}
