package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePgError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "nil", err: nil, wantIs: nil},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolation, ConstraintName: "tasks_pkey"}, wantIs: ErrDBDuplicatedEntry},
		{name: "undefined table", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: undefinedTable}), wantIs: ErrUndefinedTable},
		{name: "no rows passes through", err: pgx.ErrNoRows, wantIs: pgx.ErrNoRows},
		{name: "other error passes through", err: plain, wantIs: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandlePgError(tt.err)
			if tt.wantIs == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
		})
	}
}

func TestCompactSQL(t *testing.T) {
	in := `
		SELECT task_id, name
		FROM   tasks
		WHERE  task_id IN (
			1, 2
		)`
	assert.Equal(t, "SELECT task_id, name FROM tasks WHERE task_id IN (1, 2)", compactSQL(in))
}

func TestMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"pg/002_second.sql": {Data: []byte("SELECT 2;")},
		"pg/001_first.sql":  {Data: []byte("SELECT 1;")},
		"pg/README.md":      {Data: []byte("docs")},
	}

	files, err := migrationFiles(fsys, "pg")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_first.sql", "002_second.sql"}, files)
}

type recordingTracer struct {
	starts, ends int
}

func (r *recordingTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	r.starts++
	return ctx
}

func (r *recordingTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	r.ends++
}

func TestQueryTracer(t *testing.T) {
	custom := &recordingTracer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Nil(t, queryTracer(&options{logger: log}))
	assert.Same(t, custom, queryTracer(&options{logger: log, tracer: custom}))
	assert.IsType(t, &LoggingQueryTracer{}, queryTracer(&options{logger: log, cfg: Options{LogQueries: true}}))

	combined, ok := queryTracer(&options{logger: log, tracer: custom, cfg: Options{LogQueries: true}}).(*MultiQueryTracer)
	require.True(t, ok)
	require.Len(t, combined.Tracers, 2)
	assert.IsType(t, &LoggingQueryTracer{}, combined.Tracers[0])
	assert.Same(t, custom, combined.Tracers[1])
}

func TestMultiQueryTracer_FansOut(t *testing.T) {
	a, b := &recordingTracer{}, &recordingTracer{}
	m := NewMultiQueryTracer(a, b)

	ctx := m.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	m.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, 1, a.starts)
	assert.Equal(t, 1, a.ends)
	assert.Equal(t, 1, b.starts)
	assert.Equal(t, 1, b.ends)
}
