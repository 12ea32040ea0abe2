package postgresdb

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// MultiQueryTracer fans pgx trace events out to several tracers.
type MultiQueryTracer struct {
	Tracers []pgx.QueryTracer
}

func NewMultiQueryTracer(tracers ...pgx.QueryTracer) *MultiQueryTracer {
	return &MultiQueryTracer{Tracers: tracers}
}

func (m *MultiQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m.Tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m *MultiQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m.Tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

// LoggingQueryTracer logs every statement at debug level and failures at error level.
type LoggingQueryTracer struct {
	logger *slog.Logger
}

func NewLoggingQueryTracer(logger *slog.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{logger: logger}
}

var (
	collapseSpaces = regexp.MustCompile(`\s+`)
	spaceAfterOpen = regexp.MustCompile(`\(\s+`)
	spaceBeforeEnd = regexp.MustCompile(`\s+\)`)
)

// compactSQL folds a multi-line statement onto one line for logging.
func compactSQL(sql string) string {
	out := collapseSpaces.ReplaceAllString(sql, " ")
	out = spaceAfterOpen.ReplaceAllString(out, "(")
	out = spaceBeforeEnd.ReplaceAllString(out, ")")
	return strings.TrimSpace(out)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	l.logger.DebugContext(ctx, "query start",
		slog.String("sql", compactSQL(data.SQL)),
		slog.Any("args", data.Args),
	)
	return context.WithValue(ctx, queryStartKey{}, time.Now())
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	attrs := []any{slog.String("command_tag", data.CommandTag.String())}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		attrs = append(attrs, slog.Duration("elapsed", time.Since(start)))
	}

	if data.Err != nil {
		attrs = append(attrs, slog.String("error", data.Err.Error()))
		l.logger.ErrorContext(ctx, "query end", attrs...)
		return
	}

	l.logger.DebugContext(ctx, "query end", attrs...)
}
