// Package telemetry carries per-request trace ids through contexts.
package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// NoTrace is reported for contexts that never had a trace id set.
const NoTrace = "00000000-0000-0000-0000-000000000000"

type Telemetry struct{}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID returns a child context carrying a fresh trace id. An id already
// present on ctx is kept.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(traceIDKey).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, uuid.NewString())
}

// WithTraceID stores an externally supplied trace id, e.g. from an X-Request-ID header.
func (t Telemetry) WithTraceID(ctx context.Context, traceID string) context.Context {
	if _, err := uuid.Parse(traceID); err != nil {
		return t.SetTraceID(ctx)
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

func (t Telemetry) GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return NoTrace
	}
	return v
}
