package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jrazmi/tasker/sdk/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	tel := telemetry.NewTelemetry()

	assert.Equal(t, telemetry.NoTrace, tel.GetTraceID(context.Background()))

	ctx := tel.SetTraceID(context.Background())
	id := tel.GetTraceID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.Equal(t, id, tel.GetTraceID(tel.SetTraceID(ctx)), "existing id is kept")
}

func TestWithTraceID(t *testing.T) {
	tel := telemetry.NewTelemetry()
	supplied := uuid.NewString()

	ctx := tel.WithTraceID(context.Background(), supplied)
	assert.Equal(t, supplied, tel.GetTraceID(ctx))

	ctx = tel.WithTraceID(context.Background(), "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", tel.GetTraceID(ctx))
	assert.NotEqual(t, telemetry.NoTrace, tel.GetTraceID(ctx))
}
