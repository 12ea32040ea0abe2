package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/tasker/app/tasker/config"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/jrazmi/tasker/sdk/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	log := logger.NewDefault(logger.WithLevel("ERROR"))

	store, closeStore, err := openStore(context.Background(), log, "TEST", config.DriverMemory)
	require.NoError(t, err)
	defer closeStore()

	assert.NoError(t, store.StatusCheck(context.Background()))
	tasks, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	log := logger.NewDefault(logger.WithLevel("ERROR"))

	_, _, err := openStore(context.Background(), log, "TEST", "sqlite")
	assert.ErrorContains(t, err, `unknown store driver "sqlite"`)
}

func TestWebHandler(t *testing.T) {
	log := logger.NewDefault(logger.WithLevel("ERROR"))
	store, closeStore, err := openStore(context.Background(), log, "TEST", config.DriverMemory)
	require.NoError(t, err)
	defer closeStore()

	handler, err := webHandler(config.Tasker{
		Build:     "test",
		ApiRoute:  "/api/v1",
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		Repositories: config.Repositories{
			Task: tasksrepo.NewRepository(log, store),
		},
		Checker: store,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"name":"A"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
