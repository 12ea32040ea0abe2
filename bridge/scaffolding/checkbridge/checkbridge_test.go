package checkbridge_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/tasker/bridge/scaffolding/checkbridge"
	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
)

type checker struct{ err error }

func (c checker) StatusCheck(ctx context.Context) error { return c.err }

func newHandler(err error) *web.WebHandler {
	wh := web.NewWebHandler(web.HandlerOptions{})
	checkbridge.AddHttpRoutes(wh, checkbridge.Config{
		Build:   "test",
		Log:     logger.NewDefault(logger.WithLevel("ERROR")),
		Checker: checker{err: err},
	})
	return wh
}

func get(wh *web.WebHandler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(newHandler(errors.New("down")), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"up","build":"test"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	rec := get(newHandler(nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","build":"test"}`, rec.Body.String())

	rec = get(newHandler(errors.New("connection refused")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
