package mid_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/tasker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainErr struct{ msg string }

func (e plainErr) Error() string                   { return e.msg }
func (e plainErr) Encode() ([]byte, string, error) { return []byte(e.msg), "text/plain", nil }

func serve(t *testing.T, log *logger.Logger, h web.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	wh := web.NewWebHandler(web.HandlerOptions{},
		web.WithGlobalMiddleware(mid.Logger(log), mid.Errors(log), mid.Panics()),
	)
	wh.GET("/x", h)

	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x?q=1", nil))
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrors_AppErrorPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	rec := serve(t, log, func(ctx context.Context, r *http.Request) web.Encoder {
		return errs.Newf(errs.NotFound, "task 3 not found")
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{"code": "not_found", "message": "task 3 not found"}, decodeErr(t, rec))
	assert.Contains(t, buf.String(), "handled error during request")
}

func TestErrors_UnknownErrorBecomesInternal(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	rec := serve(t, log, func(ctx context.Context, r *http.Request) web.Encoder {
		return plainErr{msg: "connection reset"}
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeErr(t, rec)["message"])
	assert.Contains(t, buf.String(), "connection reset")
}

func TestErrors_InternalOnlyLogHidesMessage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	rec := serve(t, log, func(ctx context.Context, r *http.Request) web.Encoder {
		return errs.New(errs.InternalOnlyLog, errors.New("dsn password=hunter2"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, buf.String(), "hunter2")
}

func TestPanics(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	rec := serve(t, log, func(ctx context.Context, r *http.Request) web.Encoder {
		panic("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeErr(t, rec)["message"])
	assert.Contains(t, buf.String(), "PANIC [boom]")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	rec := serve(t, log, func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse("ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "request started")
	assert.Contains(t, buf.String(), "request completed")
	assert.Contains(t, buf.String(), "/x?q=1")
}
