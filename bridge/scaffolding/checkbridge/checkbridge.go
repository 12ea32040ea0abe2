// Package checkbridge serves the liveness and readiness endpoints.
package checkbridge

import (
	"context"
	"net/http"
	"time"

	"github.com/jrazmi/tasker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/logger"
)

// StatusChecker reports whether a backing service can take requests.
type StatusChecker interface {
	StatusCheck(ctx context.Context) error
}

// Config holds configuration for the check routes.
type Config struct {
	Build   string
	Log     *logger.Logger
	Checker StatusChecker
	Timeout time.Duration
}

type status struct {
	Status string `json:"status"`
	Build  string `json:"build,omitempty"`
}

// AddHttpRoutes registers /healthz and /readyz on wh.
func AddHttpRoutes(wh *web.WebHandler, cfg Config) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}

	wh.GET("/healthz", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponse(status{Status: "up", Build: cfg.Build})
	})

	wh.GET("/readyz", func(ctx context.Context, r *http.Request) web.Encoder {
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		if err := cfg.Checker.StatusCheck(ctx); err != nil {
			cfg.Log.WarnContext(ctx, "readiness", "status", "store not ready", "err", err)
			return errs.Newf(errs.Unavailable, "store not ready")
		}
		return web.NewJSONResponse(status{Status: "ok", Build: cfg.Build})
	})
}
