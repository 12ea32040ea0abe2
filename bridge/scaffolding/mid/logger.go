package mid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/logger"
)

// Logger writes a line when a request starts and another when it completes.
func Logger(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			start := time.Now()

			p := r.URL.Path
			if r.URL.RawQuery != "" {
				p = fmt.Sprintf("%s?%s", p, r.URL.RawQuery)
			}

			log.InfoContext(ctx, "request started", "method", r.Method, "path", p, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			log.InfoContext(ctx, "request completed", "method", r.Method, "path", p,
				"remoteaddr", r.RemoteAddr, "failed", isError(resp) != nil, "since", time.Since(start).String())

			return resp
		}
	}
}
