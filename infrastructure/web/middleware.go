package web

import (
	"context"
	"net/http"
	"slices"
)

func (wh *WebHandler) corsMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, r *http.Request) Encoder {
			w := GetWriter(ctx)
			if w == nil {
				return NewError("internal server error: response writer not available")
			}

			origin := r.Header.Get("Origin")
			for _, allowed := range wh.corsOrigins {
				if allowed == "*" || allowed == origin {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				return NewNoContent()
			}

			return next(ctx, r)
		}
	}
}

// registerPreflight adds an OPTIONS route for path unless one exists.
// ServeMux panics on duplicate patterns, so registrations are tracked.
func (wh *WebHandler) registerPreflight(path string) {
	if slices.Contains(wh.preflights, path) {
		return
	}
	wh.preflights = append(wh.preflights, path)

	wh.Handle(http.MethodOptions, path, func(ctx context.Context, r *http.Request) Encoder {
		return NewNoContent()
	})
}
