package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jrazmi/tasker/sdk/environment"
)

// WebHandler routes requests to HandlerFuncs wrapped in the global middleware.
type WebHandler struct {
	mux       *http.ServeMux
	log       *slog.Logger
	telemetry Telemetry

	corsOrigins    []string
	defaultHeaders map[string]string

	globalMiddleware []Middleware
	preflights       []string
}

// HandlerOptions is the exportable configuration.
type HandlerOptions struct {
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*" separator:","`
}

// HandlerOption configures a WebHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	log              *slog.Logger
	telemetry        Telemetry
	corsOrigins      []string
	defaultHeaders   map[string]string
	globalMiddleware []Middleware
}

// WithLogging sets the logger used for response write failures.
func WithLogging(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.log = log
	}
}

// WithTelemetry sets the telemetry provider.
func WithTelemetry(tel Telemetry) HandlerOption {
	return func(o *handlerOptions) {
		o.telemetry = tel
	}
}

// WithCORS replaces the allowed CORS origins. An empty list disables CORS.
func WithCORS(origins []string) HandlerOption {
	return func(o *handlerOptions) {
		o.corsOrigins = origins
	}
}

// WithDefaultHeaders sets headers written on every response.
func WithDefaultHeaders(headers map[string]string) HandlerOption {
	return func(o *handlerOptions) {
		if o.defaultHeaders == nil {
			o.defaultHeaders = make(map[string]string)
		}
		for k, v := range headers {
			o.defaultHeaders[k] = v
		}
	}
}

// WithGlobalMiddleware appends middleware applied to every route, outermost first.
func WithGlobalMiddleware(middleware ...Middleware) HandlerOption {
	return func(o *handlerOptions) {
		o.globalMiddleware = append(o.globalMiddleware, middleware...)
	}
}

// NewWebHandlerFromEnv builds a WebHandler from PREFIX_CORS_ORIGINS and opts.
func NewWebHandlerFromEnv(prefix string, opts ...HandlerOption) (*WebHandler, error) {
	var cfg HandlerOptions
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing webhandler config: %w", err)
	}
	return NewWebHandler(cfg, opts...), nil
}

// NewWebHandler builds a WebHandler from cfg and opts.
func NewWebHandler(cfg HandlerOptions, opts ...HandlerOption) *WebHandler {
	o := &handlerOptions{
		corsOrigins:    cfg.CORSOrigins,
		defaultHeaders: make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}

	wh := &WebHandler{
		mux:              http.NewServeMux(),
		log:              o.log,
		telemetry:        o.telemetry,
		corsOrigins:      o.corsOrigins,
		defaultHeaders:   o.defaultHeaders,
		globalMiddleware: o.globalMiddleware,
	}

	// CORS runs before everything else so preflights skip logging and errors.
	if len(wh.corsOrigins) > 0 {
		wh.globalMiddleware = slices.Concat([]Middleware{wh.corsMiddleware()}, wh.globalMiddleware)
	}

	return wh
}

// Handle registers handler for method and path, wrapped in the global
// middleware followed by middleware.
func (wh *WebHandler) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	final := wh.buildHandlerChain(handler, middleware...)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wh.telemetry != nil {
			ctx = wh.telemetry.SetTraceID(ctx)
		}
		ctx = setWriter(ctx, w)
		for k, v := range wh.defaultHeaders {
			w.Header().Set(k, v)
		}

		resp := final(ctx, r)

		if err := Respond(ctx, w, resp); err != nil && wh.log != nil {
			wh.log.ErrorContext(ctx, "respond error", "error", err)
		}
	}

	wh.mux.HandleFunc(fmt.Sprintf("%s %s", strings.ToUpper(method), path), h)

	// Preflight requests need a route of their own once CORS is on.
	if len(wh.corsOrigins) > 0 && method != http.MethodOptions {
		wh.registerPreflight(path)
	}
}

// HandleRaw registers a plain http.Handler without any middleware.
func (wh *WebHandler) HandleRaw(pattern string, handler http.Handler) {
	wh.mux.Handle(pattern, handler)
}

func (wh *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wh.mux.ServeHTTP(w, r)
}

func (wh *WebHandler) buildHandlerChain(handler HandlerFunc, middleware ...Middleware) HandlerFunc {
	all := slices.Concat(wh.globalMiddleware, middleware)

	final := handler
	for i := len(all) - 1; i >= 0; i-- {
		final = all[i](final)
	}
	return final
}
