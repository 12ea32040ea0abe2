package web

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jrazmi/tasker/sdk/environment"
)

// WebServer wraps http.Server with its configuration.
type WebServer struct {
	*http.Server
	Config ServerConfig
}

// ServerConfig holds web server configuration (exportable)
type ServerConfig struct {
	Port            string        `env:"PORT" default:":8080"`
	ApiRoute        string        `env:"API_ROUTE" default:"/api/v1"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"20s"`
}

type serverOptions struct {
	handler  http.Handler
	errorLog *log.Logger
	config   ServerConfig
}

// ServerOption overrides server settings after env parsing.
type ServerOption func(*serverOptions)

// WithHandler sets the HTTP handler
func WithHandler(handler http.Handler) ServerOption {
	return func(o *serverOptions) {
		o.handler = handler
	}
}

// WithErrorLog sets the logger http.Server reports connection errors to.
func WithErrorLog(errorLog *log.Logger) ServerOption {
	return func(o *serverOptions) {
		o.errorLog = errorLog
	}
}

// WithPort sets the listen address.
func WithPort(port string) ServerOption {
	return func(o *serverOptions) {
		o.config.Port = port
	}
}

// WithShutdownTimeout sets how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(timeout time.Duration) ServerOption {
	return func(o *serverOptions) {
		o.config.ShutdownTimeout = timeout
	}
}

// LoadServerConfig parses PREFIX_* server settings.
func LoadServerConfig(prefix string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parsing webserver config: %w", err)
	}
	return cfg, nil
}

// NewWebServer builds a server from cfg and opts.
func NewWebServer(cfg ServerConfig, opts ...ServerOption) *WebServer {
	o := &serverOptions{config: cfg}
	for _, opt := range opts {
		opt(o)
	}

	return &WebServer{
		Server: &http.Server{
			Addr:         o.config.Port,
			Handler:      o.handler,
			ReadTimeout:  o.config.ReadTimeout,
			WriteTimeout: o.config.WriteTimeout,
			IdleTimeout:  o.config.IdleTimeout,
			ErrorLog:     o.errorLog,
		},
		Config: o.config,
	}
}
