package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/tasker/app/tasker/config"
	"github.com/jrazmi/tasker/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/tasker/bridge/scaffolding/checkbridge"
	"github.com/jrazmi/tasker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/infrastructure/web"
	"github.com/jrazmi/tasker/sdk/environment"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/jrazmi/tasker/sdk/telemetry"
)

var build = "develop"
var appName = "TASKER"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
		os.Exit(1)
	}

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(appName,
		logger.WithService(appName),
		logger.WithTraceIDFn(func(ctx context.Context) string {
			if id := tel.GetTraceID(ctx); id != telemetry.NoTrace {
				return id
			}
			return ""
		}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuring logger:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// STORE //
	var storeCfg config.StoreOptions
	if err := environment.ParseEnvTags(appName, &storeCfg); err != nil {
		return fmt.Errorf("parsing store config: %w", err)
	}

	store, closeStore, err := openStore(ctx, log, appName, storeCfg.Driver)
	if err != nil {
		return err
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing store connection")
		closeStore()
	}()

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	taskRepository := tasksrepo.NewRepository(log, store)

	// WEB //
	webCfg, err := web.LoadServerConfig(appName)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	siteCfg := config.Tasker{
		Build:     build,
		ApiRoute:  webCfg.ApiRoute,
		Logger:    log,
		Telemetry: tel,
		Repositories: config.Repositories{
			Task: taskRepository,
		},
		Checker: store,
	}

	handler, err := webHandler(siteCfg)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}

	server := web.NewWebServer(webCfg,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, logger.LevelError)),
	)

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func webHandler(cfg config.Tasker) (http.Handler, error) {
	wh, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger),
			mid.Errors(cfg.Logger),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, err
	}

	checkbridge.AddHttpRoutes(wh, checkbridge.Config{
		Build:   cfg.Build,
		Log:     cfg.Logger,
		Checker: cfg.Checker,
	})

	api := wh.Group(cfg.ApiRoute)
	tasksrepobridge.AddHttpRoutes(api, tasksrepobridge.Config{
		Log:        cfg.Logger,
		Repository: cfg.Repositories.Task,
	})

	return wh, nil
}
