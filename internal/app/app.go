package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"request-telemetry/internal/endpoints"
	internalhttp "request-telemetry/internal/http"
	"request-telemetry/internal/monitors"
	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/clock"
	"request-telemetry/internal/shared/configs"
	"request-telemetry/internal/shared/loggers"
	"request-telemetry/internal/sinks"

	"github.com/rs/zerolog"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger *loggers.Logger
	server    *http.Server

	janitor          *samples.Janitor
	dispatcher       *sinks.Dispatcher
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	return newApp(config, os.Stdout)
}

func newApp(config *configs.Config, output io.Writer) (*App, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	notes := config.Normalize()
	mode := loggers.ParseMode(config.Log.Mode)
	clk := clock.System

	registry := samples.NewRegistry(
		samples.WithClock(clk),
		samples.WithSlowOperationThreshold(config.Telemetry.SlowOperationThreshold),
	)
	tracker := endpoints.NewTracker()

	// Sink diagnostics bypass the structured logger so a failing sink cannot
	// feed events back into itself.
	sinkLogger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str(loggers.FieldService, config.Log.Service).
		Str(loggers.FieldComponent, "sink").
		Logger()

	var (
		sink       sinks.Sink = sinks.NopSink{}
		dispatcher *sinks.Dispatcher
	)
	if config.Sink.Kind != sinks.KindNone {
		dispatcher = sinks.NewDispatcher(sinks.New(config.Sink.Kind, sinkLogger), config.Sink.Partitions, config.Sink.QueueSize, sinkLogger)
		sink = dispatcher
	}

	appLogger := loggers.New(loggers.Options{
		Level:       config.Log.Level,
		Mode:        mode,
		Service:     config.Log.Service,
		Environment: config.Log.Environment,
		Output:      output,
		Recorder:    registry,
		Sink:        sink,
		Clock:       clk,
	})

	if _, fellBack := loggers.ResolveLevel(config.Log.Level, mode); fellBack {
		appLogger.Warn("invalid log level, using mode default", loggers.Fields{
			"configured": config.Log.Level,
			"level":      appLogger.Threshold().String(),
		})
	}
	for _, note := range notes {
		appLogger.Warn("config value replaced by default", loggers.Fields{"detail": note})
	}

	janitorLogger := appLogger.Child(loggers.Fields{loggers.FieldComponent: "janitor"})
	janitor := samples.NewJanitor(registry, config.Telemetry.EvictionInterval, config.Telemetry.MetricsMaxAge, func(removed int) {
		if removed > 0 {
			janitorLogger.Debug("evicted aged samples", loggers.Fields{"removed": removed})
		}
	})

	monitoringService := monitors.NewMonitoringService(registry, tracker)

	// Initialize http router
	router := internalhttp.NewRouter(monitoringService, internalhttp.Instrumentation{
		Logger:               appLogger.Child(loggers.Fields{loggers.FieldComponent: "http"}),
		Tracker:              tracker,
		Clock:                clk,
		SlowRequestThreshold: config.Telemetry.SlowRequestThreshold,
		SkipPaths:            config.Telemetry.SkipPaths,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:     config,
		appLogger:  appLogger,
		server:     server,
		janitor:    janitor,
		dispatcher: dispatcher,
	}, nil
}

// Handler exposes the instrumented router.
func (app *App) Handler() http.Handler {
	return app.server.Handler
}

// StartBackground starts the eviction janitor and the sink dispatcher.
func (app *App) StartBackground() {
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	app.janitor.Start(app.backgroundCtx)
	if app.dispatcher != nil {
		app.dispatcher.Start(app.backgroundCtx)
	}
}

// Start starts the background workers and the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info(fmt.Sprintf("Starting request-telemetry service on port %d", app.config.Server.Port), loggers.Fields{
		"mode":            string(loggers.ParseMode(app.config.Log.Mode)),
		"logLevel":        app.appLogger.Threshold().String(),
		"metricsMaxAge":   app.config.Telemetry.MetricsMaxAge.String(),
		"sinkKind":        app.config.Sink.Kind,
		"slowOperationMs": app.config.Telemetry.SlowOperationThreshold.Milliseconds(),
	})

	app.StartBackground()

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info("Server stopped")

	// 2) Stop the janitor
	app.janitor.Stop()
	app.appLogger.Info("Janitor stopped")

	// 3) Stop the dispatcher last so shutdown logs still reach the sink
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}
	if app.backgroundCancel != nil {
		app.backgroundCancel()
	}

	return nil
}
