// Package app wires configuration into the HTTP handler shared by the
// standalone server and the Lambda entrypoint.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"coldoutreach/internal/config"
	"coldoutreach/internal/csvexport"
	"coldoutreach/internal/httpserver"
	"coldoutreach/internal/llm"
	"coldoutreach/internal/metrics"
	"coldoutreach/internal/outreach"
	"coldoutreach/internal/transport"
)

type App struct {
	Handler   http.Handler
	Metrics   *metrics.Metrics
	Generator llm.Generator
}

// New builds the router. A generator that fails to initialise does not stop
// the service: /generate/ answers 500 while /export_csv/ keeps working.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) *App {
	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)

	gen, genErr := llm.New(ctx, cfg, httpClient, logger)
	if genErr != nil {
		logger.Warn("generator unavailable", slog.String("provider", cfg.LLMProvider), slog.String("error", genErr.Error()))
	}

	return newApp(cfg, logger, gen, genErr)
}

func newApp(cfg config.Config, logger *slog.Logger, gen llm.Generator, genErr error) *App {
	m := metrics.New()

	service := outreach.NewService(outreach.ServiceDeps{
		Generator:         gen,
		GeneratorErr:      genErr,
		Logger:            logger,
		Metrics:           m,
		DefaultSenderRole: cfg.Outreach.DefaultSenderRole,
		DefaultDemoSite:   cfg.Outreach.DefaultDemoSite,
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger: logger,
		GenerateHandler: outreach.NewHandler(outreach.HandlerDeps{
			Service: service,
			Logger:  logger,
		}),
		ExportHandler: csvexport.NewHandler(csvexport.HandlerDeps{
			Logger:  logger,
			Metrics: m,
		}),
		MetricsHandler: m.Handler(),
		CORSOrigins:    cfg.CORSOrigins,
	})

	return &App{Handler: router, Metrics: m, Generator: gen}
}

// NewLogger returns the JSON logger used by both entrypoints.
func NewLogger(level string) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
