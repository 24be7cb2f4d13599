package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/yeschef/internal/app"
	"github.com/socialchef/yeschef/internal/config"
	"github.com/socialchef/yeschef/internal/logger"
	"github.com/socialchef/yeschef/internal/metrics"
	"github.com/socialchef/yeschef/internal/sentry"
	"github.com/socialchef/yeschef/internal/telemetry"
	"github.com/socialchef/yeschef/internal/worker"
)

const concurrency = 4

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required to run the worker")
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		headers := telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders)
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName+"-worker", cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, headers)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize logger with OTel support
	slog.SetDefault(logger.New(cfg.Env))

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName+"-worker", cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	pipeline, err := app.NewPipeline(cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	defer pipeline.Close()

	warmer := worker.NewRecipeWarmer(pipeline.Orchestrator)

	srv, err := worker.NewServer(cfg.RedisURL, concurrency)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}

	middleware := []asynq.MiddlewareFunc{worker.SentryMiddleware, worker.OTelMiddleware}
	if workerMetrics != nil {
		middleware = append(middleware, workerMetrics.Middleware)
	}
	mux := worker.NewMux(warmer.Handlers(), middleware...)

	// Run blocks until SIGINT or SIGTERM and then drains in-flight tasks.
	slog.Info("Starting worker", "concurrency", concurrency)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
