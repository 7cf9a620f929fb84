package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"recruit-backend/internal/bootstrap"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/telemetry"
	"recruit-backend/internal/workerproc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	consumer, err := app.RequireQueue()
	if err != nil {
		telemetry.Error("worker.config_invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	runner := &workerproc.Runner{
		Consumer:        consumer,
		Processor:       app.AnalysesService,
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
	if err := runner.Run(ctx); err != nil {
		telemetry.Error("worker.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("worker.stopped", nil)
}
