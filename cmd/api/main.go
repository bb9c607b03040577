package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	api "todoapp/internal/adapter/http"
	"todoapp/internal/adapter/telemetry"
	"todoapp/pkg/config"
	"todoapp/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	appLogger, err := logger.New(cfg.ServiceName)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer appLogger.Sync()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer tel.Shutdown(context.Background())

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	if err := api.StartServer(ctx, cfg, metrics, appLogger); err != nil {
		log.Fatal("Server exited with error:", err)
	}

	appLogger.Info("Shutting down gracefully...")
}
