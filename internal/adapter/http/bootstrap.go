package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"todoapp/internal/adapter/http/routes"
	"todoapp/internal/adapter/telemetry"
	"todoapp/pkg/config"
	"todoapp/pkg/logger"
)

// StartServer runs the API until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, cfg *config.AppConfig, metrics *telemetry.AppMetrics, log *logger.Logger) error {
	container, err := NewContainer(ctx, cfg, log)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouter(routes.HandlersConfig{
		TodoHandler: container.TodoHandler,
	}, metrics, log, cfg)

	slog.Info("server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database_driver", cfg.DatabaseDriver,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"cache_enabled", cfg.CacheEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
