package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"todos/internal/adapter/http/routes"
	"todos/internal/core/port"
	"todos/pkg/config"
	"todos/pkg/telemetry"
)

// StartServer wires the container and serves until the listener fails or
// the returned server is shut down.
func StartServer(ctx context.Context, cfg *config.AppConfig, logger *config.AppLogger, metrics *telemetry.AppMetrics, probe port.Telemetry) (*http.Server, error) {
	container, err := NewContainer(ctx, cfg, logger, probe)

	if err != nil {
		return nil, err
	}

	router := routes.SetupRouter(routes.HandlersConfig{
		TodoHandler: container.TodoHandler,
	}, container.Verifier, metrics, logger, cfg)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	return srv, nil
}
