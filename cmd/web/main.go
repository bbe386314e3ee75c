// The web server exposes the dashboard API over the merged workbook: summary
// metrics, chart aggregates, the filtered submission table and a CSV export.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
	"github.com/BipinP21/fda-submission-tracker/internal/infrastructure"
	"github.com/BipinP21/fda-submission-tracker/internal/middleware"
	"github.com/BipinP21/fda-submission-tracker/internal/services"
	transport "github.com/BipinP21/fda-submission-tracker/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	service := services.NewDashboardService(cfg, logger)
	router := newRouter(cfg, logger, service)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting dashboard server",
			slog.String("name", config.AppName),
			slog.String("version", config.AppVersion),
			slog.Int("port", cfg.Server.Port),
			slog.String("data_dir", cfg.Data.Dir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down dashboard server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

// newRouter assembles the middleware chain and mounts the API routes.
func newRouter(cfg *config.Config, logger *slog.Logger, service *services.DashboardService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	r.Mount("/api/dashboard", transport.NewDashboardHandler(service, logger).Routes())
	r.Mount("/api/health", transport.NewHealthHandler(cfg).Routes())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
