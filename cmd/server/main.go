package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/config"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
)

// @title           Phone Addiction-o-Meter API
// @version         1.0
// @description     Scores a 20 question phone usage questionnaire with five heuristics and an ensemble.
// @BasePath        /
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		monitoring.NewLogger(slog.LevelInfo).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(cfg.LogLevel())
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed()
	s, err := newServer(ctx, cfg, appLogger, analysis.NewLockedSource(seed))
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	s.run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Server.Port,
			"mode", cfg.Server.Mode,
			"store_assessments", cfg.Storage.StoreAssessments,
			"cache_enabled", s.cache != nil,
			"redis_enabled", s.redis.IsEnabled(),
			"seed", seed)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	s.close()

	slog.Info("Server exited")
}
