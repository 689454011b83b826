package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/db"
	"github.com/spacesedan/sentidash/internal/logging"
	"github.com/spacesedan/sentidash/internal/monitoring"
	"github.com/spacesedan/sentidash/internal/server"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := db.OpenHistoryStore(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to open history store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	storeHealthy := &atomic.Bool{}
	go monitoring.MonitorStoreHealth(ctx, store, storeHealthy)

	service := dashboard.NewService(store, dashboard.Options{
		StripMarkdown: cfg.StripMarkdown,
		BatchWorkers:  cfg.BatchWorkers,
	})
	srv := server.NewServer(cfg.HTTPAddr, service, storeHealthy)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("[Main] Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
	slog.Info("[Main] Server stopped")
}
