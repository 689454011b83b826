package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/logging"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	// stdout carries the JSON results, so only warnings and errors are logged.
	logging.InitLogger(max(cfg.LogLevel, slog.LevelWarn))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCommand(cfg, nil).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
