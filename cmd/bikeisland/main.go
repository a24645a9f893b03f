package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sadman95/bike-island-server/internal/app"
	"github.com/Sadman95/bike-island-server/internal/config"
	"github.com/Sadman95/bike-island-server/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("", os.Stderr).Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("app", "error", err)
		os.Exit(1)
	}
}
