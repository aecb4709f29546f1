package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/chainreaction-server/internal/app"
	"github.com/vancomm/chainreaction-server/internal/chain"
	"github.com/vancomm/chainreaction-server/internal/config"
	"github.com/vancomm/chainreaction-server/migrations"
)

func main() {
	if err := config.Load(); err != nil {
		slog.Error("unable to read .env file", slog.Any("error", err))
		os.Exit(1)
	}

	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := config.SetupEngineLog(chain.Log); err != nil {
		logger.Error("failed to set up engine log", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(logger, migrations.FS)
	if err := a.Start(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
