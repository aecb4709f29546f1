package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vancomm/chainreaction-server/internal/config"
	"github.com/vancomm/chainreaction-server/internal/database"
	"github.com/vancomm/chainreaction-server/migrations"
)

func migrate(logger *slog.Logger) error {
	url, err := config.DbURL()
	if err != nil {
		return fmt.Errorf("failed to read database config: %w", err)
	}

	migrator, err := database.Migrate(url, migrations.FS)
	if err != nil {
		return err
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

func main() {
	if err := config.Load(); err != nil {
		slog.Error("unable to read .env file", slog.Any("error", err))
		os.Exit(1)
	}
	logger := config.NewLogger()

	if err := migrate(logger); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}
