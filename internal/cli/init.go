// Package cli provides common initialization utilities shared by
// cmd/patrimoine and cmd/patrimoine-inspect.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"patrimoine/internal/config"
	"patrimoine/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenHistory opens the SQLite snapshot history at the given path.
// Returns the history or exits the process on failure.
func OpenHistory(logger *slog.Logger, dbPath string) *storage.History {
	history, err := storage.OpenHistory(dbPath)
	if err != nil {
		logger.Error("Failed to open snapshot history", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return history
}
