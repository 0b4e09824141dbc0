package cli

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestOpenHistory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	history := OpenHistory(logger, filepath.Join(t.TempDir(), "history.db"))
	if history == nil {
		t.Fatal("expected an open history")
	}
	if err := history.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SAVE_FILE_PATH", filepath.Join(dir, "save.json"))
	t.Setenv("HISTORY_DB_PATH", filepath.Join(dir, "history.db"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := LoadAndValidateConfig(logger)
	if cfg == nil {
		t.Fatal("expected a config")
	}
	if cfg.SaveFilePath != filepath.Join(dir, "save.json") {
		t.Errorf("unexpected save path %q", cfg.SaveFilePath)
	}
}

func TestSetupLogger(t *testing.T) {
	if SetupLogger() == nil {
		t.Fatal("expected a logger")
	}
}
