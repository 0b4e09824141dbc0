package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"patrimoine/internal/amqp"
	"patrimoine/internal/cli"
	apphttp "patrimoine/internal/http"
	applog "patrimoine/internal/log"
	"patrimoine/internal/services"
	"patrimoine/internal/session"
	"patrimoine/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	appLogger := logger.WithComponent(applog.ComponentApp)

	cfg := cli.LoadAndValidateConfig(appLogger.Logger)

	// Persistence: save file plus optional SQLite snapshot history.
	store := storage.NewFileStore(cfg.SaveFilePath)
	state := session.Restore(store, cfg.MinSalaryRows)

	var history *storage.History
	if cfg.HistoryDBPath != "" {
		history = cli.OpenHistory(appLogger.Logger, cfg.HistoryDBPath)
		appLogger.Info("Snapshot history enabled", "path", cfg.HistoryDBPath)
	}

	// Optional AMQP save events. A broker that is down must not block the
	// dashboard, so connection failures only log a warning.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			appLogger.Warn("AMQP unavailable, save events disabled", applog.FieldError, err)
		} else {
			events = c
			appLogger.Info("AMQP save events enabled", "exchange", cfg.AMQPExchange)
		}
	}

	saver := services.NewSaveService(store, state, history, events, logger)
	defer func() { _ = saver.Close() }()

	editor := session.NewEditor(state)
	srv := apphttp.NewServer(":"+cfg.Port, editor, saver, cfg.MaxProjectionHorizon)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting patrimoine server",
			"port", cfg.Port,
			"save_file", cfg.SaveFilePath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		appLogger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	appLogger.Info("Server stopped gracefully")
}
