package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("api")
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	categorizer := cli.InitCategorizer(logger, cfg)

	// Optional: without a broker the ledger skips publishing budget checks
	// and alerting falls back to the monitor's periodic sweep.
	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	var publisher services.BudgetCheckPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	srv := apphttp.NewServer(":"+cfg.Port,
		services.NewLedgerService(store, categorizer, publisher),
		services.NewBudgetService(store),
		services.NewGoalService(store),
		services.NewReportService(store),
		store,
	)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		return
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
