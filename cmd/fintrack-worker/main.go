package main

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("alert-worker")
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting fintrack-worker")

	store := cli.InitStore(logger, cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	amqpClient := cli.MustInitAMQP(logger, cfg)
	defer amqpClient.Close()

	alertWorker := worker.NewAlertWorker(store, cfg.AlertDedupWindow)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Startup sweep catches anything that went over budget while the worker
	// was down.
	logger.Info("Performing startup budget sweep...")
	if err := alertWorker.Sweep(ctx); err != nil {
		logger.Error("Startup sweep failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeBudgetChecks(gctx, func(msg *amqp.BudgetCheckMessage) error {
			return alertWorker.HandleBudgetCheck(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.MonitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := alertWorker.Sweep(gctx); err != nil {
					logger.Error("Periodic sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Fintrack-worker shutdown complete")
}
