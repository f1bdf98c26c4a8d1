package main

import (
	"context"
	"io"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("monitor")
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting monitor-worker")

	store := cli.InitStore(logger, cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	amqpClient := cli.MustInitAMQP(logger, cfg)
	defer amqpClient.Close()

	monitor := worker.NewMonitor(store, amqpClient, cfg.MonitorInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Budget monitor configured",
		"interval", cfg.MonitorInterval,
		"backend", cfg.DataBackend)

	if err := monitor.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Monitor stopped with error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Monitor-worker shutdown complete")
}
