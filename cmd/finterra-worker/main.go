package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/cli"
	"github.com/HilmanThoriq/finterra-app/internal/events"
	"github.com/HilmanThoriq/finterra-app/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting finterra-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.OpenStore(ctx, logger, cfg)
	st := result.Store
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}
	}()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	notifWorker := worker.NewNotificationWorker(st, st, st, cfg.BudgetWarnRatio)

	go func() {
		err := client.ConsumeExpenseEvents(ctx, func(event *events.ExpenseEvent) error {
			return notifWorker.HandleEvent(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", "error", err)
		}
		cancel()
	}()

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cancel()
	})

	select {
	case <-ctx.Done():
		logger.Info("Consumer stopped")
	case <-shutdownCtx.Done():
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
