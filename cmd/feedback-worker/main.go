package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"budget-app-go/internal/app"
	"budget-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv("feedback-worker")
	log.Info("worker: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker, err := app.NewWorker(log)
	if err != nil {
		log.Critical("worker: init failed", "err", err)
		os.Exit(1)
	}

	exitCode := 0
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Critical("worker: stopped with error", "err", err)
		exitCode = 1
	}

	if err := worker.Close(); err != nil {
		log.Error("worker: close failed", "err", err)
		exitCode = 1
	}

	if exitCode == 0 {
		log.Info("worker: stopped")
		return
	}
	os.Exit(exitCode)
}
