package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"budget-app-go/internal/app"
	"budget-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv("budget-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, log)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, log logger.Logger) int {
	log.Info("app: starting")

	application, err := app.New(log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	// Drain in-flight requests before the store goes away.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http: graceful shutdown failed", "err", err)
		code = 1
	}
	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		code = 1
	}

	if code == 0 {
		log.Info("app: stopped")
	}
	return code
}
