package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llm-workflow/internal/di"
	"llm-workflow/internal/infrastructure/env"
)

func main() {
	cfg, err := env.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	container, err := di.NewContainer(di.Config{Env: cfg})
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           container.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			container.Logger.Error("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		container.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}
