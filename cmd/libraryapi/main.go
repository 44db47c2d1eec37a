// Command libraryapi serves the library catalog as a JSON HTTP API with Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AntonStoeckl/library-views-go/config"
	"github.com/AntonStoeckl/library-views-go/internal/api"
	"github.com/AntonStoeckl/library-views-go/internal/logging"
	"github.com/AntonStoeckl/library-views-go/internal/wiring"
	"github.com/AntonStoeckl/library-views-go/promadapter"
)

func main() {
	if err := run(); err != nil {
		logging.New("error", false).Error("libraryapi stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	lib, err := wiring.Open(ctx, cfg, wiring.Options{
		Logger:  logger,
		Metrics: promadapter.NewCollector(registry, "library"),
		Migrate: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := lib.Close(); closeErr != nil {
			logger.Warn("closing library failed", "error", closeErr.Error())
		}
	}()

	handler := api.NewHandler(lib.Store, lib.Coordinator, lib.Gateway, logger, registry)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.HTTPPort, "adapter", cfg.AdapterType)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("server shutting down")

	return server.Shutdown(shutdownCtx)
}
