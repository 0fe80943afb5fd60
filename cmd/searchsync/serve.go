package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/metrics"
	chiTransport "github.com/kailas-cloud/searchsync/internal/transport/chi"
	healthuc "github.com/kailas-cloud/searchsync/internal/usecase/health"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the search HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	httpMetrics, err := metrics.NewHTTP(a.metrics)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	// Pass a nil interface, not a typed nil pointer, when the cache is off.
	var cachePinger healthuc.Pinger
	if a.cache != nil {
		cachePinger = a.cache
	}
	healthSvc := healthuc.New(a.pool, cachePinger)

	server := chiTransport.NewServer(a.backend, a.catalog.Registry, a, healthSvc, a.logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		Keys:           chiTransport.Keys{Search: a.cfg.Auth.SearchKeys, Admin: a.cfg.Auth.AdminKeys},
		Metrics:        httpMetrics.Middleware(),
		MetricsHandler: promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}),
		Logger:         a.logger,
	})

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}
