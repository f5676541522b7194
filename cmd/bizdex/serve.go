package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/bizdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/bizdex/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizdex/internal/usecase/listing"
	seeduc "github.com/kailas-cloud/bizdex/internal/usecase/seed"
	"github.com/kailas-cloud/bizdex/internal/version"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger := a.cfg, a.logger
	logger.Info("Starting bizdex API server",
		zap.String("build", version.String()),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
	)

	index, closeIndex, err := openIndex(ctx, cfg.Index, logger)
	if err != nil {
		return err
	}
	defer closeIndex()

	if cfg.Seed.Enabled {
		if _, err := seeduc.New(index, cfg.Seed.Concurrency, logger).Run(ctx); err != nil {
			return fmt.Errorf("seed sample listings: %w", err)
		}
	}

	listingSvc := listinguc.New(index, time.Duration(cfg.Search.TimeoutMs)*time.Millisecond)
	healthSvc := healthuc.New(index, time.Duration(cfg.Health.TimeoutMs)*time.Millisecond)
	server := chiTransport.NewServer(listingSvc, healthSvc, chiTransport.Pagination{
		DefaultSize: cfg.Search.DefaultPageSize,
		MaxSize:     cfg.Search.MaxPageSize,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst))
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BindErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
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
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
