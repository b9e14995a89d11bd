package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/config"
	chiTransport "github.com/kailas-cloud/helpdex/internal/transport/chi"
	"github.com/kailas-cloud/helpdex/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web shell (HTML form, JSON API, health, metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if port > 0 {
				cfg.HTTP.Port = port
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override http.port")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting helpdex server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", config.GetEnv()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("graph_driver", cfg.Graph.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := chiTransport.NewServer(a.pipeline, a.health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
