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

	"github.com/aretw0/chatsim/internal/cli"
	httpAdapter "github.com/aretw0/chatsim/pkg/adapters/http"
	"github.com/aretw0/chatsim/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flow]",
	Short: "Start the HTTP JSON API",
	Long: `Serves chat sessions over HTTP. Sessions live in memory unless Redis or a
session directory is configured. Prometheus metrics are exposed on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = cfg.HTTPAddr
		}

		logger := cli.NewLogger(cfg.LogLevel, false)
		metrics := observability.NewMetrics()
		stack, err := cli.BuildEngine(cli.EngineOptions{
			FlowPath: flowPath(cmd, args),
			Config:   cfg,
			Logger:   logger,
			Metrics:  metrics,
		})
		if err != nil {
			return err
		}
		defer stack.Close()

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(stack.Engine,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetricsHandler(metrics.Handler()),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "address", srv.Addr, "flow", stack.Engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			logger.Info("HTTP server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (env CHATSIM_HTTP_ADDR)")
}
