package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/alvion/transitions"
	"github.com/alvion/transitions/internal/logging"
	httpAdapter "github.com/alvion/transitions/pkg/adapters/http"
	"github.com/alvion/transitions/pkg/adapters/memory"
	"github.com/alvion/transitions/pkg/adapters/yamlspec"
	"github.com/alvion/transitions/pkg/observability"
	"github.com/alvion/transitions/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve machine sessions over HTTP",
	Long:  `Loads the machine definition and exposes sessions and trigger firing as a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		port, _ := cmd.Flags().GetString("port")

		logger := logging.New(slog.LevelInfo)

		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open definition: %w", err)
		}
		defer f.Close()

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		machine, err := yamlspec.Load(f, nil,
			transitions.WithLogger(logger),
			transitions.WithLifecycleHooks(metrics.Hooks()),
		)
		if err != nil {
			return fmt.Errorf("failed to build machine: %w", err)
		}

		sessions := session.NewManager(machine, memory.NewStore(),
			session.WithLogger(logger))

		r := chi.NewRouter()
		r.Mount("/", httpAdapter.NewHandler(sessions, machine,
			httpAdapter.WithLogger(logger)))
		r.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "definition", file)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
