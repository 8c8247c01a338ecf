package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/quellen/scene-tier-pipeline/internal/metrics"
	"github.com/quellen/scene-tier-pipeline/internal/pipeline"
	"github.com/quellen/scene-tier-pipeline/internal/store"
	"github.com/quellen/scene-tier-pipeline/internal/watch"
)

var metricsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a full pass, then reprocess scene files as they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := metricsAddr
		if addr == "" {
			addr = cfg.MetricsAddr
		}

		opts := []pipeline.Option{pipeline.WithLogger(logger)}
		if addr != "" {
			registry := prometheus.NewRegistry()
			opts = append(opts, pipeline.WithMetrics(metrics.New(registry)))

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			server := &http.Server{Addr: addr, Handler: mux}
			go func() {
				logger.Info("metrics listening", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "err", err)
				}
			}()
			defer server.Close()
		}

		pipe, err := pipeline.New(store.NewFileStore(), cfg, opts...)
		if err != nil {
			return err
		}

		watcher := watch.New(pipe, cfg.SourceDir, cfg.SceneExtension, logger)
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to expose prometheus metrics on (e.g. :9090)")
}
