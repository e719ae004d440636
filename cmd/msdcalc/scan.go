package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/seiru/msdcalc/internal/cache"
	"github.com/seiru/msdcalc/internal/scan"
	"github.com/seiru/msdcalc/pkg/logger"
	"github.com/seiru/msdcalc/pkg/metrics"
)

// Metrics listener timeouts.
const (
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Scan a pack directory and rank its charts by difficulty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, _ := cmd.Flags().GetFloat64("rate")
		top, _ := cmd.Flags().GetInt("top")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		asJSON, _ := cmd.Flags().GetBool("json")

		if rate <= 0 {
			return fmt.Errorf("rate must be positive, got %v", rate)
		}

		ctx := cmd.Context()
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		if top <= 0 {
			top = cfg.TopN
		}
		if metricsAddr == "" {
			metricsAddr = cfg.MetricsAddr
		}

		opts := []scan.Option{
			scan.WithRate(rate),
			scan.WithWorkers(cfg.Workers),
			scan.WithTopN(top),
			scan.WithLogger(logger.Named("scan")),
		}
		if !noCache && cfg.CachePath != "" {
			store, err := cache.Open(cfg.CachePath)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()
			opts = append(opts, scan.WithCache(store))
		}

		if metricsAddr != "" {
			stop := serveMetrics(ctx, metricsAddr)
			defer stop()
		}

		report, err := scan.New(engine, opts...).Run(ctx, args[0])
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderReport(report))
		return nil
	},
}

func init() {
	scanCmd.Flags().Float64("rate", 1.0, "playback rate charts are rated at")
	scanCmd.Flags().Int("top", 0, "leaderboard rows to report (0 uses the configured default)")
	scanCmd.Flags().String("metrics-addr", "", "expose Prometheus /metrics on this address during the scan")
	scanCmd.Flags().Bool("no-cache", false, "rate every chart even when a cached rating exists")
	scanCmd.Flags().Bool("json", false, "emit the full report as JSON")
}

// serveMetrics exposes the scan metrics registry over HTTP until the
// returned stop function is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	log := logger.Named("metrics")
	go func() {
		log.Info(ctx, "metrics listener started", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics listener failed", logger.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics listener shutdown failed", logger.Error(err))
		}
	}
}
