package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiru/msdcalc/internal/calc"
	"github.com/seiru/msdcalc/internal/config"
	"github.com/seiru/msdcalc/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "msdcalc",
	Short: "Rhythm-game chart difficulty calculator",
	Long: "msdcalc rates rhythm-game charts across seven skillsets (stream,\n" +
		"jumpstream, handstream, stamina, jackspeed, chordjack, technical),\n" +
		"sweeps playback rates, and scans whole packs into a leaderboard.",
	SilenceUsage: true,
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig initializes logging, layers the configuration sources, and
// applies the configured log level. Commands that rate charts call this
// first; version and formats stay independent of it.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Fall back to info on an invalid configured level.
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	return cfg, nil
}

// newEngine builds the difficulty engine the loaded config describes.
func newEngine(cfg *config.Config) (*calc.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return calc.New(opts...)
}
