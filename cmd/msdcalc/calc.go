package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiru/msdcalc/internal/chartfmt"
)

var calcCmd = &cobra.Command{
	Use:   "calc <chart>",
	Short: "Rate a single chart at one rate and accuracy goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, _ := cmd.Flags().GetFloat64("rate")
		goal, _ := cmd.Flags().GetFloat64("goal")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		tl, err := chartfmt.ParseFile(args[0])
		if err != nil {
			return err
		}

		result, err := engine.SSR(tl, rate, goal)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderScores(args[0], result))
		return nil
	},
}

func init() {
	calcCmd.Flags().Float64("rate", 1.0, "playback rate multiplier")
	calcCmd.Flags().Float64("goal", 93.0, "accuracy goal percent, in (0, 100]")
	calcCmd.Flags().Bool("json", false, "emit JSON instead of a styled table")
}
