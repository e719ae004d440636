package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiru/msdcalc/internal/chartfmt"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <chart>",
	Short: "Rate a chart across the full 0.5x-2.0x rate grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		table, err := engine.MSD(tl)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), table)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSweep(args[0], table))
		return nil
	},
}

func init() {
	sweepCmd.Flags().Bool("json", false, "emit JSON instead of a styled table")
}
