package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiru/msdcalc/internal/chartfmt"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported chart formats and their detection markers",
	Run: func(cmd *cobra.Command, args []string) {
		rows := []struct {
			format chartfmt.Format
			ext    string
			marker string
		}{
			{chartfmt.FormatOsu, ".osu", `first non-blank line starts with "osu file format v"`},
			{chartfmt.FormatSM, ".sm", "contains a #NOTES: stanza"},
			{chartfmt.FormatNoteRows, ".rows", `lines of "<seconds> <column-bitmask>"`},
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-10s %-6s %s", "format", "ext", "detected by")))
		for _, r := range rows {
			fmt.Fprintf(out, "%s %s %s\n",
				valueStyle.Render(fmt.Sprintf("%-10s", r.format)),
				valueStyle.Render(fmt.Sprintf("%-6s", r.ext)),
				labelStyle.Render(r.marker))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, labelStyle.Render("Detection runs in that order; input matching no format is rejected."))
	},
}
