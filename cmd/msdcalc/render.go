package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/seiru/msdcalc/internal/calc"
	"github.com/seiru/msdcalc/internal/scan"
	"github.com/seiru/msdcalc/internal/skillset"
)

// Score table palette.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#14B8A6"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8FAFC"))
	strongStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F97316"))
)

// writeJSON emits v as indented JSON for machine consumers.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderScores draws one rating as a vertical score table with the
// dominant skillset highlighted.
func renderScores(path string, res calc.SSRResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(path))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  @ %.2fx, goal %.1f%%", res.Rate, res.Goal)))
	b.WriteString("\n\n")

	b.WriteString("  " + labelStyle.Render(fmt.Sprintf("%-11s", "overall")))
	b.WriteString(strongStyle.Render(fmt.Sprintf("%8.2f", res.Scores.Overall)))
	b.WriteString("\n")

	dominant := res.Scores.Dominant()
	for _, k := range skillset.All() {
		style := valueStyle
		if k == dominant {
			style = strongStyle
		}
		b.WriteString("  " + labelStyle.Render(fmt.Sprintf("%-11s", k.String())))
		b.WriteString(style.Render(fmt.Sprintf("%8.2f", res.Scores.Value(k))))
		b.WriteString("\n")
	}

	b.WriteString("\n  " + labelStyle.Render("dominant: ") + strongStyle.Render(dominant.String()) + "\n")
	return b.String()
}

// renderSweep draws the full rate table, one row per rate, plus the
// dominant skillset at normal speed.
func renderSweep(path string, table calc.Table) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(path))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %5s %8s", "rate", "overall")
	for _, k := range skillset.All() {
		header += fmt.Sprintf(" %11s", k.String())
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, e := range table.Entries {
		row := fmt.Sprintf("  %.2fx %8.2f", e.Rate, e.Scores.Overall)
		for _, k := range skillset.All() {
			row += fmt.Sprintf(" %11.2f", e.Scores.Value(k))
		}
		b.WriteString(valueStyle.Render(row))
		b.WriteString("\n")
	}

	if base, err := table.At(1.0); err == nil {
		dominant := base.Dominant()
		b.WriteString("\n  " + labelStyle.Render("dominant at 1.00x: "))
		b.WriteString(strongStyle.Render(fmt.Sprintf("%s (%.2f)", dominant, base.Value(dominant))))
		b.WriteString("\n")
	}
	return b.String()
}

// renderReport draws a pack scan summary and its leaderboard.
func renderReport(r *scan.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Root))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  @ %.2fx", r.Rate)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf(
		"  discovered %d, scanned %d, failed %d, duplicates %d, cache hits %d in %s",
		r.Discovered, r.Scanned, r.Failed, r.Duplicates, r.CacheHits,
		r.Elapsed.Round(time.Millisecond))))
	b.WriteString("\n\n")

	if len(r.Top) == 0 {
		b.WriteString(labelStyle.Render("  no charts rated") + "\n")
		return b.String()
	}

	b.WriteString("  " + headerStyle.Render(fmt.Sprintf("%4s %8s %11s  %s", "rank", "overall", "dominant", "chart")))
	b.WriteString("\n")
	for _, e := range r.Top {
		b.WriteString("  " + valueStyle.Render(fmt.Sprintf("%4d", e.Rank)))
		b.WriteString(" " + strongStyle.Render(fmt.Sprintf("%8.2f", e.Score)))
		b.WriteString(" " + valueStyle.Render(fmt.Sprintf("%11s", e.Scores.Dominant().String())))
		b.WriteString("  " + valueStyle.Render(e.Path))
		b.WriteString("\n")
	}
	return b.String()
}
