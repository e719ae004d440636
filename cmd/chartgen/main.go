// chartgen writes synthetic charts with a known dominant pattern, for
// exercising the calculator and seeding benchmark packs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/seiru/msdcalc/internal/chartgen"
)

// Default generation constants.
const (
	defaultPattern = "stream"
	defaultBPM     = 180.0
	defaultSeconds = 60.0
	defaultColumns = 4
	defaultSeed    = 1
)

func main() {
	var (
		pattern = flag.String("pattern", defaultPattern, "Pattern family: stream, jumpstream, handstream, jacks, chordjack, technical")
		bpm     = flag.Float64("bpm", defaultBPM, "Tempo of the generated chart")
		seconds = flag.Float64("seconds", defaultSeconds, "Chart length in seconds")
		columns = flag.Int("columns", defaultColumns, "Key count (4-10)")
		seed    = flag.Uint64("seed", defaultSeed, "Random seed; the same seed reproduces the same rows")
		out     = flag.String("out", "", "Output file (default: stdout)")
	)
	flag.Parse()

	p, err := chartgen.ParsePattern(*pattern)
	if err != nil {
		os.Stderr.WriteString("chartgen: " + err.Error() + "\n")
		os.Exit(1)
	}

	chart := chartgen.New(p,
		chartgen.WithBPM(*bpm),
		chartgen.WithSeconds(*seconds),
		chartgen.WithColumns(*columns),
		chartgen.WithSeed(*seed),
	).Generate()

	text := chart.NoteRows()
	if *out == "" {
		fmt.Print(text)
		return
	}

	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		os.Stderr.WriteString("chartgen: write output: " + err.Error() + "\n")
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %s, %d rows\n", *out, chart.Pattern, len(chart.Rows))
}
