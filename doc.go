// Package msdcalc rates rhythm-game charts.
//
// The engine assigns every chart seven skillset scores (stream, jumpstream,
// handstream, stamina, jackspeed, chordjack, technical) plus an overall
// rating that always at least matches the hardest skillset. Ratings come in
// two shapes: MSD, the full-accuracy difficulty swept across playback rates
// 0.5x-2.0x, and SSR, the rating of one play at one rate and accuracy goal.
//
// Quick use:
//
//	res, err := msdcalc.SSRFromFile("chart.sm", 1.0, 93.0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%.2f (%s)\n", res.Scores.Overall, res.Scores.Dominant())
//
// Parsing accepts osu!mania .osu, StepMania .sm, and a minimal noterows
// text format; detection is automatic. Heavier use builds an Engine once
// via NewEngine and reuses it; engines are immutable and safe for
// concurrent use. Pack scanning, caching, and ranking live in the msdcalc
// command rather than this package.
package msdcalc
