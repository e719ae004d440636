// Package scan walks chart packs and rates every chart they contain.
//
// The pipeline per chart is read, digest, cache lookup, parse, rate,
// leaderboard insert, cache store. Failures on individual charts are
// counted and skipped; one broken file never aborts a scan.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/seiru/msdcalc/internal/cache"
	"github.com/seiru/msdcalc/internal/calc"
	"github.com/seiru/msdcalc/internal/chartfmt"
	"github.com/seiru/msdcalc/internal/ranking"
	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/seiru/msdcalc/pkg/logger"
	"github.com/seiru/msdcalc/pkg/metrics"
)

// Report summarizes one scan run. Scanned counts every chart that produced
// a rating; CacheHits counts the subset served from the cache.
type Report struct {
	RunID      string          `json:"run_id"`
	Root       string          `json:"root"`
	Rate       float64         `json:"rate"`
	Discovered int             `json:"discovered"`
	Scanned    int             `json:"scanned"`
	Failed     int             `json:"failed"`
	Duplicates int             `json:"duplicates"`
	CacheHits  int             `json:"cache_hits"`
	Elapsed    time.Duration   `json:"elapsed"`
	Top        []ranking.Entry `json:"top"`
}

// Scanner rates every chart under a directory tree.
type Scanner struct {
	engine  *calc.Engine
	cache   *cache.Store
	rate    float64
	workers int
	topN    int
	logger  logger.Logger
}

// Option applies a configuration option to the Scanner.
type Option func(*Scanner)

// WithCache sets a rating cache so rescans skip unchanged charts.
func WithCache(store *cache.Store) Option {
	return func(s *Scanner) {
		if store != nil {
			s.cache = store
		}
	}
}

// WithRate sets the music rate charts are rated at.
func WithRate(rate float64) Option {
	return func(s *Scanner) {
		if rate > 0 {
			s.rate = rate
		}
	}
}

// WithWorkers sets the number of concurrent chart workers.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTopN sets how many leaderboard rows the report keeps.
func WithTopN(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithLogger sets a custom logger for the scanner.
func WithLogger(log logger.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Scanner around an engine with default configuration.
func New(engine *calc.Engine, opts ...Option) *Scanner {
	s := &Scanner{
		engine:  engine,
		rate:    1.0,
		workers: runtime.NumCPU(),
		topN:    20,
		logger:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// runState collects the counters shared by scan workers.
type runState struct {
	seen  *digestSet
	board *ranking.Store

	scanned    atomic.Int64
	failed     atomic.Int64
	duplicates atomic.Int64
	cacheHits  atomic.Int64
}

// Run walks root and rates every chart file it finds. Charts with equal
// content are rated once. Run returns an error only when the walk fails or
// ctx is canceled; per-chart failures land in the report instead.
func (s *Scanner) Run(ctx context.Context, root string) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	fingerprint := s.engine.Fingerprint()

	if s.cache != nil {
		purged, err := s.cache.PurgeStale(ctx, fingerprint)
		if err != nil {
			return nil, fmt.Errorf("purge stale cache rows: %w", err)
		}
		if purged > 0 {
			s.logger.Info(ctx, "purged stale cache rows", logger.Int64("rows", purged))
		}
	}

	paths, err := discoverCharts(ctx, root)
	if err != nil {
		return nil, err
	}
	for range paths {
		metrics.RecordFileDiscovered()
	}

	workers := s.workers
	if len(paths) > 0 && workers > len(paths) {
		workers = len(paths)
	}
	s.logger.Info(ctx, "scan started",
		logger.String("run", runID),
		logger.String("root", root),
		logger.Int("files", len(paths)),
		logger.Int("workers", workers),
		logger.Float64("rate", s.rate),
	)
	metrics.UpdateWorkerActiveCount(workers)
	defer metrics.UpdateWorkerActiveCount(0)

	state := &runState{
		seen:  newDigestSet(),
		board: ranking.NewStore(),
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					continue
				}
				s.processChart(ctx, root, path, fingerprint, state)
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	top, err := state.board.TopN(s.topN)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      runID,
		Root:       root,
		Rate:       s.rate,
		Discovered: len(paths),
		Scanned:    int(state.scanned.Load()),
		Failed:     int(state.failed.Load()),
		Duplicates: int(state.duplicates.Load()),
		CacheHits:  int(state.cacheHits.Load()),
		Elapsed:    time.Since(start),
		Top:        top,
	}
	s.logger.Info(ctx, "scan finished",
		logger.String("run", runID),
		logger.Int("scanned", report.Scanned),
		logger.Int("failed", report.Failed),
		logger.Int("duplicates", report.Duplicates),
		logger.Int("cacheHits", report.CacheHits),
		logger.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// discoverCharts walks root and returns every path with a known chart
// extension, in walk order.
func discoverCharts(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if chartfmt.IsChartPath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// processChart handles a single chart file.
func (s *Scanner) processChart(ctx context.Context, root, path, fingerprint string, state *runState) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(ctx, state, rel, "read", err)
		return
	}

	digest := cache.Digest(data)
	if state.seen.seenAndRecord(digest) {
		state.duplicates.Add(1)
		metrics.RecordDuplicateChart()
		s.logger.Debug(ctx, "duplicate chart skipped", logger.String("chart", rel))
		return
	}

	if s.cache != nil {
		scores, ok, err := s.cache.Get(ctx, digest, s.rate, fingerprint)
		if err != nil {
			s.logger.Warn(ctx, "cache lookup failed",
				logger.String("chart", rel),
				logger.Error(err),
			)
		}
		if ok {
			state.cacheHits.Add(1)
			metrics.RecordCacheHit()
			s.record(state, digest, rel, scores)
			return
		}
		metrics.RecordCacheMiss()
	}

	parseStart := time.Now()
	tl, err := chartfmt.Parse(data)
	if err != nil {
		s.fail(ctx, state, rel, "parse", err)
		return
	}
	metrics.RecordParseLatency(float64(time.Since(parseStart).Milliseconds()))

	calcStart := time.Now()
	scores, err := s.engine.MSDAt(tl, s.rate)
	if err != nil {
		s.fail(ctx, state, rel, "compute", err)
		return
	}
	metrics.RecordCalcLatency(float64(time.Since(calcStart).Milliseconds()))

	if s.cache != nil {
		if err := s.cache.Put(ctx, digest, s.rate, fingerprint, scores); err != nil {
			s.logger.Warn(ctx, "cache store failed",
				logger.String("chart", rel),
				logger.Error(err),
			)
		}
	}
	s.record(state, digest, rel, scores)
}

// record counts a rated chart and inserts it into the leaderboard.
func (s *Scanner) record(state *runState, digest, rel string, scores skillset.ScoreSet) {
	state.board.Upsert(digest, rel, scores)
	state.scanned.Add(1)
	metrics.RecordChartScanned()
	metrics.UpdateRankingSize(state.board.Count())
}

// fail counts a chart failure and keeps scanning.
func (s *Scanner) fail(ctx context.Context, state *runState, rel, reason string, err error) {
	state.failed.Add(1)
	metrics.RecordChartFailure(reason)
	s.logger.Error(ctx, "chart skipped",
		logger.String("chart", rel),
		logger.String("reason", reason),
		logger.Error(err),
	)
}
