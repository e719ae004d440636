// Package metrics provides Prometheus metrics for the pack scanning layer.
//
// The core difficulty pipeline has no instrumentation; only the scan
// collaborator and its storage record anything here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus metrics of one scanning process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Throughput - files in, ratings out
	filesDiscovered prometheus.Counter
	chartsScanned   prometheus.Counter
	chartFailures   *prometheus.CounterVec
	duplicateCharts prometheus.Counter

	// Cache effectiveness
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Stage latencies
	parseLatency prometheus.Histogram
	calcLatency  prometheus.Histogram

	// Operational health
	workerActive prometheus.Gauge
	rankingSize  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "msdcalc",
		subsystem:        "scan",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.filesDiscovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_discovered_total",
		Help:      "Total number of candidate chart files discovered",
	})

	m.chartsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_scanned_total",
		Help:      "Total number of charts rated successfully",
	})

	m.chartFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "chart_failures_total",
			Help:      "Total number of charts skipped, by failure reason",
		},
		[]string{"reason"},
	)

	m.duplicateCharts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_charts_total",
		Help:      "Total number of files skipped as byte-identical duplicates",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of ratings served from the cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of cache lookups that required computation",
	})

	m.parseLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_latency_milliseconds",
		Help:      "Chart parse latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.calcLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calc_latency_milliseconds",
		Help:      "Difficulty computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of scan workers currently processing a chart",
	})

	m.rankingSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_size",
		Help:      "Number of charts held in the ranking store",
	})
}

// RecordFileDiscovered increments the discovered files counter.
func RecordFileDiscovered() {
	globalManager.filesDiscovered.Inc()
}

// RecordChartScanned increments the successfully rated charts counter.
func RecordChartScanned() {
	globalManager.chartsScanned.Inc()
}

// RecordChartFailure increments the failure counter for one reason label.
func RecordChartFailure(reason string) {
	globalManager.chartFailures.WithLabelValues(reason).Inc()
}

// RecordDuplicateChart increments the duplicate files counter.
func RecordDuplicateChart() {
	globalManager.duplicateCharts.Inc()
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordParseLatency records one chart parse duration in milliseconds.
func RecordParseLatency(latencyMs float64) {
	globalManager.parseLatency.Observe(latencyMs)
}

// RecordCalcLatency records one difficulty computation duration in milliseconds.
func RecordCalcLatency(latencyMs float64) {
	globalManager.calcLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the number of busy scan workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// UpdateRankingSize sets the size of the ranking store.
func UpdateRankingSize(count int) {
	globalManager.rankingSize.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
