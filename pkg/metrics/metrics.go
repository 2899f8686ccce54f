package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Staging metrics
	FilesStaged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_files_staged_total",
			Help: "Total number of input files staged into working directories",
		},
	)

	FilesUnstaged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_files_unstaged_total",
			Help: "Total number of output files copied back to target directories",
		},
	)

	UnstageFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_unstage_failures_total",
			Help: "Total number of output files that failed to copy back",
		},
	)

	StageDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dray_stage_duration_seconds",
			Help:    "Time taken to stage a task's inputs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	UnstageDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dray_unstage_duration_seconds",
			Help:    "Time taken to unstage a task's outputs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache metrics
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_cache_hits_total",
			Help: "Total number of staging requests served from the local cache",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_cache_misses_total",
			Help: "Total number of staging requests that populated a new cache entry",
		},
	)

	CacheCleanupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dray_cache_cleanup_failures_total",
			Help: "Total number of cache entries that failed to delete",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(FilesStaged)
	prometheus.MustRegister(FilesUnstaged)
	prometheus.MustRegister(UnstageFailures)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(UnstageDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(CacheCleanupFailures)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
