/*
Package metrics exposes Prometheus metrics for Dray's staging layer.

Metrics cover the two hot paths (staging inputs, unstaging outputs) and the
node-local cache:

	dray_files_staged_total            input files symlinked into work dirs
	dray_files_unstaged_total          output files copied to target dirs
	dray_unstage_failures_total        best-effort copies that failed
	dray_stage_duration_seconds        per-task staging latency
	dray_unstage_duration_seconds      per-task unstaging latency
	dray_cache_hits_total              stagings served from cache
	dray_cache_misses_total            stagings that populated an entry
	dray_cache_cleanup_failures_total  cache entries that failed to delete

All metrics are registered at package init. Serve them with Handler:

	http.Handle("/metrics", metrics.Handler())

Timer is a small helper for histogram observations:

	timer := metrics.NewTimer()
	// ... work ...
	timer.ObserveDuration(metrics.StageDuration)
*/
package metrics
