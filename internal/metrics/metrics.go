// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Recommendation query latency and outcomes
// - Model training duration and results
// - Snapshot store operations
// - Query cache efficiency
// - API endpoint latency and throughput

var (
	// Recommendation Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}, // In-memory queries are sub-millisecond
		},
		[]string{"query"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"query", "result"}, // result: "ok", "fallback", "empty", "not_found"
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300}, // Training can take minutes on large samples
		},
	)

	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"trigger", "result"}, // trigger: "startup", "schedule", "cli"; result: "success", "failure"
	)

	TrainingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_errors_total",
			Help: "Total number of training errors",
		},
		[]string{"error_type"}, // "dataset", "storage", "other"
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "training_last_success_timestamp",
			Help: "Unix timestamp of last successful training run",
		},
	)

	// Snapshot Model Metrics (updated on every swap)
	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_version",
			Help: "Version number of the currently served snapshot",
		},
	)

	SnapshotMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_movies",
			Help: "Number of movies in the current snapshot's interaction matrix",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_users",
			Help: "Number of users in the current snapshot's interaction matrix",
		},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_ratings",
			Help: "Number of rating events the current snapshot was trained on",
		},
	)

	SnapshotBuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_build_timestamp",
			Help: "Unix timestamp when the current snapshot was built",
		},
	)

	// Snapshot Store Metrics
	SnapshotSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_save_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_load_duration_seconds",
			Help:    "Duration of snapshot loading in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_store_errors_total",
			Help: "Total number of snapshot store errors",
		},
		[]string{"operation"}, // "save", "load", "list", "delete", "prune"
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "query"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or flush)",
		},
		[]string{"cache_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordQuery records a recommendation query metric
func RecordQuery(query, result string, duration time.Duration) {
	QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	QueriesTotal.WithLabelValues(query, result).Inc()
}

// RecordTraining records a training run metric
func RecordTraining(trigger string, duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRunsTotal.WithLabelValues(trigger, "failure").Inc()
		errorType := "other"
		errorMsg := err.Error()
		switch {
		case strings.Contains(errorMsg, "read"), strings.Contains(errorMsg, "parse"):
			errorType = "dataset"
		case strings.Contains(errorMsg, "save"), strings.Contains(errorMsg, "snapshot"):
			errorType = "storage"
		}
		TrainingErrors.WithLabelValues(errorType).Inc()
	} else {
		TrainingRunsTotal.WithLabelValues(trigger, "success").Inc()
		// Update last success timestamp
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// UpdateSnapshotGauges updates the model gauges after a snapshot swap
func UpdateSnapshotGauges(version int64, movies, users, ratings int, builtAt time.Time) {
	SnapshotVersion.Set(float64(version))
	SnapshotMovies.Set(float64(movies))
	SnapshotUsers.Set(float64(users))
	SnapshotRatings.Set(float64(ratings))
	SnapshotBuildTimestamp.Set(float64(builtAt.Unix()))
}

// RecordSnapshotSave records a snapshot persistence operation
func RecordSnapshotSave(duration time.Duration, err error) {
	SnapshotSaveDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotStoreErrors.WithLabelValues("save").Inc()
	}
}

// RecordSnapshotLoad records a snapshot load operation
func RecordSnapshotLoad(duration time.Duration, err error) {
	SnapshotLoadDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotStoreErrors.WithLabelValues("load").Inc()
	}
}

// RecordCacheHit records a cache hit for the given cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
