// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Pipeline metrics track the ingestion, clustering, and evolution
// operations specific to the news aggregation pipeline.
var (
	// ArticlesIngestedTotal counts new articles ingested per feed.
	ArticlesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_ingested_total",
			Help: "Total number of new articles ingested from feeds",
		},
		[]string{"feed_slug"},
	)

	// FeedPollDuration measures time to poll and parse a single feed.
	FeedPollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_poll_duration_seconds",
			Help:    "Time taken to poll a single feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"feed_slug"},
	)

	// FeedPollErrorsTotal counts poll failures per feed, by error class.
	FeedPollErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_poll_errors_total",
			Help: "Total number of feed poll errors",
		},
		[]string{"feed_slug", "error_type"},
	)

	// FeedConsecutiveFailures tracks the current backoff failure streak
	// per feed, as stored in feed_poll_states.
	FeedConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "feed_consecutive_failures",
			Help: "Current consecutive poll failure count per feed",
		},
		[]string{"feed_slug"},
	)

	// ContentFetchAttemptsTotal counts content-enhancement attempts by
	// result during article normalization.
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content enhancement attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// ContentFetchDuration measures time spent fetching full article
	// content for enhancement.
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch full article content for enhancement",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ContentFetchSize measures fetched content size in bytes.
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "content_fetch_size_bytes",
			Help: "Fetched article content size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760, // up to 10MB
			},
		},
	)

	// ClusteringOutcomesTotal counts each way Process resolved an
	// article: attached by fingerprint, attached by fuzzy match, or a
	// fresh story created.
	ClusteringOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustering_outcomes_total",
			Help: "Total number of clustering outcomes by type",
		},
		[]string{"outcome"}, // fingerprint_match, fuzzy_match, new_story
	)

	// ClusteringDuration measures time to process one article through
	// the clustering engine.
	ClusteringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clustering_duration_seconds",
			Help:    "Time taken to cluster a single article",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	// VersionConflictRetriesTotal counts optimistic-concurrency retries
	// during story attachment.
	VersionConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clustering_version_conflict_retries_total",
			Help: "Total number of version-conflict retries during story attachment",
		},
	)

	// StatusTransitionsTotal counts status evolver transitions by
	// from/to state pair.
	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_transitions_total",
			Help: "Total number of story status transitions",
		},
		[]string{"from", "to"},
	)

	// HeadlineSynthesesTotal counts headline synthesis attempts by
	// outcome (applied, rejected, synthesizer_error).
	HeadlineSynthesesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headline_syntheses_total",
			Help: "Total number of headline synthesis attempts",
		},
		[]string{"outcome"},
	)

	// LeasesHeld tracks the number of change-feed partition leases
	// currently held by this process.
	LeasesHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "changefeed_leases_held",
			Help: "Number of change-feed partition leases currently held",
		},
	)

	// ChangeFeedLagSeqs tracks how many change-feed events remain
	// unprocessed after the last poll, per partition.
	ChangeFeedLagSeqs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "changefeed_lag_events",
			Help: "Number of unprocessed change-feed events observed in the last poll",
		},
		[]string{"partition"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
