package metrics

import "time"

// RecordArticleIngested records one new article accepted by the ingestion
// scheduler for a given feed.
func RecordArticleIngested(feedSlug string) {
	ArticlesIngestedTotal.WithLabelValues(feedSlug).Inc()
}

// RecordFeedPoll records the duration of one feed poll attempt, whether it
// succeeded or not.
func RecordFeedPoll(feedSlug string, duration time.Duration) {
	FeedPollDuration.WithLabelValues(feedSlug).Observe(duration.Seconds())
}

// RecordFeedPollError records a poll failure for a feed, classified by
// errorType (e.g. "timeout", "circuit_open", "parse_error").
func RecordFeedPollError(feedSlug, errorType string) {
	FeedPollErrorsTotal.WithLabelValues(feedSlug, errorType).Inc()
}

// UpdateFeedConsecutiveFailures reflects the current backoff streak for a
// feed after each poll attempt.
func UpdateFeedConsecutiveFailures(feedSlug string, count int) {
	FeedConsecutiveFailures.WithLabelValues(feedSlug).Set(float64(count))
}

// RecordContentFetchSuccess records a successful content-enhancement fetch.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content-enhancement fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a content-enhancement fetch skipped
// because RSS content already met the threshold.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordClusteringOutcome records how Process resolved one article:
// "fingerprint_match", "fuzzy_match", or "new_story".
func RecordClusteringOutcome(outcome string) {
	ClusteringOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordClusteringDuration records the time spent clustering one article.
func RecordClusteringDuration(duration time.Duration) {
	ClusteringDuration.Observe(duration.Seconds())
}

// RecordVersionConflictRetry records one optimistic-concurrency retry
// during story attachment.
func RecordVersionConflictRetry() {
	VersionConflictRetriesTotal.Inc()
}

// RecordStatusTransition records a status evolver transition.
func RecordStatusTransition(from, to string) {
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordHeadlineSynthesis records the outcome of one headline synthesis
// attempt: "applied", "rejected", or "synthesizer_error".
func RecordHeadlineSynthesis(outcome string) {
	HeadlineSynthesesTotal.WithLabelValues(outcome).Inc()
}

// UpdateLeasesHeld reflects the current number of change-feed partition
// leases held by this process.
func UpdateLeasesHeld(count int) {
	LeasesHeld.Set(float64(count))
}

// UpdateChangeFeedLag records the number of unprocessed events observed
// for a partition at the end of a poll cycle.
func UpdateChangeFeedLag(partition string, lag int) {
	ChangeFeedLagSeqs.WithLabelValues(partition).Set(float64(lag))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_articles", "insert_article").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
