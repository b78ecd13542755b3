package entity

import "time"

// FeedPollState tracks the per-feed polling cursor used by the Ingestion
// Scheduler. It lives in its own collection — never co-located with
// stories or articles (a prior defect mixed poll-state and story documents
// in one category-partitioned collection and broke cross-partition
// queries).
type FeedPollState struct {
	FeedID              string    `json:"feed_id"`
	LastPolledAt        time.Time `json:"last_polled_at"`
	LastSuccessfulAt    time.Time `json:"last_successful_at"`
	LastETag            string    `json:"last_etag,omitempty"`
	LastModified        string    `json:"last_modified,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	NextEligibleAt      time.Time `json:"next_eligible_at"`
}

// RosterEntry describes one feed in the configured polling roster, loaded
// from the YAML feed manifest (see internal/config).
type RosterEntry struct {
	Slug        string   `yaml:"slug" json:"slug"`
	DisplayName string   `yaml:"name" json:"name"`
	URL         string   `yaml:"url" json:"url"`
	Category    Category `yaml:"category" json:"category"`
}
