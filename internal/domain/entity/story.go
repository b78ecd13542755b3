package entity

import "time"

// Status is a story cluster's lifecycle state (§4.4 of the design spec).
type Status string

const (
	StatusMonitoring Status = "MONITORING"
	StatusDeveloping Status = "DEVELOPING"
	StatusBreaking   Status = "BREAKING"
	StatusVerified   Status = "VERIFIED"
	StatusArchived   Status = "ARCHIVED"
)

// VersionEvent is an append-only audit entry recorded whenever a story's
// status or headline changes.
type VersionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
}

// StoryCluster groups articles describing the same real-world event.
//
// unique_source_count (not len(SourceArticles)) drives status: it is the
// cardinality of distinct Source values across the referenced articles.
// VerificationLevel is always equal to it. LastUpdated moves only when a
// new source is added or the status changes — never on summarization or
// other metadata patches.
type StoryCluster struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Fingerprint         string         `json:"fingerprint"`
	Category            Category       `json:"category"`
	SourceArticles       []string       `json:"source_articles"`
	UniqueSourceCount   int            `json:"unique_source_count"`
	VerificationLevel   int            `json:"verification_level"`
	Status              Status         `json:"status"`
	FirstSeen           time.Time      `json:"first_seen"`
	LastUpdated         time.Time      `json:"last_updated"`
	BreakingDetectedAt  *time.Time     `json:"breaking_detected_at,omitempty"`
	Summary             string         `json:"summary,omitempty"`
	VersionHistory      []VersionEvent `json:"version_history"`

	// Version is the optimistic-concurrency token (§5 "etag / version
	// check"). Every store write must match on this value and bump it.
	Version int64 `json:"-"`
}

// HasSource reports whether articleID is already a member of the story.
func (s *StoryCluster) HasSource(articleID string) bool {
	for _, id := range s.SourceArticles {
		if id == articleID {
			return true
		}
	}
	return false
}

// IsArchivable reports whether the story is eligible for archiving: it has
// not been updated within maxAge as of now. Archived stories themselves
// also satisfy this, which is fine — the caller checks current Status
// first.
func (s *StoryCluster) IsArchivable(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.LastUpdated) > maxAge
}

// AppendVersionEvent records an audit entry for a status or headline
// change.
func (s *StoryCluster) AppendVersionEvent(now time.Time, event string) {
	s.VersionHistory = append(s.VersionHistory, VersionEvent{Timestamp: now, Event: event})
}
