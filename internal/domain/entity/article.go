// Package entity defines the core domain entities for the aggregation
// pipeline: ingested articles, story clusters, feed poll state, and the
// change-feed lease records that coordinate clustering workers.
package entity

import "time"

// EntityKind classifies an extracted named entity.
type EntityKind string

const (
	EntityPerson   EntityKind = "PERSON"
	EntityOrg      EntityKind = "ORG"
	EntityLocation EntityKind = "LOCATION"
	EntityEvent    EntityKind = "EVENT"
	EntityOther    EntityKind = "OTHER"
)

// ExtractedEntity is a named entity pulled out of an article's text by the
// rule-based normalizer.
type ExtractedEntity struct {
	Text string     `json:"text"`
	Type EntityKind `json:"type"`
}

// Category is the coarse subject bucket assigned by the normalizer's
// keyword heuristics.
type Category string

const (
	CategoryPolitics      Category = "politics"
	CategoryWorld         Category = "world"
	CategoryBusiness      Category = "business"
	CategoryTech          Category = "tech"
	CategorySports        Category = "sports"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryScience       Category = "science"
	CategoryOther         Category = "other"
)

// Article is an ingested RSS/Atom item, normalized and deduplicated by URL.
//
// The id is a pure function of (source, url) — see BuildArticleID — so
// re-ingesting the same URL overwrites the row in place rather than
// inserting a revision. FetchedAt is therefore immutable after the first
// write; UpdatedAt advances on every re-ingest.
type Article struct {
	ID             string            `json:"id"`
	Source         string            `json:"source"`
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Content        string            `json:"content"`
	PublishedAt    time.Time         `json:"published_at"`
	FetchedAt      time.Time         `json:"fetched_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Entities       []ExtractedEntity `json:"entities"`
	Category       Category          `json:"category"`
	Fingerprint    string            `json:"fingerprint"`
	StoryClusterID string            `json:"story_cluster_id,omitempty"`
}

// PartitionKey returns the article's partition key: the UTC calendar date
// of FetchedAt, stable across in-place updates.
func (a *Article) PartitionKey() string {
	return a.FetchedAt.UTC().Format("2006-01-02")
}
