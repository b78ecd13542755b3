// Package repository defines the storage-layer interfaces consumed by the
// ingestion, clustering, and evolver use cases. Concrete implementations
// live under internal/store, backed by Postgres document-store tables.
package repository

import (
	"context"

	"newsline/internal/domain/entity"
)

// ArticleRepository is the raw_articles collection (§3, §6).
type ArticleRepository interface {
	// Upsert writes the article, preserving FetchedAt and bumping UpdatedAt
	// if a row with the same id already exists (§4.1 step 2 upsert
	// semantics).
	Upsert(ctx context.Context, article *entity.Article) error
	Get(ctx context.Context, id string) (*entity.Article, error)
	// ExistsByURLBatch reports which of the given URLs already have a row,
	// keyed by URL, avoiding an N+1 existence check per feed entry.
	ExistsByURLBatch(ctx context.Context, source string, urls []string) (map[string]bool, error)
	// SetStoryCluster writes the denormalized back-pointer (§9).
	SetStoryCluster(ctx context.Context, articleID, storyClusterID string) error
	// SourcesForIDs resolves the Source field for a batch of article ids,
	// used by the Clustering Engine to recompute unique_source_count.
	SourcesForIDs(ctx context.Context, ids []string) (map[string]string, error)
}
