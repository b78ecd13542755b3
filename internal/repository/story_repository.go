package repository

import (
	"context"
	"time"

	"newsline/internal/domain/entity"
)

// StoryRepository is the story_clusters collection (§3, §6).
type StoryRepository interface {
	// GetByFingerprint implements the §4.3 Step 1 O(1) match.
	GetByFingerprint(ctx context.Context, category entity.Category, fingerprint string) (*entity.StoryCluster, error)
	Get(ctx context.Context, id string) (*entity.StoryCluster, error)
	// CandidatesInCategory returns up to limit most-recently-updated
	// non-archived stories in category, for the §4.3 Step 2 fuzzy search.
	CandidatesInCategory(ctx context.Context, category entity.Category, limit int) ([]*entity.StoryCluster, error)
	Create(ctx context.Context, story *entity.StoryCluster) error
	// Update performs an optimistic-concurrency CAS write: it fails with
	// entity.ErrVersionConflict if story.Version no longer matches the
	// stored row, and bumps the stored version on success.
	Update(ctx context.Context, story *entity.StoryCluster) error
	// NonArchivedOlderThan returns non-archived stories whose last_updated
	// is older than cutoff, for the background status sweep (§4.4).
	NonArchivedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.StoryCluster, error)
	// NonArchived returns all non-archived stories, for the time-window
	// rules of the background sweep that aren't purely age-based.
	NonArchived(ctx context.Context, limit int) ([]*entity.StoryCluster, error)
}
