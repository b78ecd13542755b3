package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"
)

// StoryStore implements repository.StoryRepository against the
// story_clusters table.
type StoryStore struct{ db *sql.DB }

func NewStoryStore(db *sql.DB) *StoryStore {
	return &StoryStore{db: db}
}

var _ repository.StoryRepository = (*StoryStore)(nil)

func (s *StoryStore) GetByFingerprint(ctx context.Context, category entity.Category, fingerprint string) (*entity.StoryCluster, error) {
	const query = `
SELECT doc, version FROM story_clusters
WHERE category = $1 AND fingerprint = $2 AND status != 'ARCHIVED'
LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, string(category), fingerprint))
}

func (s *StoryStore) Get(ctx context.Context, id string) (*entity.StoryCluster, error) {
	const query = `SELECT doc, version FROM story_clusters WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *StoryStore) scanOne(row *sql.Row) (*entity.StoryCluster, error) {
	var raw []byte
	var version int64
	err := row.Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanOne: %w", err)
	}
	var story entity.StoryCluster
	if err := json.Unmarshal(raw, &story); err != nil {
		return nil, fmt.Errorf("scanOne: unmarshal: %w", err)
	}
	story.Version = version
	return &story, nil
}

// CandidatesInCategory returns up to limit most-recently-updated
// non-archived stories in category (§4.3 Step 2).
func (s *StoryStore) CandidatesInCategory(ctx context.Context, category entity.Category, limit int) ([]*entity.StoryCluster, error) {
	const query = `
SELECT doc, version FROM story_clusters
WHERE category = $1 AND status != 'ARCHIVED'
ORDER BY last_updated DESC
LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("CandidatesInCategory: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.scanMany(rows)
}

func (s *StoryStore) NonArchivedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.StoryCluster, error) {
	const query = `
SELECT doc, version FROM story_clusters
WHERE status != 'ARCHIVED' AND last_updated < $1
LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("NonArchivedOlderThan: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.scanMany(rows)
}

func (s *StoryStore) NonArchived(ctx context.Context, limit int) ([]*entity.StoryCluster, error) {
	const query = `SELECT doc, version FROM story_clusters WHERE status != 'ARCHIVED' LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("NonArchived: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.scanMany(rows)
}

func (s *StoryStore) scanMany(rows *sql.Rows) ([]*entity.StoryCluster, error) {
	var stories []*entity.StoryCluster
	for rows.Next() {
		var raw []byte
		var version int64
		if err := rows.Scan(&raw, &version); err != nil {
			return nil, fmt.Errorf("scanMany: scan: %w", err)
		}
		var story entity.StoryCluster
		if err := json.Unmarshal(raw, &story); err != nil {
			return nil, fmt.Errorf("scanMany: unmarshal: %w", err)
		}
		story.Version = version
		stories = append(stories, &story)
	}
	return stories, rows.Err()
}

func (s *StoryStore) Create(ctx context.Context, story *entity.StoryCluster) error {
	doc, err := json.Marshal(story)
	if err != nil {
		return fmt.Errorf("Create: marshal: %w", err)
	}

	const query = `
INSERT INTO story_clusters (id, category, fingerprint, status, last_updated, doc, version)
VALUES ($1, $2, $3, $4, $5, $6, 1)`
	_, err = s.db.ExecContext(ctx, query,
		story.ID, string(story.Category), story.Fingerprint, string(story.Status), story.LastUpdated, doc)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	story.Version = 1
	return nil
}

// Update performs the §5 "optimistic concurrency (etag / version check)"
// CAS write: it only applies if the stored version still equals
// story.Version, and bumps the version on success. Callers re-read and
// retry up to 3 times on entity.ErrVersionConflict (§5, §7).
func (s *StoryStore) Update(ctx context.Context, story *entity.StoryCluster) error {
	doc, err := json.Marshal(story)
	if err != nil {
		return fmt.Errorf("Update: marshal: %w", err)
	}

	const query = `
UPDATE story_clusters SET
    category     = $1,
    fingerprint  = $2,
    status       = $3,
    last_updated = $4,
    doc          = $5,
    version      = version + 1
WHERE id = $6 AND version = $7`
	res, err := s.db.ExecContext(ctx, query,
		string(story.Category), story.Fingerprint, string(story.Status),
		story.LastUpdated, doc, story.ID, story.Version)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrVersionConflict
	}
	story.Version++
	return nil
}
