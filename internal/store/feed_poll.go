package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"

	"github.com/lib/pq"
)

// FeedPollStore implements repository.FeedPollRepository against the
// feed_poll_states table, kept separate from story_clusters per §6/§9.
type FeedPollStore struct{ db *sql.DB }

func NewFeedPollStore(db *sql.DB) *FeedPollStore {
	return &FeedPollStore{db: db}
}

var _ repository.FeedPollRepository = (*FeedPollStore)(nil)

func (s *FeedPollStore) Get(ctx context.Context, feedID string) (*entity.FeedPollState, error) {
	const query = `SELECT doc FROM feed_poll_states WHERE feed_id = $1`
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, feedID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	var state entity.FeedPollState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("Get: unmarshal: %w", err)
	}
	return &state, nil
}

func (s *FeedPollStore) Upsert(ctx context.Context, state *entity.FeedPollState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("Upsert: marshal: %w", err)
	}

	const query = `
INSERT INTO feed_poll_states (feed_id, doc, version)
VALUES ($1, $2, 1)
ON CONFLICT (feed_id) DO UPDATE SET doc = $2, version = feed_poll_states.version + 1`
	_, err = s.db.ExecContext(ctx, query, state.FeedID, doc)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// EligibleFeeds filters roster by the §4.1 eligibility rule: now >=
// next_eligible_at. A feed absent from feed_poll_states (never polled) is
// always eligible.
func (s *FeedPollStore) EligibleFeeds(ctx context.Context, roster []entity.RosterEntry, limit int) ([]entity.RosterEntry, error) {
	states, err := s.loadStates(ctx, roster)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var eligible []entity.RosterEntry
	for _, entry := range roster {
		state, polled := states[entry.Slug]
		if !polled || !now.Before(state.NextEligibleAt) {
			eligible = append(eligible, entry)
			if len(eligible) == limit {
				break
			}
		}
	}
	return eligible, nil
}

// loadStates batch-fetches poll state for the whole roster in one query,
// the same N+1 avoidance the teacher applies to article existence checks.
func (s *FeedPollStore) loadStates(ctx context.Context, roster []entity.RosterEntry) (map[string]entity.FeedPollState, error) {
	slugs := make([]string, len(roster))
	for i, entry := range roster {
		slugs[i] = entry.Slug
	}

	const query = `SELECT doc FROM feed_poll_states WHERE feed_id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("loadStates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]entity.FeedPollState, len(roster))
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("loadStates: scan: %w", err)
		}
		var state entity.FeedPollState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("loadStates: unmarshal: %w", err)
		}
		result[state.FeedID] = state
	}
	return result, rows.Err()
}
