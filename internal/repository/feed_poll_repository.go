package repository

import (
	"context"

	"newsline/internal/domain/entity"
)

// FeedPollRepository is the feed_poll_states collection — deliberately its
// own table, never co-located with stories (§6, §9 "mixed document types").
type FeedPollRepository interface {
	Get(ctx context.Context, feedID string) (*entity.FeedPollState, error)
	Upsert(ctx context.Context, state *entity.FeedPollState) error
	// EligibleFeeds returns up to limit roster entries whose poll state
	// permits polling now (§4.1 eligibility rule), joined against the
	// roster by feed id.
	EligibleFeeds(ctx context.Context, roster []entity.RosterEntry, limit int) ([]entity.RosterEntry, error)
}
