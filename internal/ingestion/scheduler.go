package ingestion

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"
)

// SchedulerConfig collects the §4.1/§6 tunables: tick cadence, feeds
// polled per tick, per-feed backoff bounds, and the deadline for a single
// feed's fetch-and-store.
type SchedulerConfig struct {
	TickInterval    time.Duration
	FeedsPerTick    int
	BackoffBase     time.Duration
	BackoffCap      time.Duration
	ArticleDeadline time.Duration
}

// Scheduler implements the Ingestion Scheduler use case: on a fixed tick,
// poll up to FeedsPerTick eligible feeds concurrently, normalize new
// items, and upsert them into the article collection. Clustering is
// deliberately not invoked here — it runs off the raw_articles change
// feed in a separate consumer (§4.6), decoupling ingestion throughput
// from clustering latency.
type Scheduler struct {
	Roster          []entity.RosterEntry
	FeedPolls       repository.FeedPollRepository
	Articles        repository.ArticleRepository
	Fetcher         FeedFetcher
	ContentEnhancer *ContentEnhancer
	Config          SchedulerConfig
	Logger          *slog.Logger
}

func NewScheduler(roster []entity.RosterEntry, feedPolls repository.FeedPollRepository, articles repository.ArticleRepository, fetcher FeedFetcher, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{Roster: roster, FeedPolls: feedPolls, Articles: articles, Fetcher: fetcher, Config: cfg, Logger: logger}
}

// Run blocks, ticking every Config.TickInterval until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one polling cycle: select eligible feeds, fetch up to
// FeedsPerTick of them concurrently, each bounded by ArticleDeadline.
func (s *Scheduler) Tick(ctx context.Context) {
	eligible, err := s.FeedPolls.EligibleFeeds(ctx, s.Roster, s.Config.FeedsPerTick)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("failed to load eligible feeds", slog.String("error", err.Error()))
		}
		return
	}
	if len(eligible) == 0 {
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, entry := range eligible {
		entry := entry
		eg.Go(func() error {
			s.pollFeed(egCtx, entry)
			return nil
		})
	}
	_ = eg.Wait()
}

// pollFeed fetches one feed, normalizes and upserts its new items, and
// records the resulting poll state (§4.1 steps 1-2, 4-5). Fetch and
// per-item errors are logged and do not abort the tick.
func (s *Scheduler) pollFeed(ctx context.Context, roster entity.RosterEntry) {
	ctx, cancel := context.WithTimeout(ctx, s.Config.ArticleDeadline)
	defer cancel()

	now := time.Now()
	state, err := s.FeedPolls.Get(ctx, roster.Slug)
	if err != nil && err != entity.ErrNotFound {
		if s.Logger != nil {
			s.Logger.Error("failed to load feed poll state", slog.String("feed", roster.Slug), slog.String("error", err.Error()))
		}
		return
	}
	if state == nil {
		state = &entity.FeedPollState{FeedID: roster.Slug}
	}

	result, err := s.Fetcher.Fetch(ctx, roster.URL, state.LastETag, state.LastModified)
	if err != nil {
		s.recordFailure(ctx, state, now)
		if s.Logger != nil {
			s.Logger.Warn("feed fetch failed", slog.String("feed", roster.Slug), slog.String("error", err.Error()))
		}
		return
	}

	state.LastPolledAt = now
	state.LastSuccessfulAt = now
	state.ConsecutiveFailures = 0
	state.NextEligibleAt = now.Add(s.Config.TickInterval)

	if result.NotModified {
		if err := s.FeedPolls.Upsert(ctx, state); err != nil && s.Logger != nil {
			s.Logger.Error("failed to persist poll state", slog.String("feed", roster.Slug), slog.String("error", err.Error()))
		}
		return
	}

	state.LastETag = result.ETag
	state.LastModified = result.LastModified

	s.ingestItems(ctx, roster, result.Items, now)

	if err := s.FeedPolls.Upsert(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Error("failed to persist poll state", slog.String("feed", roster.Slug), slog.String("error", err.Error()))
	}
}

// ingestItems normalizes and upserts every fetched item, new or already
// seen. A re-seen URL still goes through the full upsert so a publisher's
// title/content revision is captured (§3, §4.1 step 2): the article
// collection is update-in-place, not insert-only. existing is consulted
// only to log how much of a tick's work is revisions versus new articles,
// never to skip the write.
func (s *Scheduler) ingestItems(ctx context.Context, roster entity.RosterEntry, items []FeedItem, now time.Time) {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	existing, err := s.Articles.ExistsByURLBatch(ctx, roster.Slug, urls)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("batch existence check failed", slog.String("feed", roster.Slug), slog.String("error", err.Error()))
		}
		existing = nil
	}

	revised := 0
	for _, item := range items {
		if existing[item.URL] {
			revised++
		}
		article, ok := normalizeItem(ctx, s.ContentEnhancer, roster.Slug, item, now)
		if !ok {
			continue
		}
		if article.Category == entity.CategoryOther && roster.Category != "" {
			article.Category = roster.Category
		}
		if err := s.Articles.Upsert(ctx, article); err != nil && s.Logger != nil {
			s.Logger.Error("failed to upsert article",
				slog.String("feed", roster.Slug), slog.String("url", item.URL), slog.String("error", err.Error()))
		}
	}
	if revised > 0 && s.Logger != nil {
		s.Logger.Debug("reingested previously seen items", slog.String("feed", roster.Slug), slog.Int("count", revised))
	}
}

func (s *Scheduler) recordFailure(ctx context.Context, state *entity.FeedPollState, now time.Time) {
	state.LastPolledAt = now
	state.ConsecutiveFailures++
	state.NextEligibleAt = now.Add(backoffDelay(state.ConsecutiveFailures, s.Config.BackoffBase, s.Config.BackoffCap))
	if err := s.FeedPolls.Upsert(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Error("failed to persist poll state after failure", slog.String("feed", state.FeedID), slog.String("error", err.Error()))
	}
}
