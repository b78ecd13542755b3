// Package changefeed implements the change-feed lease consumer (§4.6):
// partitioned, crash-safe workers that read newly ingested articles off
// the raw_articles change feed and hand each one to the Clustering Engine.
package changefeed

import (
	"context"
	"log/slog"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"
)

// Processor is the downstream consumer of each change-feed event — the
// Clustering Engine in production, a stub in tests.
type Processor interface {
	Process(ctx context.Context, article *entity.Article, now time.Time) (*entity.StoryCluster, error)
}

// Config collects the §4.6/§6 tunables for one consumer instance.
type Config struct {
	PartitionCount  int
	OwnedPartitions []int
	LeaseTTLSeconds int64
	PageSize        int
	PollInterval    time.Duration
}

// Consumer owns a fixed set of change-feed partitions and drives articles
// written to them through Processor in seq order.
type Consumer struct {
	Owner     string
	Leases    repository.LeaseRepository
	Articles  repository.ChangeFeedReader
	Processor Processor
	Config    Config
	Logger    *slog.Logger
}

func NewConsumer(owner string, leases repository.LeaseRepository, articles repository.ChangeFeedReader, processor Processor, cfg Config, logger *slog.Logger) *Consumer {
	return &Consumer{Owner: owner, Leases: leases, Articles: articles, Processor: processor, Config: cfg, Logger: logger}
}

// Run acquires every owned partition's lease, then loops reading and
// processing pages until ctx is canceled. Leases are renewed on a
// background ticker (every TTL/6, per §4.6) and released on exit.
func (c *Consumer) Run(ctx context.Context) {
	leases := make(map[int]*entity.Lease, len(c.Config.OwnedPartitions))
	for _, partition := range c.Config.OwnedPartitions {
		lease, err := c.Leases.Acquire(ctx, partition, c.Owner, c.Config.LeaseTTLSeconds)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Error("failed to acquire partition lease",
					slog.Int("partition", partition), slog.String("error", err.Error()))
			}
			continue
		}
		leases[partition] = lease
	}
	defer c.releaseAll(leases)

	renewInterval := time.Duration(c.Config.LeaseTTLSeconds) * time.Second / 6
	if renewInterval <= 0 {
		renewInterval = 10 * time.Second
	}
	renewTicker := time.NewTicker(renewInterval)
	defer renewTicker.Stop()

	pollTicker := time.NewTicker(c.Config.PollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-renewTicker.C:
			c.renewAll(ctx, leases)
		case <-pollTicker.C:
			c.pollOnce(ctx, leases)
		}
	}
}

func (c *Consumer) renewAll(ctx context.Context, leases map[int]*entity.Lease) {
	for partition, lease := range leases {
		if err := c.Leases.Renew(ctx, partition, c.Owner, c.Config.LeaseTTLSeconds); err != nil {
			if c.Logger != nil {
				c.Logger.Warn("lease renewal failed, reacquiring", slog.Int("partition", partition), slog.String("error", err.Error()))
			}
			renewed, acqErr := c.Leases.Acquire(ctx, partition, c.Owner, c.Config.LeaseTTLSeconds)
			if acqErr != nil {
				delete(leases, partition)
				continue
			}
			leases[partition] = renewed
			continue
		}
		lease.ExpiresAt = time.Now().Add(time.Duration(c.Config.LeaseTTLSeconds) * time.Second)
	}
}

func (c *Consumer) releaseAll(leases map[int]*entity.Lease) {
	ctx := context.Background()
	for partition := range leases {
		if err := c.Leases.Release(ctx, partition, c.Owner); err != nil && c.Logger != nil {
			c.Logger.Warn("failed to release lease on shutdown", slog.Int("partition", partition), slog.String("error", err.Error()))
		}
	}
}

// pollOnce reads and processes one page of events per currently-held
// partition, advancing (and checkpointing) the continuation token on
// success.
func (c *Consumer) pollOnce(ctx context.Context, leases map[int]*entity.Lease) {
	for partition, lease := range leases {
		events, err := c.Articles.ReadArticles(ctx, lease.ContinuationToken, c.Config.PartitionCount, []int{partition}, c.Config.PageSize)
		if err != nil {
			if c.Logger != nil {
				c.Logger.Error("failed to read change feed page", slog.Int("partition", partition), slog.String("error", err.Error()))
			}
			continue
		}
		if len(events) == 0 {
			continue
		}

		lastSeq := lease.ContinuationToken
		failed := false
		for _, event := range events {
			if _, err := c.Processor.Process(ctx, event.Article, time.Now()); err != nil {
				failed = true
				if c.Logger != nil {
					c.Logger.Error("clustering failed for article",
						slog.String("article_id", event.Article.ID), slog.String("error", err.Error()))
				}
				continue
			}
			// Once a failure is seen, later successes in this page are not
			// checkpointed either: the token only ever advances over an
			// unbroken successful prefix, so the failed article (and
			// everything after it) is retried on the next resume.
			if !failed {
				lastSeq = event.Seq
			}
		}

		lease.ContinuationToken = lastSeq
		if err := c.Leases.Checkpoint(ctx, partition, c.Owner, lastSeq); err != nil && c.Logger != nil {
			c.Logger.Error("failed to checkpoint continuation token", slog.Int("partition", partition), slog.String("error", err.Error()))
		}
	}
}
