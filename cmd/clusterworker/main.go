// Command clusterworker consumes the raw_articles change feed, runs each
// new article through the Clustering Engine, and drives the Status
// Evolver's periodic background sweep. This single process owns every
// change-feed partition (CHANGEFEED_PARTITION_COUNT); splitting partitions
// across replicas would mean giving each instance a disjoint subset of
// changefeed.Config.OwnedPartitions instead of allPartitions(count).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"newsline/internal/changefeed"
	"newsline/internal/clustering"
	"newsline/internal/config"
	"newsline/internal/domain/entity"
	"newsline/internal/evolver"
	"newsline/internal/infra/db"
	"newsline/internal/infra/worker"
	"newsline/internal/observability/logging"
	"newsline/internal/repository"
	"newsline/internal/store"
)

// sweepLockPartition is a reserved changefeed_leases row used as an
// advisory lock so only one clusterworker replica runs the status sweep
// at a time. It can never collide with a real change-feed partition id
// (those are always >= 0).
const sweepLockPartition = -1

func main() {
	logger := logging.NewLogger()

	cfg := config.LoadFromEnv(logger)

	conn := db.Open()
	defer func() { _ = conn.Close() }()
	if err := db.MigrateUp(conn); err != nil {
		logger.Error("failed to migrate database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	articles := store.NewArticleStore(conn)
	stories := store.NewStoryStore(conn)
	leases := store.NewLeaseStore(conn)

	statusEvolver := evolver.NewStatusEvolver(cfg.ArchiveAge, cfg.BreakingWindow, logger)
	headlineEvolver := evolver.NewHeadlineEvolver(newSynthesizer(logger), logger)

	engine := clustering.New(articles, stories, statusEvolver, headlineEvolver, clustering.Config{
		FuzzySimilarityThreshold:  cfg.FuzzySimilarityThreshold,
		StrongSimilarityThreshold: cfg.StrongSimilarityThreshold,
		MinSharedEntities:         cfg.MinSharedEntities,
		MaxVersionConflictRetries: cfg.MaxVersionConflictRetries,
		HeadlineThresholds:        cfg.HeadlineThresholds,
	}, logger)

	partitionCount := loadPartitionCount(logger)
	owner := "clusterworker-" + uuid.NewString()

	consumer := changefeed.NewConsumer(owner, leases, articles, engine, changefeed.Config{
		PartitionCount:  partitionCount,
		OwnedPartitions: allPartitions(partitionCount),
		LeaseTTLSeconds: cfg.LeaseTTLSeconds,
		PageSize:        200,
		PollInterval:    2 * time.Second,
	}, logger)

	healthAddr := os.Getenv("HEALTH_ADDR")
	if healthAddr == "" {
		healthAddr = ":9092"
	}
	healthServer := worker.NewHealthServer(healthAddr, logger)

	workerMetrics := worker.NewWorkerMetrics()
	workerMetrics.MustRegister()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.String("error", err.Error()))
		}
	}()

	sweeper := &statusSweeper{
		Stories: stories,
		Evolver: statusEvolver,
		Leases:  leases,
		Owner:   owner,
		TTL:     int64(cfg.StatusSweepInterval.Seconds()) + 30,
		Metrics: workerMetrics,
		Logger:  logger,
	}

	c := cron.New()
	if _, err := c.AddFunc("@every "+cfg.StatusSweepInterval.String(), func() { sweeper.Run(ctx) }); err != nil {
		logger.Error("failed to schedule status sweep", slog.String("error", err.Error()))
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	healthServer.SetReady(true)
	logger.Info("clusterworker started",
		slog.Int("partition_count", partitionCount),
		slog.String("owner", owner),
		slog.Duration("status_sweep_interval", cfg.StatusSweepInterval))

	consumer.Run(ctx)

	logger.Info("clusterworker shutting down")
}

func newSynthesizer(logger *slog.Logger) evolver.HeadlineSynthesizer {
	switch strings.ToLower(os.Getenv("SUMMARIZER_TYPE")) {
	case "claude":
		return evolver.NewClaudeHeadlineSynthesizer(os.Getenv("ANTHROPIC_API_KEY"))
	case "openai":
		return evolver.NewOpenAIHeadlineSynthesizer(os.Getenv("OPENAI_API_KEY"))
	default:
		logger.Info("SUMMARIZER_TYPE unset or unrecognized, headline synthesis disabled")
		return evolver.NewNoopHeadlineSynthesizer()
	}
}

func loadPartitionCount(logger *slog.Logger) int {
	raw := os.Getenv("CHANGEFEED_PARTITION_COUNT")
	if raw == "" {
		return 4
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("invalid CHANGEFEED_PARTITION_COUNT, falling back to default",
			slog.String("value", raw))
		return 4
	}
	return n
}

func allPartitions(count int) []int {
	partitions := make([]int, count)
	for i := range partitions {
		partitions[i] = i
	}
	return partitions
}

// statusSweeper runs the §4.4 background sweep, guarded by a reserved
// lease row so at most one clusterworker replica sweeps at a time.
type statusSweeper struct {
	Stories repository.StoryRepository
	Evolver *evolver.StatusEvolver
	Leases  repository.LeaseRepository
	Owner   string
	TTL     int64
	Metrics *worker.WorkerMetrics
	Logger  *slog.Logger
}

func (s *statusSweeper) Run(ctx context.Context) {
	if _, err := s.Leases.Acquire(ctx, sweepLockPartition, s.Owner, s.TTL); err != nil {
		if err != entity.ErrLeaseNotOwned && s.Logger != nil {
			s.Logger.Warn("status sweep lock acquire failed", slog.String("error", err.Error()))
		}
		return
	}

	start := time.Now()
	stories, err := s.Stories.NonArchived(ctx, 10000)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("status sweep failed to load stories", slog.String("error", err.Error()))
		}
		s.Metrics.RecordJobRun("failure")
		return
	}

	changed := s.Evolver.Sweep(stories, start)
	for _, story := range changed {
		if err := s.Stories.Update(ctx, story); err != nil && s.Logger != nil {
			s.Logger.Warn("status sweep failed to persist story",
				slog.String("story_id", story.ID), slog.String("error", err.Error()))
		}
	}

	s.Metrics.RecordJobRun("success")
	s.Metrics.RecordJobDuration(time.Since(start).Seconds())
	s.Metrics.RecordFeedsProcessed(len(changed))
	s.Metrics.RecordLastSuccess()

	if s.Logger != nil {
		s.Logger.Info("status sweep completed",
			slog.Int("stories_scanned", len(stories)),
			slog.Int("stories_changed", len(changed)),
			slog.Duration("duration", time.Since(start)))
	}
}
