// Command ingestor runs the Ingestion Scheduler: it polls the configured
// feed roster on a fixed cadence, normalizes new items (optionally
// enhancing thin RSS content via Readability), and upserts them into the
// raw_articles collection. Clustering runs out-of-process, off the
// resulting change feed, in cmd/clusterworker.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"newsline/internal/config"
	"newsline/internal/httpclient"
	"newsline/internal/infra/db"
	"newsline/internal/infra/fetcher"
	"newsline/internal/infra/worker"
	"newsline/internal/ingestion"
	"newsline/internal/observability/logging"
	"newsline/internal/store"
)

func main() {
	logger := logging.NewLogger()

	rosterPath := os.Getenv("FEED_ROSTER_PATH")
	if rosterPath == "" {
		rosterPath = "config/feeds.yaml"
	}
	roster, err := config.LoadRoster(rosterPath)
	if err != nil {
		logger.Error("failed to load feed roster", slog.String("path", rosterPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := config.LoadFromEnv(logger)

	conn := db.Open()
	defer func() { _ = conn.Close() }()
	if err := db.MigrateUp(conn); err != nil {
		logger.Error("failed to migrate database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	articles := store.NewArticleStore(conn)
	feedPolls := store.NewFeedPollStore(conn)

	client := httpclient.New(httpclient.DefaultConfig())

	var enhancer *ingestion.ContentEnhancer
	fetchCfg := fetcher.DefaultConfig()
	if fetchCfg.Enabled {
		enhancer = &ingestion.ContentEnhancer{
			Fetcher:   fetcher.NewReadabilityFetcher(fetchCfg),
			Threshold: fetchCfg.Threshold,
			Logger:    logger,
		}
	}

	scheduler := ingestion.NewScheduler(roster, feedPolls, articles, ingestion.NewRSSFetcher(client),
		ingestion.SchedulerConfig{
			TickInterval:    cfg.PollTickSeconds,
			FeedsPerTick:    cfg.PollsPerTick,
			BackoffBase:     cfg.PollBackoffBase,
			BackoffCap:      cfg.PollBackoffCap,
			ArticleDeadline: cfg.ArticleDeadline,
		}, logger)
	scheduler.ContentEnhancer = enhancer

	healthAddr := os.Getenv("HEALTH_ADDR")
	if healthAddr == "" {
		healthAddr = ":9091"
	}
	healthServer := worker.NewHealthServer(healthAddr, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.String("error", err.Error()))
		}
	}()
	healthServer.SetReady(true)

	logger.Info("ingestor started",
		slog.Int("roster_size", len(roster)),
		slog.Duration("tick_interval", cfg.PollTickSeconds),
		slog.Int("feeds_per_tick", cfg.PollsPerTick))

	scheduler.Run(ctx)

	logger.Info("ingestor shutting down")
}
