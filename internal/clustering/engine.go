// Package clustering implements the Clustering Engine use case (§4.3):
// matching a freshly ingested article against existing story clusters, or
// starting a new one, and driving the Status/Headline evolvers off the
// resulting source-count delta.
package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/evolver"
	"newsline/internal/normalize"
	"newsline/internal/repository"
)

// Config collects the thresholds the engine needs from the pipeline
// configuration, decoupling this package from internal/config.
type Config struct {
	FuzzySimilarityThreshold  float64
	StrongSimilarityThreshold float64
	MinSharedEntities         int
	CandidateLimit            int
	MaxVersionConflictRetries int
	HeadlineThresholds        []int
}

// Engine wires the repositories and evolvers that implement §4.3 Steps
// 1-5: fingerprint match, fuzzy candidate search, topic-conflict filter,
// attach-to-story, and create-story.
type Engine struct {
	Articles repository.ArticleRepository
	Stories  repository.StoryRepository

	StatusEvolver   *evolver.StatusEvolver
	HeadlineEvolver *evolver.HeadlineEvolver

	Config Config
	Logger *slog.Logger
}

func New(articles repository.ArticleRepository, stories repository.StoryRepository, statusEvolver *evolver.StatusEvolver, headlineEvolver *evolver.HeadlineEvolver, cfg Config, logger *slog.Logger) *Engine {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 500
	}
	if cfg.MaxVersionConflictRetries <= 0 {
		cfg.MaxVersionConflictRetries = 3
	}
	if len(cfg.HeadlineThresholds) == 0 {
		cfg.HeadlineThresholds = []int{3, 5, 10, 15}
	}
	return &Engine{
		Articles: articles, Stories: stories,
		StatusEvolver: statusEvolver, HeadlineEvolver: headlineEvolver,
		Config: cfg, Logger: logger,
	}
}

// Process runs an ingested article through the full clustering pipeline
// and returns the story it ended up attached to (existing or newly
// created). now is threaded through explicitly so tests are deterministic.
func (e *Engine) Process(ctx context.Context, article *entity.Article, now time.Time) (*entity.StoryCluster, error) {
	// Step 1: fingerprint O(1) match, skipping archived stories.
	if article.Fingerprint != "" {
		existing, err := e.Stories.GetByFingerprint(ctx, article.Category, article.Fingerprint)
		if err != nil && err != entity.ErrNotFound {
			return nil, fmt.Errorf("fingerprint lookup: %w", err)
		}
		if existing != nil && existing.Status != entity.StatusArchived {
			return e.attach(ctx, existing, article, now)
		}
	}

	// Step 2: fuzzy candidate search among non-archived stories in the
	// same category.
	candidates, err := e.Stories.CandidatesInCategory(ctx, article.Category, e.Config.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("candidate search: %w", err)
	}

	best, _, found := e.bestMatch(article, candidates)
	if found {
		return e.attach(ctx, best, article, now)
	}

	// Step 5: no acceptable match — start a new story.
	return e.create(ctx, article, now)
}

// bestMatch implements Step 2 (score, rank) and Step 3 (topic-conflict
// filter, minimum shared entities) together: the highest-scoring candidate
// that clears both the fuzzy threshold and the Step 3 filters.
func (e *Engine) bestMatch(article *entity.Article, candidates []*entity.StoryCluster) (*entity.StoryCluster, int, bool) {
	var best *entity.StoryCluster
	var bestScore float64
	var bestShared int

	for _, story := range candidates {
		storyEntities := normalize.ExtractEntities(story.Title)
		score, shared := similarity(article.Title, article.Entities, story.Title, storyEntities)
		if score < e.Config.FuzzySimilarityThreshold {
			continue
		}
		if topicConflict(article.Entities, story.Title, storyEntities) {
			continue
		}
		// Below the "strong" threshold, require a minimum number of
		// shared entities to guard against coincidental title overlap.
		if score < e.Config.StrongSimilarityThreshold && shared < e.Config.MinSharedEntities {
			continue
		}
		if score > bestScore {
			best, bestScore, bestShared = story, score, shared
		}
	}
	return best, bestShared, best != nil
}

// attach implements Step 4: add the article to an existing story,
// recompute the source count, and drive the evolvers off the delta.
//
// The is_gaining signal must compare the source count BEFORE this
// article's attachment against the count AFTER — prevCount is captured as
// a plain int here, before SourceArticles is mutated, and never
// recomputed from the (by-then-mutated) collection. Re-deriving prevCount
// by re-reading story.SourceArticles after the append always yields
// prevCount == newCount, which forces is_gaining permanently false and
// silently breaks the BREAKING promotion rule (§9).
func (e *Engine) attach(ctx context.Context, story *entity.StoryCluster, article *entity.Article, now time.Time) (*entity.StoryCluster, error) {
	for attempt := 0; attempt < e.Config.MaxVersionConflictRetries; attempt++ {
		if attempt > 0 {
			refreshed, err := e.Stories.Get(ctx, story.ID)
			if err != nil {
				return nil, fmt.Errorf("reload story after version conflict: %w", err)
			}
			story = refreshed
		}

		if story.HasSource(article.ID) {
			if err := e.Articles.SetStoryCluster(ctx, article.ID, story.ID); err != nil {
				return nil, fmt.Errorf("set story cluster: %w", err)
			}
			return story, nil
		}

		prevCount := story.UniqueSourceCount

		story.SourceArticles = append(story.SourceArticles, article.ID)
		newCount, err := e.uniqueSourceCount(ctx, story.SourceArticles)
		if err != nil {
			return nil, fmt.Errorf("recompute unique source count: %w", err)
		}
		story.UniqueSourceCount = newCount
		story.VerificationLevel = newCount

		isGaining := newCount > prevCount
		if isGaining {
			story.LastUpdated = now
		}

		justEnteredBreaking := false
		if e.StatusEvolver != nil {
			before := story.Status
			if e.StatusEvolver.Evaluate(story, prevCount, newCount, isGaining, now) {
				justEnteredBreaking = before != entity.StatusBreaking && story.Status == entity.StatusBreaking
			}
		}

		if e.HeadlineEvolver != nil && evolver.ShouldSynthesize(newCount, e.Config.HeadlineThresholds, justEnteredBreaking) {
			sourceTitles, err := e.recentSourceTitles(ctx, story)
			if err != nil {
				if e.Logger != nil {
					e.Logger.Warn("failed to load source titles for headline synthesis",
						slog.String("story_id", story.ID), slog.String("error", err.Error()))
				}
			} else {
				e.HeadlineEvolver.Apply(ctx, story, sourceTitles, now)
			}
		}

		err = e.Stories.Update(ctx, story)
		if err == nil {
			if err := e.Articles.SetStoryCluster(ctx, article.ID, story.ID); err != nil {
				return nil, fmt.Errorf("set story cluster: %w", err)
			}
			return story, nil
		}
		if err != entity.ErrVersionConflict {
			return nil, fmt.Errorf("update story: %w", err)
		}
		if e.Logger != nil {
			e.Logger.Warn("story version conflict, retrying", slog.String("story_id", story.ID), slog.Int("attempt", attempt))
		}
	}
	return nil, fmt.Errorf("attach to story %s: %w after %d attempts", story.ID, entity.ErrVersionConflict, e.Config.MaxVersionConflictRetries)
}

// create implements Step 5: a fresh single-source story.
func (e *Engine) create(ctx context.Context, article *entity.Article, now time.Time) (*entity.StoryCluster, error) {
	story := &entity.StoryCluster{
		ID:                entity.NewStoryID(now),
		Title:             article.Title,
		Fingerprint:       article.Fingerprint,
		Category:          article.Category,
		SourceArticles:    []string{article.ID},
		UniqueSourceCount: 1,
		VerificationLevel: 1,
		Status:            entity.StatusMonitoring,
		FirstSeen:         now,
		LastUpdated:       now,
		VersionHistory:    nil,
	}
	if err := e.Stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	if err := e.Articles.SetStoryCluster(ctx, article.ID, story.ID); err != nil {
		return nil, fmt.Errorf("set story cluster: %w", err)
	}
	return story, nil
}

// uniqueSourceCount recomputes the cardinality of distinct Source values
// across a story's member articles — never len(sourceArticleIDs), which
// would double-count multiple articles from the same outlet.
func (e *Engine) uniqueSourceCount(ctx context.Context, articleIDs []string) (int, error) {
	sources, err := e.Articles.SourcesForIDs(ctx, articleIDs)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		seen[src] = true
	}
	return len(seen), nil
}

// recentSourceTitles loads the titles of a story's member articles for the
// headline synthesizer (§4.5), in stored (attachment) order, oldest first;
// evolver.TitleForSources keeps the most recent of them.
func (e *Engine) recentSourceTitles(ctx context.Context, story *entity.StoryCluster) ([]string, error) {
	titles := make([]string, 0, len(story.SourceArticles))
	for _, id := range story.SourceArticles {
		article, err := e.Articles.Get(ctx, id)
		if err != nil {
			if err == entity.ErrNotFound {
				continue
			}
			return nil, err
		}
		titles = append(titles, article.Title)
	}
	return titles, nil
}

