// Package config loads the pipeline's environment-driven settings using the
// fail-open loaders in internal/pkg/config: an invalid value is logged and
// replaced with its documented default rather than crashing the process.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"newsline/internal/pkg/config"
)

// PipelineConfig holds every tunable named in the design's "Configuration"
// section: polling cadence, backoff, clustering thresholds, headline
// thresholds, and per-operation deadlines.
type PipelineConfig struct {
	PollTickSeconds           time.Duration
	PollsPerTick              int
	PollBackoffBase           time.Duration
	PollBackoffCap            time.Duration
	FuzzySimilarityThreshold  float64
	StrongSimilarityThreshold float64
	MinSharedEntities         int
	ArchiveAge                time.Duration
	BreakingWindow            time.Duration
	HeadlineThresholds        []int
	ArticleDeadline           time.Duration
	LeaseTTLSeconds           int64
	StatusSweepInterval       time.Duration
	MaxVersionConflictRetries int
}

// DefaultConfig returns the documented defaults for every setting.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		PollTickSeconds:           10 * time.Second,
		PollsPerTick:              5,
		PollBackoffBase:           30 * time.Second,
		PollBackoffCap:            30 * time.Minute,
		FuzzySimilarityThreshold:  0.70,
		StrongSimilarityThreshold: 0.80,
		MinSharedEntities:         3,
		ArchiveAge:                24 * time.Hour,
		BreakingWindow:            30 * time.Minute,
		HeadlineThresholds:        []int{3, 5, 10, 15},
		ArticleDeadline:           10 * time.Second,
		LeaseTTLSeconds:           60,
		StatusSweepInterval:       2 * time.Minute,
		MaxVersionConflictRetries: 3,
	}
}

// LoadFromEnv loads PipelineConfig from environment variables, falling
// back to defaults on any invalid value (fail-open, per the teacher's
// WorkerConfig.LoadConfigFromEnv).
func LoadFromEnv(logger *slog.Logger) *PipelineConfig {
	cfg := DefaultConfig()

	cfg.PollTickSeconds = loadUnits(logger, "POLL_TICK_SECONDS", cfg.PollTickSeconds, time.Second, 1*time.Second, 5*time.Minute)
	cfg.PollsPerTick = loadInt(logger, "POLLS_PER_TICK", cfg.PollsPerTick, 1, 100)
	cfg.PollBackoffBase = loadDuration(logger, "POLL_BACKOFF_BASE", cfg.PollBackoffBase, 1*time.Second, time.Hour)
	cfg.PollBackoffCap = loadDuration(logger, "POLL_BACKOFF_CAP", cfg.PollBackoffCap, cfg.PollBackoffBase, 24*time.Hour)
	cfg.ArchiveAge = loadUnits(logger, "ARCHIVE_AGE_HOURS", cfg.ArchiveAge, time.Hour, time.Hour, 24*30*time.Hour)
	cfg.BreakingWindow = loadUnits(logger, "BREAKING_WINDOW_MINUTES", cfg.BreakingWindow, time.Minute, time.Minute, 24*time.Hour)
	cfg.ArticleDeadline = loadUnits(logger, "ARTICLE_DEADLINE_SECONDS", cfg.ArticleDeadline, time.Second, time.Second, time.Minute)

	leaseResult := config.LoadEnvInt("LEASE_TTL_SECONDS", int(cfg.LeaseTTLSeconds), func(v int) error {
		return config.ValidateIntRange(v, 10, 3600)
	})
	cfg.LeaseTTLSeconds = int64(leaseResult.Value.(int))
	logFallback(logger, "LeaseTTLSeconds", leaseResult)

	minShared := config.LoadEnvInt("MIN_SHARED_ENTITIES", cfg.MinSharedEntities, func(v int) error {
		return config.ValidateIntRange(v, 0, 20)
	})
	cfg.MinSharedEntities = minShared.Value.(int)
	logFallback(logger, "MinSharedEntities", minShared)

	fuzzy := config.LoadEnvFloat("FUZZY_SIMILARITY_THRESHOLD", cfg.FuzzySimilarityThreshold, func(v float64) error {
		return config.ValidateFloatRange(v, 0, 1)
	})
	cfg.FuzzySimilarityThreshold = fuzzy.Value.(float64)
	logFallback(logger, "FuzzySimilarityThreshold", fuzzy)

	strong := config.LoadEnvFloat("STRONG_SIMILARITY_THRESHOLD", cfg.StrongSimilarityThreshold, func(v float64) error {
		return config.ValidateFloatRange(v, 0, 1)
	})
	cfg.StrongSimilarityThreshold = strong.Value.(float64)
	logFallback(logger, "StrongSimilarityThreshold", strong)

	headline := config.LoadEnvIntSlice("HEADLINE_THRESHOLDS", cfg.HeadlineThresholds, validateAscendingPositive)
	cfg.HeadlineThresholds = headline.Value.([]int)
	logFallback(logger, "HeadlineThresholds", headline)

	return &cfg
}

// validateAscendingPositive enforces the shape the Headline Evolver
// expects: a non-empty, strictly increasing list of positive
// source-count thresholds (§6).
func validateAscendingPositive(values []int) error {
	if len(values) == 0 {
		return fmt.Errorf("must not be empty")
	}
	for i, v := range values {
		if v <= 0 {
			return fmt.Errorf("threshold %d must be positive", v)
		}
		if i > 0 && v <= values[i-1] {
			return fmt.Errorf("thresholds must be strictly ascending")
		}
	}
	return nil
}

func loadDuration(logger *slog.Logger, key string, def, min, max time.Duration) time.Duration {
	result := config.LoadEnvDuration(key, def, func(d time.Duration) error {
		return config.ValidateDuration(d, min, max)
	})
	logFallback(logger, key, result)
	return result.Value.(time.Duration)
}

// loadUnits reads a variable holding a whole number of units (e.g. "10" for
// POLL_TICK_SECONDS) and returns it as a duration.
func loadUnits(logger *slog.Logger, key string, def, unit, min, max time.Duration) time.Duration {
	result := config.LoadEnvInt(key, int(def/unit), func(v int) error {
		return config.ValidateDuration(time.Duration(v)*unit, min, max)
	})
	logFallback(logger, key, result)
	return time.Duration(result.Value.(int)) * unit
}

func loadInt(logger *slog.Logger, key string, def, min, max int) int {
	result := config.LoadEnvInt(key, def, func(v int) error {
		return config.ValidateIntRange(v, min, max)
	})
	logFallback(logger, key, result)
	return result.Value.(int)
}

func logFallback(logger *slog.Logger, field string, result config.ConfigLoadResult) {
	if !result.FallbackApplied || logger == nil {
		return
	}
	for _, warning := range result.Warnings {
		logger.Warn("configuration fallback applied",
			slog.String("field", field), slog.String("warning", warning))
	}
}
