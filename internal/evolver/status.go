// Package evolver implements the Status Evolver and Headline Evolver
// (§4.4, §4.5): story lifecycle transitions and headline re-synthesis at
// verification thresholds.
package evolver

import (
	"log/slog"
	"time"

	"newsline/internal/domain/entity"
)

// StatusEvolver applies the §4.4 transition table to a story in place. It
// never touches SourceArticles/UniqueSourceCount — those are the
// Clustering Engine's responsibility; this only mutates Status,
// BreakingDetectedAt, and (via AppendVersionEvent) VersionHistory.
type StatusEvolver struct {
	ArchiveAge     time.Duration
	BreakingWindow time.Duration
	Logger         *slog.Logger
}

func NewStatusEvolver(archiveAge, breakingWindow time.Duration, logger *slog.Logger) *StatusEvolver {
	return &StatusEvolver{ArchiveAge: archiveAge, BreakingWindow: breakingWindow, Logger: logger}
}

// Evaluate applies the transition table in order — first matching rule
// wins (§4.4) — and returns whether the status changed. prevCount and
// newCount must be computed by the caller as scalars captured before and
// after the source-set mutation (§4.3 Step 4, §9 "in-place mutation
// pitfall"); this function does not recompute them.
func (e *StatusEvolver) Evaluate(story *entity.StoryCluster, prevCount, newCount int, isGaining bool, now time.Time) bool {
	from := story.Status
	to := e.nextStatus(story, newCount, isGaining, now)

	if e.Logger != nil {
		e.Logger.Info("status evolution evaluated",
			slog.String("story_id", story.ID),
			slog.Int("prev_count", prevCount),
			slog.Int("new_count", newCount),
			slog.Bool("is_gaining", isGaining),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
	}

	if to == from {
		return false
	}

	if to == entity.StatusBreaking && story.BreakingDetectedAt == nil {
		detected := now
		story.BreakingDetectedAt = &detected
	}
	story.Status = to
	story.AppendVersionEvent(now, "status_changed:"+string(from)+"->"+string(to))
	return true
}

func (e *StatusEvolver) nextStatus(story *entity.StoryCluster, newCount int, isGaining bool, now time.Time) entity.Status {
	if now.Sub(story.LastUpdated) > e.ArchiveAge {
		return entity.StatusArchived
	}
	if newCount >= 3 && now.Sub(story.FirstSeen) < e.BreakingWindow {
		return entity.StatusBreaking
	}
	if (story.Status == entity.StatusDeveloping || story.Status == entity.StatusVerified) &&
		newCount >= 3 && isGaining && now.Sub(story.LastUpdated) < e.BreakingWindow {
		return entity.StatusBreaking
	}
	if story.Status == entity.StatusBreaking && now.Sub(story.LastUpdated) >= e.BreakingWindow && newCount >= 3 {
		return entity.StatusVerified
	}
	if story.Status == entity.StatusMonitoring && newCount >= 2 {
		return entity.StatusDeveloping
	}
	if story.Status == entity.StatusMonitoring && newCount == 1 {
		return entity.StatusMonitoring
	}
	return story.Status
}

// Sweep re-evaluates all non-archived stories against the time-based rules
// (archiving, BREAKING→VERIFIED) on a 2-minute timer (§4.4), independent
// of any new article arriving. isGaining is always false here since no
// source was added; only the pure time-window rules can fire.
func (e *StatusEvolver) Sweep(stories []*entity.StoryCluster, now time.Time) []*entity.StoryCluster {
	var changed []*entity.StoryCluster
	for _, story := range stories {
		if e.Evaluate(story, story.UniqueSourceCount, story.UniqueSourceCount, false, now) {
			changed = append(changed, story)
		}
	}
	return changed
}
