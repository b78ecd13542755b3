package evolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"newsline/internal/domain/entity"
)

// HeadlineSynthesizer is the narrow contract with the external
// summarization collaborator (§4.5, §6): given the story's current title
// and the titles of up to 10 source articles, return one candidate
// headline synthesizing the latest, most-specific, multi-source-consensus
// framing.
type HeadlineSynthesizer interface {
	Synthesize(ctx context.Context, currentTitle string, sourceTitles []string) (string, error)
}

const maxHeadlineSourceTitles = 10

var placeholderStrings = []string{
	"todo", "tbd", "[headline]", "untitled", "no title", "n/a",
}

// validateHeadline applies §4.5's validation: word count 6-20, no
// placeholder strings, non-identical to the input title. On failure the
// caller keeps the existing title.
func validateHeadline(candidate, currentTitle string) bool {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return false
	}
	words := strings.Fields(trimmed)
	if len(words) < 6 || len(words) > 20 {
		return false
	}
	if strings.EqualFold(trimmed, strings.TrimSpace(currentTitle)) {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, placeholder := range placeholderStrings {
		if strings.Contains(lower, placeholder) {
			return false
		}
	}
	return true
}

// HeadlineEvolver drives the Headline Evolver use case: invoke the
// synthesizer at thresholds, validate the result, apply it, and record a
// headline_changed version event only when the title actually mutates.
type HeadlineEvolver struct {
	Synthesizer HeadlineSynthesizer
	Logger      *slog.Logger
}

func NewHeadlineEvolver(synth HeadlineSynthesizer, logger *slog.Logger) *HeadlineEvolver {
	return &HeadlineEvolver{Synthesizer: synth, Logger: logger}
}

// TitleForSources truncates the given source titles to the §4.5 limit of
// 10, preferring the most recently attached.
func TitleForSources(sourceTitles []string) []string {
	if len(sourceTitles) <= maxHeadlineSourceTitles {
		return sourceTitles
	}
	return sourceTitles[len(sourceTitles)-maxHeadlineSourceTitles:]
}

// Apply invokes the synthesizer, validates the result, and — only on a
// valid, mutating candidate — updates story.Title and appends a
// headline_changed version event. A synthesizer error or a validation
// failure keeps the existing title (§4.5, §7 "Summarizer failure").
func (e *HeadlineEvolver) Apply(ctx context.Context, story *entity.StoryCluster, sourceTitles []string, now time.Time) bool {
	candidate, err := e.Synthesizer.Synthesize(ctx, story.Title, TitleForSources(sourceTitles))
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("headline synthesis failed, keeping existing title",
				slog.String("story_id", story.ID), slog.String("error", err.Error()))
		}
		return false
	}
	if !validateHeadline(candidate, story.Title) {
		if e.Logger != nil {
			e.Logger.Warn("headline candidate failed validation, keeping existing title",
				slog.String("story_id", story.ID), slog.String("candidate", candidate))
		}
		return false
	}

	story.Title = strings.TrimSpace(candidate)
	story.AppendVersionEvent(now, "headline_changed")
	return true
}

// ShouldSynthesize reports whether newCount crossed a §4.3 Step 4
// threshold or the story just transitioned to BREAKING.
func ShouldSynthesize(newCount int, thresholds []int, justEnteredBreaking bool) bool {
	if justEnteredBreaking {
		return true
	}
	for _, t := range thresholds {
		if newCount == t {
			return true
		}
	}
	return false
}
