package evolver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newsline/internal/domain/entity"
	"newsline/internal/evolver"
)

type stubSynthesizer struct {
	headline string
	err      error
}

func (s stubSynthesizer) Synthesize(_ context.Context, _ string, _ []string) (string, error) {
	return s.headline, s.err
}

func TestHeadlineEvolver_AppliesValidCandidate(t *testing.T) {
	story := &entity.StoryCluster{ID: "story_x", Title: "Old headline here"}
	e := evolver.NewHeadlineEvolver(stubSynthesizer{headline: "Ceasefire holds as regional leaders meet for talks"}, nil)

	changed := e.Apply(context.Background(), story, []string{"a", "b"}, time.Now())
	assert.True(t, changed)
	assert.Equal(t, "Ceasefire holds as regional leaders meet for talks", story.Title)
	assert.Len(t, story.VersionHistory, 1)
	assert.Equal(t, "headline_changed", story.VersionHistory[0].Event)
}

func TestHeadlineEvolver_KeepsTitleOnSynthesizerError(t *testing.T) {
	story := &entity.StoryCluster{ID: "story_x", Title: "Old headline here"}
	e := evolver.NewHeadlineEvolver(stubSynthesizer{err: errors.New("timeout")}, nil)

	changed := e.Apply(context.Background(), story, nil, time.Now())
	assert.False(t, changed)
	assert.Equal(t, "Old headline here", story.Title)
	assert.Empty(t, story.VersionHistory)
}

func TestHeadlineEvolver_RejectsTooShortCandidate(t *testing.T) {
	story := &entity.StoryCluster{ID: "story_x", Title: "Old headline here"}
	e := evolver.NewHeadlineEvolver(stubSynthesizer{headline: "Too short"}, nil)

	changed := e.Apply(context.Background(), story, nil, time.Now())
	assert.False(t, changed)
	assert.Equal(t, "Old headline here", story.Title)
}

func TestShouldSynthesize_AtThresholds(t *testing.T) {
	thresholds := []int{3, 5, 10, 15}
	assert.True(t, evolver.ShouldSynthesize(3, thresholds, false))
	assert.True(t, evolver.ShouldSynthesize(5, thresholds, false))
	assert.False(t, evolver.ShouldSynthesize(4, thresholds, false))
	assert.True(t, evolver.ShouldSynthesize(4, thresholds, true))
}
