package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeItem_DropsSpam(t *testing.T) {
	item := FeedItem{Title: "Ad", URL: "https://example.com/coupons/deal"}
	_, ok := normalizeItem(context.Background(), nil, "example", item, time.Now())
	assert.False(t, ok)
}

func TestNormalizeItem_BuildsArticle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := FeedItem{
		Title:       "President Biden meets NATO leaders in Brussels",
		URL:         "https://example.com/a/1",
		Description: "<p>Leaders gathered at the summit.</p>",
	}
	article, ok := normalizeItem(context.Background(), nil, "reuters", item, now)
	require.True(t, ok)
	assert.Equal(t, "reuters", article.Source)
	assert.Equal(t, "Leaders gathered at the summit.", article.Description)
	assert.NotEmpty(t, article.Fingerprint)
	assert.Equal(t, now, article.FetchedAt)
}

func TestNormalizeItem_StripsHTMLFromTitle(t *testing.T) {
	item := FeedItem{
		Title:       "President Biden meets <b>NATO</b> leaders in Brussels",
		URL:         "https://example.com/a/1",
		Description: "Leaders gathered.",
	}
	article, ok := normalizeItem(context.Background(), nil, "reuters", item, time.Now())
	require.True(t, ok)
	assert.Equal(t, "President Biden meets NATO leaders in Brussels", article.Title)
}

type stubContentFetcher struct {
	content string
	err     error
}

func (f *stubContentFetcher) FetchContent(context.Context, string) (string, error) {
	return f.content, f.err
}

func TestNormalizeItem_EnhancesThinContent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := FeedItem{
		Title:       "President Biden meets NATO leaders in Brussels",
		URL:         "https://example.com/a/1",
		Description: "short",
		Content:     "short",
	}
	enhancer := &ContentEnhancer{
		Fetcher:   &stubContentFetcher{content: "a much longer article body fetched from the source page"},
		Threshold: 100,
	}
	article, ok := normalizeItem(context.Background(), enhancer, "reuters", item, now)
	require.True(t, ok)
	assert.Equal(t, "a much longer article body fetched from the source page", article.Content)
}

func TestNormalizeItem_KeepsRSSContentWhenFetchFails(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := FeedItem{
		Title:       "President Biden meets NATO leaders in Brussels",
		URL:         "https://example.com/a/1",
		Description: "short",
		Content:     "short rss body",
	}
	enhancer := &ContentEnhancer{
		Fetcher:   &stubContentFetcher{err: assertErr{}},
		Threshold: 100,
	}
	article, ok := normalizeItem(context.Background(), enhancer, "reuters", item, now)
	require.True(t, ok)
	assert.Equal(t, "short rss body", article.Content)
}
