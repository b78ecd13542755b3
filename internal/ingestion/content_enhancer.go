package ingestion

import (
	"context"
	"log/slog"
	"time"

	"newsline/internal/observability/metrics"
)

// ContentFetcher fetches full article content from a URL, used to enhance
// RSS items whose feed-provided content is too thin to extract entities or
// a reliable fingerprint from (§3.2). internal/infra/fetcher.ReadabilityFetcher
// is the production implementation.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// ContentEnhancer implements the teacher's enhanceContent three-way
// fallback: skip the fetch when RSS content already clears Threshold,
// use the fetched content only if it is longer than what RSS provided,
// and fall back to RSS content on any fetch error. It never returns an
// error — content enhancement must never block ingestion.
type ContentEnhancer struct {
	Fetcher   ContentFetcher
	Threshold int
	Logger    *slog.Logger
}

// Enhance returns improved content for url, or rssContent unchanged if
// enhancement is disabled, unnecessary, or fails.
func (e *ContentEnhancer) Enhance(ctx context.Context, url, rssContent string) string {
	if e == nil || e.Fetcher == nil {
		return rssContent
	}
	if len(rssContent) >= e.Threshold {
		metrics.RecordContentFetchSkipped()
		return rssContent
	}

	start := time.Now()
	fetched, err := e.Fetcher.FetchContent(ctx, url)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordContentFetchFailed(duration)
		if e.Logger != nil {
			e.Logger.Debug("content enhancement failed, using RSS content",
				slog.String("url", url), slog.String("error", err.Error()))
		}
		return rssContent
	}

	if len(fetched) <= len(rssContent) {
		return rssContent
	}

	metrics.RecordContentFetchSuccess(duration, len(fetched))
	return fetched
}
