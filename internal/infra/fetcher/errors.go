package fetcher

import (
	"context"
	"errors"
)

// ContentFetcher fetches full article content from a URL, used to enhance
// RSS items whose feed-provided content is too thin to extract entities
// or a reliable fingerprint from (§3.2).
type ContentFetcher interface {
	// FetchContent fetches and extracts article content from the given URL.
	// The caller should fall back to RSS content on any error.
	FetchContent(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching operations, letting callers
// distinguish failure modes even though every caller in this pipeline
// falls back to RSS content regardless of which one fired.
var (
	ErrInvalidURL        = errors.New("invalid URL or unsupported scheme")
	ErrPrivateIP         = errors.New("private IP access denied (SSRF prevention)")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrBodyTooLarge      = errors.New("response body too large")
	ErrTimeout           = errors.New("request timeout")
	ErrReadabilityFailed = errors.New("content extraction failed")
)
