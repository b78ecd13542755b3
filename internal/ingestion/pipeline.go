package ingestion

import (
	"context"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/normalize"
)

// normalizeItem turns one fetched feed item into a fully normalized
// Article (§4.1 step 3: spam filter, HTML strip, content enhancement,
// entity extraction, categorization, fingerprinting), or ok=false if the
// item is spam and should be dropped before it ever reaches storage.
// enhancer may be nil, in which case RSS content is used as-is.
func normalizeItem(ctx context.Context, enhancer *ContentEnhancer, source string, item FeedItem, now time.Time) (*entity.Article, bool) {
	if normalize.IsSpam(item.Title, item.URL) {
		return nil, false
	}

	title := normalize.StripHTML(item.Title)
	description := normalize.StripHTML(item.Description)
	content := normalize.StripHTML(item.Content)
	content = enhancer.Enhance(ctx, item.URL, content)

	category := normalize.Categorize(title, description, item.URL)
	entities := normalize.ExtractEntities(title + " " + description + " " + content)
	fingerprint := normalize.Fingerprint(title, entities)

	article := &entity.Article{
		ID:          entity.BuildArticleID(source, item.URL),
		Source:      source,
		URL:         item.URL,
		Title:       title,
		Description: description,
		Content:     content,
		PublishedAt: item.PublishedAt,
		FetchedAt:   now,
		UpdatedAt:   now,
		Entities:    entities,
		Category:    category,
		Fingerprint: fingerprint,
	}
	return article, true
}
