package repository

import (
	"context"

	"newsline/internal/domain/entity"
)

// ArticleChangeEvent is one row of the raw_articles change feed: the
// article as of that write, plus the monotonic seq that becomes the
// continuation token.
type ArticleChangeEvent struct {
	Article *entity.Article
	Seq     int64
}

// ChangeFeedReader pages through a collection's change feed in seq order,
// restricted to the partitions owned by the caller (§4.6, §5 "Ordering").
type ChangeFeedReader interface {
	// ReadArticles returns up to limit article change events with seq >
	// afterSeq whose (seq % partitionCount) is in ownedPartitions, ordered
	// by seq ascending.
	ReadArticles(ctx context.Context, afterSeq int64, partitionCount int, ownedPartitions []int, limit int) ([]ArticleChangeEvent, error)
}
