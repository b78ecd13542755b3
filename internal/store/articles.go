package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"

	"github.com/lib/pq"
)

// ArticleStore implements repository.ArticleRepository and
// repository.ChangeFeedReader against the raw_articles table.
type ArticleStore struct{ db *sql.DB }

func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

var _ repository.ArticleRepository = (*ArticleStore)(nil)
var _ repository.ChangeFeedReader = (*ArticleStore)(nil)

// Upsert writes the article, preserving fetched_at and bumping updated_at
// on conflict (§4.1 step 2). The conflict target is (source, url), not
// id, since id is itself derived from that pair — but a fresh row still
// needs fetched_at set by the caller before the first write.
func (s *ArticleStore) Upsert(ctx context.Context, article *entity.Article) error {
	doc, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("Upsert: marshal: %w", err)
	}

	const query = `
INSERT INTO raw_articles (id, source, url, partition_key, doc, version)
VALUES ($1, $2, $3, $4, $5, 1)
ON CONFLICT (source, url) DO UPDATE SET
    doc     = jsonb_set($5::jsonb, '{fetched_at}', raw_articles.doc->'fetched_at'),
    version = raw_articles.version + 1,
    seq     = nextval(pg_get_serial_sequence('raw_articles', 'seq'))`

	_, err = s.db.ExecContext(ctx, query,
		article.ID, article.Source, article.URL, article.PartitionKey(), doc)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

func (s *ArticleStore) Get(ctx context.Context, id string) (*entity.Article, error) {
	const query = `SELECT doc FROM raw_articles WHERE id = $1`
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	var article entity.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		return nil, fmt.Errorf("Get: unmarshal: %w", err)
	}
	return &article, nil
}

// ExistsByURLBatch reports which of urls already have a row for source,
// avoiding an N+1 existence check per feed entry (grounded on the
// teacher's ExistsByURLBatch).
func (s *ArticleStore) ExistsByURLBatch(ctx context.Context, source string, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return map[string]bool{}, nil
	}

	const query = `SELECT url FROM raw_articles WHERE source = $1 AND url = ANY($2)`
	rows, err := s.db.QueryContext(ctx, query, source, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: scan: %w", err)
		}
		result[url] = true
	}
	return result, rows.Err()
}

func (s *ArticleStore) SetStoryCluster(ctx context.Context, articleID, storyClusterID string) error {
	const query = `UPDATE raw_articles SET doc = jsonb_set(doc, '{story_cluster_id}', to_jsonb($2::text)) WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, articleID, storyClusterID)
	if err != nil {
		return fmt.Errorf("SetStoryCluster: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SourcesForIDs resolves the source field for a batch of article ids, used
// by the Clustering Engine to recompute unique_source_count without
// re-fetching whole documents.
func (s *ArticleStore) SourcesForIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	const query = `SELECT id, source FROM raw_articles WHERE id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("SourcesForIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]string, len(ids))
	for rows.Next() {
		var id, src string
		if err := rows.Scan(&id, &src); err != nil {
			return nil, fmt.Errorf("SourcesForIDs: scan: %w", err)
		}
		result[id] = src
	}
	return result, rows.Err()
}

// ReadArticles pages the raw_articles change feed ordered by seq,
// restricted to the partitions this worker's lease owns.
func (s *ArticleStore) ReadArticles(ctx context.Context, afterSeq int64, partitionCount int, ownedPartitions []int, limit int) ([]repository.ArticleChangeEvent, error) {
	if len(ownedPartitions) == 0 {
		return nil, nil
	}

	const query = `
SELECT doc, seq FROM raw_articles
WHERE seq > $1 AND (seq % $2) = ANY($3)
ORDER BY seq ASC
LIMIT $4`
	rows, err := s.db.QueryContext(ctx, query, afterSeq, partitionCount, pq.Array(ownedPartitions), limit)
	if err != nil {
		return nil, fmt.Errorf("ReadArticles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []repository.ArticleChangeEvent
	for rows.Next() {
		var raw []byte
		var seq int64
		if err := rows.Scan(&raw, &seq); err != nil {
			return nil, fmt.Errorf("ReadArticles: scan: %w", err)
		}
		var article entity.Article
		if err := json.Unmarshal(raw, &article); err != nil {
			return nil, fmt.Errorf("ReadArticles: unmarshal: %w", err)
		}
		events = append(events, repository.ArticleChangeEvent{Article: &article, Seq: seq})
	}
	return events, rows.Err()
}
