package db

import "database/sql"

// MigrateUp creates the four tables the pipeline treats as a document
// store: raw_articles and story_clusters carry their payload in a jsonb
// doc column with a handful of promoted columns for indexing and CAS
// writes, feed_poll_states and changefeed_leases are small control tables.
// seq on raw_articles is the change feed cursor: monotonically increasing,
// assigned by the sequence itself, never by application code.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS raw_articles (
    id            TEXT PRIMARY KEY,
    source        TEXT NOT NULL,
    url           TEXT NOT NULL,
    partition_key TEXT NOT NULL,
    doc           JSONB NOT NULL,
    version       BIGINT NOT NULL DEFAULT 1,
    seq           BIGSERIAL,
    UNIQUE (source, url)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS story_clusters (
    id          TEXT PRIMARY KEY,
    category    VARCHAR(30) NOT NULL,
    fingerprint TEXT NOT NULL,
    status      VARCHAR(20) NOT NULL,
    last_updated TIMESTAMPTZ NOT NULL,
    doc         JSONB NOT NULL,
    version     BIGINT NOT NULL DEFAULT 1
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feed_poll_states (
    feed_id TEXT PRIMARY KEY,
    doc     JSONB NOT NULL,
    version BIGINT NOT NULL DEFAULT 1
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS changefeed_leases (
    partition_id       INTEGER PRIMARY KEY,
    owner              TEXT NOT NULL DEFAULT '',
    expires_at         TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
    continuation_token BIGINT NOT NULL DEFAULT 0,
    version            BIGINT NOT NULL DEFAULT 0
)`); err != nil {
		return err
	}

	indexes := []string{
		// ReadArticles pages the change feed ordered by seq.
		`CREATE INDEX IF NOT EXISTS idx_raw_articles_seq ON raw_articles(seq)`,
		// The clustering candidate scan filters on category/status.
		`CREATE INDEX IF NOT EXISTS idx_story_clusters_category ON story_clusters(category, status)`,
		`CREATE INDEX IF NOT EXISTS idx_story_clusters_fingerprint ON story_clusters(category, fingerprint, status)`,
		`CREATE INDEX IF NOT EXISTS idx_story_clusters_last_updated ON story_clusters(last_updated) WHERE status != 'ARCHIVED'`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops every table MigrateUp creates, in dependency order.
// Intended for test fixtures and local resets; use with caution against a
// populated database.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS changefeed_leases CASCADE`,
		`DROP TABLE IF EXISTS feed_poll_states CASCADE`,
		`DROP TABLE IF EXISTS story_clusters CASCADE`,
		`DROP TABLE IF EXISTS raw_articles CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
