// Package store implements the document-store substrate backing the
// pipeline's three collections and the change-feed lease table on top of
// Postgres: raw_articles is an `(id, partition_key, doc JSONB, version,
// seq)` table, with seq (BIGSERIAL) standing in for the change feed's
// per-partition write order; story_clusters keeps doc, version and seq
// beside promoted category/fingerprint/status/last_updated columns;
// feed_poll_states (feed_id, doc, version) and changefeed_leases have no
// seq column.
package store

import (
	"database/sql"
)

// MigrateUp creates the four collection tables and their indexes if they
// do not already exist. Safe to run on every process start.
func MigrateUp(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS raw_articles (
		    id             TEXT PRIMARY KEY,
		    source         TEXT NOT NULL,
		    url            TEXT NOT NULL,
		    partition_key  TEXT NOT NULL,
		    doc            JSONB NOT NULL,
		    version        BIGINT NOT NULL DEFAULT 1,
		    seq            BIGSERIAL,
		    UNIQUE (source, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_articles_seq ON raw_articles(seq)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_articles_partition ON raw_articles(partition_key)`,

		`CREATE TABLE IF NOT EXISTS story_clusters (
		    id             TEXT PRIMARY KEY,
		    category       TEXT NOT NULL,
		    fingerprint    TEXT NOT NULL,
		    status         TEXT NOT NULL,
		    last_updated   TIMESTAMPTZ NOT NULL,
		    doc            JSONB NOT NULL,
		    version        BIGINT NOT NULL DEFAULT 1,
		    seq            BIGSERIAL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_story_clusters_fingerprint ON story_clusters(category, fingerprint) WHERE status != 'ARCHIVED'`,
		`CREATE INDEX IF NOT EXISTS idx_story_clusters_category_updated ON story_clusters(category, last_updated DESC) WHERE status != 'ARCHIVED'`,
		`CREATE INDEX IF NOT EXISTS idx_story_clusters_seq ON story_clusters(seq)`,

		`CREATE TABLE IF NOT EXISTS feed_poll_states (
		    feed_id        TEXT PRIMARY KEY,
		    doc            JSONB NOT NULL,
		    version        BIGINT NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS changefeed_leases (
		    partition_id       INT PRIMARY KEY,
		    owner              TEXT NOT NULL DEFAULT '',
		    expires_at         TIMESTAMPTZ NOT NULL DEFAULT 'epoch',
		    continuation_token BIGINT NOT NULL DEFAULT 0,
		    version            BIGINT NOT NULL DEFAULT 1
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops all four collection tables. Destructive; intended for
// test fixtures and local development resets, not production use.
func MigrateDown(db *sql.DB) error {
	statements := []string{
		`DROP TABLE IF EXISTS changefeed_leases`,
		`DROP TABLE IF EXISTS feed_poll_states`,
		`DROP TABLE IF EXISTS story_clusters`,
		`DROP TABLE IF EXISTS raw_articles`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
