package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsline/internal/domain/entity"
	"newsline/internal/repository"
)

// LeaseStore implements repository.LeaseRepository against the
// changefeed_leases table: one row per partition, seeded lazily on first
// acquire.
type LeaseStore struct{ db *sql.DB }

func NewLeaseStore(db *sql.DB) *LeaseStore {
	return &LeaseStore{db: db}
}

var _ repository.LeaseRepository = (*LeaseStore)(nil)

func (s *LeaseStore) ensureRow(ctx context.Context, partitionID int) error {
	const query = `
INSERT INTO changefeed_leases (partition_id)
VALUES ($1)
ON CONFLICT (partition_id) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query, partitionID)
	return err
}

// Acquire claims partitionID for owner via CAS: the row must currently be
// unowned, expired, or already owned by owner.
func (s *LeaseStore) Acquire(ctx context.Context, partitionID int, owner string, ttl int64) (*entity.Lease, error) {
	if err := s.ensureRow(ctx, partitionID); err != nil {
		return nil, fmt.Errorf("Acquire: ensureRow: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(ttl) * time.Second)

	const query = `
UPDATE changefeed_leases SET
    owner      = $1,
    expires_at = $2,
    version    = version + 1
WHERE partition_id = $3 AND (owner = '' OR owner = $1 OR expires_at < $4)
RETURNING continuation_token, version`

	var token, version int64
	err := s.db.QueryRowContext(ctx, query, owner, expiresAt, partitionID, now).Scan(&token, &version)
	if err == sql.ErrNoRows {
		return nil, entity.ErrLeaseNotOwned
	}
	if err != nil {
		return nil, fmt.Errorf("Acquire: %w", err)
	}
	return &entity.Lease{
		PartitionID:       partitionID,
		Owner:             owner,
		ExpiresAt:         expiresAt,
		ContinuationToken: token,
		Version:           version,
	}, nil
}

func (s *LeaseStore) Renew(ctx context.Context, partitionID int, owner string, ttl int64) error {
	expiresAt := time.Now().Add(time.Duration(ttl) * time.Second)
	const query = `
UPDATE changefeed_leases SET expires_at = $1, version = version + 1
WHERE partition_id = $2 AND owner = $3`
	res, err := s.db.ExecContext(ctx, query, expiresAt, partitionID, owner)
	if err != nil {
		return fmt.Errorf("Renew: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeaseNotOwned
	}
	return nil
}

func (s *LeaseStore) Release(ctx context.Context, partitionID int, owner string) error {
	const query = `
UPDATE changefeed_leases SET owner = '', expires_at = 'epoch', version = version + 1
WHERE partition_id = $1 AND owner = $2`
	res, err := s.db.ExecContext(ctx, query, partitionID, owner)
	if err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeaseNotOwned
	}
	return nil
}

func (s *LeaseStore) Checkpoint(ctx context.Context, partitionID int, owner string, continuationToken int64) error {
	const query = `
UPDATE changefeed_leases SET continuation_token = $1, version = version + 1
WHERE partition_id = $2 AND owner = $3`
	res, err := s.db.ExecContext(ctx, query, continuationToken, partitionID, owner)
	if err != nil {
		return fmt.Errorf("Checkpoint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeaseNotOwned
	}
	return nil
}
