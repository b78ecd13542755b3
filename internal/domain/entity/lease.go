package entity

import "time"

// Lease is a time-bounded claim on one change-feed partition. Workers
// acquire a lease with an atomic compare-and-swap on (Owner, ExpiresAt),
// renew it periodically, and release it on shutdown. If a lease expires,
// another worker resumes processing from ContinuationToken.
type Lease struct {
	PartitionID       int       `json:"partition_id"`
	Owner             string    `json:"owner"`
	ExpiresAt         time.Time `json:"expires_at"`
	ContinuationToken int64     `json:"continuation_token"`

	// Version is the optimistic-concurrency token for the CAS update.
	Version int64 `json:"-"`
}

// Expired reports whether the lease can be stolen by another worker.
func (l *Lease) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// OwnedBy reports whether owner currently holds the lease (ignoring
// expiry — callers that care about expiry should check Expired first).
func (l *Lease) OwnedBy(owner string) bool {
	return l.Owner == owner
}
