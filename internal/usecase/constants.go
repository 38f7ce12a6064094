package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// This prevents long-running transactions from blocking wallet rows.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is the retention window for idempotency records.
	IdempotencyKeyTTL = 24 * time.Hour

	// BalanceCacheTTL bounds staleness of the cached balance read view.
	// Mutations invalidate the key eagerly; the TTL is the fallback.
	BalanceCacheTTL = 30 * time.Second
)
