package usecase

import (
	"context"
	"time"

	"github.com/clariohq/tokenledger/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error)
	// GetOrCreateForUpdate resolves the wallet for accountID inside tx,
	// inserting a zero-balance wallet with newID when absent, and locks the
	// row for the remainder of the transaction. The bool reports whether the
	// wallet was created by this call.
	GetOrCreateForUpdate(ctx context.Context, tx Transaction, accountID, newID string) (*domain.Wallet, bool, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, balance, reserved, version int64, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// ListByWallet returns entries most recent first. A non-empty cursor is
	// the id of the last entry of the previous page.
	ListByWallet(ctx context.Context, walletID, cursor string, limit int) ([]*domain.LedgerEntry, error)
	// OutstandingReserved returns the reserved amount still outstanding for
	// a reservation reference: reserve entries minus release entries that
	// carry reservationID as their source reference.
	OutstandingReserved(ctx context.Context, tx Transaction, walletID, reservationID string) (int64, error)
	// ReplayTotals sums signed amounts and reserved deltas across the whole
	// ledger of a wallet.
	ReplayTotals(ctx context.Context, walletID string) (balance, reserved int64, err error)
}

// IdempotencyRepository defines data access for idempotency records.
// Records are read and written inside the same transaction as the wallet
// mutation they guard.
type IdempotencyRepository interface {
	// Get returns the record for (operation, key), or (nil, nil) when no
	// record exists.
	Get(ctx context.Context, tx Transaction, operation, key string) (*domain.IdempotencyRecord, error)
	Create(ctx context.Context, tx Transaction, record *domain.IdempotencyRecord) error
	// Delete removes the record for (operation, key) so an expired key can
	// be reused within the same transaction that re-records it.
	Delete(ctx context.Context, tx Transaction, operation, key string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts. An exhausted
// retry budget surfaces domain.ErrTransientStorage.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read views.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles the HTTP-layer replay cache. The authoritative
// guard is the IdempotencyRepository record committed with the mutation.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
