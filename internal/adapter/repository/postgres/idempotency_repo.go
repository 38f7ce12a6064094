package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/infrastructure/postgres/generated"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// IdempotencyRepository implements usecase.IdempotencyRepository. Records
// live in the same database as wallets so the guard commits atomically with
// the mutation it protects.
type IdempotencyRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewIdempotencyRepository creates a new IdempotencyRepository.
func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Get retrieves the record for (operation, key), or (nil, nil) when absent.
func (r *IdempotencyRepository) Get(ctx context.Context, tx usecase.Transaction, operation, key string) (*domain.IdempotencyRecord, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetIdempotencyRecord(ctx, generated.GetIdempotencyRecordParams{
		Operation: operation,
		Key:       key,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &domain.IdempotencyRecord{
		Operation:   row.Operation,
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Response:    row.Response,
		CreatedAt:   row.CreatedAt.Time,
		ExpiresAt:   row.ExpiresAt.Time,
	}, nil
}

// Create stores a record within the mutation's transaction.
func (r *IdempotencyRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.CreateIdempotencyRecord(ctx, generated.CreateIdempotencyRecordParams{
		Operation:   record.Operation,
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Response:    record.Response,
		CreatedAt:   timeToPgTimestamptz(record.CreatedAt),
		ExpiresAt:   timeToPgTimestamptz(record.ExpiresAt),
	})
}

// Delete removes the record for (operation, key) within the mutation's
// transaction, freeing the key for reuse after its record has expired.
func (r *IdempotencyRepository) Delete(ctx context.Context, tx usecase.Transaction, operation, key string) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.DeleteIdempotencyRecord(ctx, generated.DeleteIdempotencyRecordParams{
		Operation: operation,
		Key:       key,
	})
}

// DeleteExpired removes records that expired before the given time.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.queries.DeleteExpiredIdempotencyRecords(ctx, timeToPgTimestamptz(before))
}
