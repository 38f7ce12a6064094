package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/infrastructure/postgres/generated"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create appends a ledger entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}

	_, err := queries.CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:              entry.ID,
		WalletID:        entry.WalletID,
		EntryType:       string(entry.Type),
		Direction:       string(entry.Direction),
		Amount:          entry.Amount,
		BalanceAfter:    entry.BalanceAfter,
		ReservedAfter:   entry.ReservedAfter,
		IdempotencyKey:  textToPg(entry.IdempotencyKey),
		Source:          entry.Source,
		SourceReference: textToPg(entry.SourceReference),
		Description:     textToPg(entry.Description),
		Metadata:        metadata,
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})

	return err
}

// ListByWallet retrieves entries most recent first. Entry IDs are ULIDs, so
// lexicographic order matches creation order and the previous page's last id
// works as the cursor.
func (r *EntryRepository) ListByWallet(ctx context.Context, walletID, cursor string, limit int) ([]*domain.LedgerEntry, error) {
	var (
		rows []generated.LedgerEntry
		err  error
	)

	if cursor == "" {
		rows, err = r.queries.ListEntriesByWallet(ctx, generated.ListEntriesByWalletParams{
			WalletID: walletID,
			Limit:    int32(limit),
		})
	} else {
		rows, err = r.queries.ListEntriesByWalletBefore(ctx, generated.ListEntriesByWalletBeforeParams{
			WalletID: walletID,
			ID:       cursor,
			Limit:    int32(limit),
		})
	}
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// OutstandingReserved returns the reserved amount still outstanding for a
// reservation reference.
func (r *EntryRepository) OutstandingReserved(ctx context.Context, tx usecase.Transaction, walletID, reservationID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.GetOutstandingReserved(ctx, generated.GetOutstandingReservedParams{
		WalletID:        walletID,
		SourceReference: textToPg(reservationID),
	})
}

// ReplayTotals sums signed amounts and reserved deltas across the wallet's
// whole ledger.
func (r *EntryRepository) ReplayTotals(ctx context.Context, walletID string) (int64, int64, error) {
	row, err := r.queries.ReplayWalletTotals(ctx, walletID)
	if err != nil {
		return 0, 0, err
	}

	return row.Balance, row.Reserved, nil
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	var metadata map[string]any
	if row.Metadata != nil {
		_ = json.Unmarshal(row.Metadata, &metadata)
	}

	return &domain.LedgerEntry{
		ID:              row.ID,
		WalletID:        row.WalletID,
		Type:            domain.EntryType(row.EntryType),
		Direction:       domain.Direction(row.Direction),
		Amount:          row.Amount,
		BalanceAfter:    row.BalanceAfter,
		ReservedAfter:   row.ReservedAfter,
		IdempotencyKey:  row.IdempotencyKey.String,
		Source:          row.Source,
		SourceReference: row.SourceReference.String,
		Description:     row.Description.String,
		Metadata:        metadata,
		CreatedAt:       row.CreatedAt.Time,
	}
}
