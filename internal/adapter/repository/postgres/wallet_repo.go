package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/infrastructure/postgres/generated"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// GetByAccountID retrieves a wallet by account ID.
func (r *WalletRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return rowToWallet(row), nil
}

// GetOrCreateForUpdate resolves the wallet for accountID inside tx and locks
// it with FOR UPDATE. A missing wallet is inserted with zero balances first;
// the insert is a no-op when a concurrent transaction already created it, in
// which case the following locked read observes the committed row.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, accountID, newID string) (*domain.Wallet, bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	inserted, err := queries.InsertWalletIfAbsent(ctx, generated.InsertWalletIfAbsentParams{
		ID:        newID,
		AccountID: accountID,
		CreatedAt: timeToPgTimestamptz(time.Now().UTC()),
	})
	if err != nil {
		return nil, false, err
	}

	row, err := queries.GetWalletByAccountIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, false, err
	}

	return rowToWallet(row), inserted > 0, nil
}

// UpdateBalances writes the new materialized balances and version.
func (r *WalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balance, reserved, version int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateWalletBalances(ctx, generated.UpdateWalletBalancesParams{
		ID:        id,
		Balance:   balance,
		Reserved:  reserved,
		Version:   version,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		ID:        row.ID,
		AccountID: row.AccountID,
		Balance:   row.Balance,
		Reserved:  row.Reserved,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textToPg(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
