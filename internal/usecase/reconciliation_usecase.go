package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/clariohq/tokenledger/internal/domain"
)

// ReconciliationUseCase verifies that a wallet's materialized balance
// matches its ledger replayed in creation order.
type ReconciliationUseCase struct {
	walletRepo WalletRepository
	entryRepo  EntryRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(walletRepo WalletRepository, entryRepo EntryRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
	}
}

// ReconciliationResult reports one wallet's conservation check.
type ReconciliationResult struct {
	AccountID        string    `json:"account_id"`
	Balance          int64     `json:"balance"`
	Reserved         int64     `json:"reserved"`
	ReplayedBalance  int64     `json:"replayed_balance"`
	ReplayedReserved int64     `json:"replayed_reserved"`
	Consistent       bool      `json:"consistent"`
	CheckedAt        time.Time `json:"checked_at"`
}

// VerifyWallet replays the account's ledger and compares it against the
// wallet row. An account without a wallet is trivially consistent.
func (uc *ReconciliationUseCase) VerifyWallet(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	wallet, err := uc.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return &ReconciliationResult{AccountID: accountID, Consistent: true, CheckedAt: now}, nil
		}
		return nil, err
	}

	balance, reserved, err := uc.entryRepo.ReplayTotals(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	result := &ReconciliationResult{
		AccountID:        accountID,
		Balance:          wallet.Balance,
		Reserved:         wallet.Reserved,
		ReplayedBalance:  balance,
		ReplayedReserved: reserved,
		Consistent:       balance == wallet.Balance && reserved == wallet.Reserved,
		CheckedAt:        now,
	}

	if !result.Consistent {
		return result, domain.ErrLedgerDrift
	}

	return result, nil
}
