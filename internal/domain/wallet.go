package domain

import (
	"time"
)

// Wallet tracks the token balance for a single external account.
// Balance is the total tokens owned; Reserved is the portion earmarked
// for pending jobs. Reserved never exceeds Balance.
type Wallet struct {
	ID        string
	AccountID string
	Balance   int64
	Reserved  int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available returns the balance usable for new consumption or reservation.
func (w *Wallet) Available() int64 {
	return w.Balance - w.Reserved
}

// ValidateConsume checks if amount can be debited from the available balance.
func (w *Wallet) ValidateConsume(amount int64) error {
	if w.Available() < amount {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateReserve checks if amount can be earmarked from the available balance.
func (w *Wallet) ValidateReserve(amount int64) error {
	if w.Available() < amount {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateRelease checks if amount can be released from the reserved balance.
func (w *Wallet) ValidateRelease(amount int64) error {
	if w.Reserved < amount {
		return ErrInvalidReservation
	}
	return nil
}

// ValidateCredit checks that crediting amount keeps the balance within the
// safe integer range.
func (w *Wallet) ValidateCredit(amount int64) error {
	if w.Balance > MaxWalletBalance-amount {
		return ErrBalanceOverflow
	}
	return nil
}

// ApplyConsume returns the new balance after a debit.
func (w *Wallet) ApplyConsume(amount int64) int64 {
	return w.Balance - amount
}

// ApplyCredit returns the new balance after a credit.
func (w *Wallet) ApplyCredit(amount int64) int64 {
	return w.Balance + amount
}

// ApplyReserve returns the new reserved amount after a reservation.
func (w *Wallet) ApplyReserve(amount int64) int64 {
	return w.Reserved + amount
}

// ApplyRelease returns the new reserved amount after a release.
func (w *Wallet) ApplyRelease(amount int64) int64 {
	return w.Reserved - amount
}

// WalletBalance is the read view returned by every ledger operation.
type WalletBalance struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
}

// BalanceView builds the read view for a wallet. A nil wallet yields the
// zero balance for the given account, matching the read-path contract that
// reads never create or require a wallet.
func BalanceView(accountID string, w *Wallet) WalletBalance {
	if w == nil {
		return WalletBalance{AccountID: accountID}
	}
	return WalletBalance{
		AccountID: w.AccountID,
		Balance:   w.Balance,
		Reserved:  w.Reserved,
		Available: w.Available(),
	}
}
