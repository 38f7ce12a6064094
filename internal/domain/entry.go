package domain

import (
	"time"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypeCredit     EntryType = "credit"
	EntryTypeDebit      EntryType = "debit"
	EntryTypeReserve    EntryType = "reserve"
	EntryTypeRelease    EntryType = "release"
	EntryTypeRefund     EntryType = "refund"
	EntryTypeAdjustment EntryType = "adjustment"
)

// Direction records which way an entry moves the balance it touches: a
// reserve debits the available balance, a release credits it back. It is
// implied by the entry type for everything except adjustments, which can go
// either way.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Source tags the provenance of a balance-affecting event.
const (
	SourceStripe   = "stripe"
	SourceReferral = "referral"
	SourceManual   = "manual"
	SourceApp      = "app"
	SourceSystem   = "system"
)

// LedgerEntry is an immutable record of one balance-affecting event.
// Amount is always the positive magnitude of the change; BalanceAfter and
// ReservedAfter snapshot the wallet immediately after the entry was applied.
type LedgerEntry struct {
	ID              string
	WalletID        string
	Type            EntryType
	Direction       Direction
	Amount          int64
	BalanceAfter    int64
	ReservedAfter   int64
	IdempotencyKey  string
	Source          string
	SourceReference string
	Description     string
	Metadata        map[string]any
	CreatedAt       time.Time
}

// DirectionForType returns the balance direction implied by an entry type.
// Adjustments have no implied direction; callers supply it explicitly.
func DirectionForType(t EntryType) Direction {
	switch t {
	case EntryTypeCredit, EntryTypeRefund, EntryTypeRelease:
		return DirectionCredit
	case EntryTypeDebit, EntryTypeReserve:
		return DirectionDebit
	default:
		return ""
	}
}

// SignedAmount returns the entry's effect on the wallet balance. Reserve and
// release entries move only the reserved amount and contribute zero here.
func (e *LedgerEntry) SignedAmount() int64 {
	switch e.Type {
	case EntryTypeCredit, EntryTypeRefund:
		return e.Amount
	case EntryTypeDebit:
		return -e.Amount
	case EntryTypeAdjustment:
		if e.Direction == DirectionDebit {
			return -e.Amount
		}
		return e.Amount
	default:
		return 0
	}
}

// ReservedDelta returns the entry's effect on the reserved amount.
func (e *LedgerEntry) ReservedDelta() int64 {
	switch e.Type {
	case EntryTypeReserve:
		return e.Amount
	case EntryTypeRelease:
		return -e.Amount
	default:
		return 0
	}
}

// Replay folds entries in creation order and returns the balance and
// reserved amount they produce. A wallet's ledger replayed this way must
// reproduce its materialized balance exactly.
func Replay(entries []*LedgerEntry) (balance, reserved int64) {
	for _, e := range entries {
		balance += e.SignedAmount()
		reserved += e.ReservedDelta()
	}
	return balance, reserved
}
