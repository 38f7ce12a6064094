package dto

import (
	"time"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// BalanceResponse represents a wallet balance in API responses.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
}

// BalanceFromDomain converts a domain balance view to a response.
func BalanceFromDomain(b domain.WalletBalance) *BalanceResponse {
	return &BalanceResponse{
		AccountID: b.AccountID,
		Balance:   b.Balance,
		Reserved:  b.Reserved,
		Available: b.Available,
	}
}

// OperationResponse represents the result of a token mutation.
type OperationResponse struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
}

// OperationFromResult converts a use case result to a response.
func OperationFromResult(r *usecase.OperationResult) *OperationResponse {
	return &OperationResponse{
		EntryID:   r.EntryID,
		AccountID: r.AccountID,
		Balance:   r.Balance,
		Reserved:  r.Reserved,
		Available: r.Available,
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Direction       string         `json:"direction"`
	Amount          int64          `json:"amount"`
	BalanceAfter    int64          `json:"balance_after"`
	ReservedAfter   int64          `json:"reserved_after"`
	Source          string         `json:"source"`
	SourceReference string         `json:"source_reference,omitempty"`
	Description     string         `json:"description,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		Type:            string(e.Type),
		Direction:       string(e.Direction),
		Amount:          e.Amount,
		BalanceAfter:    e.BalanceAfter,
		ReservedAfter:   e.ReservedAfter,
		Source:          e.Source,
		SourceReference: e.SourceReference,
		Description:     e.Description,
		Metadata:        e.Metadata,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// HistoryResponse represents a page of ledger entries.
type HistoryResponse struct {
	Entries    []*EntryResponse `json:"entries"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// HistoryFromPage converts a use case history page to a response.
func HistoryFromPage(page *usecase.HistoryPage) *HistoryResponse {
	return &HistoryResponse{
		Entries:    EntriesFromDomain(page.Entries),
		NextCursor: page.NextCursor,
	}
}

// VerifyResponse represents a wallet reconciliation check.
type VerifyResponse struct {
	AccountID        string    `json:"account_id"`
	Balance          int64     `json:"balance"`
	Reserved         int64     `json:"reserved"`
	ReplayedBalance  int64     `json:"replayed_balance"`
	ReplayedReserved int64     `json:"replayed_reserved"`
	Consistent       bool      `json:"consistent"`
	CheckedAt        time.Time `json:"checked_at"`
}

// VerifyFromResult converts a reconciliation result to a response.
func VerifyFromResult(r *usecase.ReconciliationResult) *VerifyResponse {
	return &VerifyResponse{
		AccountID:        r.AccountID,
		Balance:          r.Balance,
		Reserved:         r.Reserved,
		ReplayedBalance:  r.ReplayedBalance,
		ReplayedReserved: r.ReplayedReserved,
		Consistent:       r.Consistent,
		CheckedAt:        r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
