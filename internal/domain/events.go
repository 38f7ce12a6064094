package domain

import "time"

// Event types
const (
	EventTypeTokensCredited = "token.credited"
	EventTypeTokensConsumed = "token.consumed"
	EventTypeTokensReserved = "token.reserved"
	EventTypeTokensReleased = "token.released"
	EventTypeTokensRefunded = "token.refunded"
	EventTypeTokensAdjusted = "token.adjusted"
	EventTypeWalletCreated  = "wallet.created"
)

// Aggregate types
const (
	AggregateTypeWallet = "wallet"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BalanceChangedEvent payload shared by all token operations.
type BalanceChangedEvent struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	EntryType string `json:"entry_type"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
	Reserved  int64  `json:"reserved"`
	Source    string `json:"source"`
}
