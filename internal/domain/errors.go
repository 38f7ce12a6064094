package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrBalanceOverflow   = errors.New("balance would exceed the safe integer range")

	// Reservation errors
	ErrInvalidReservation = errors.New("release exceeds outstanding reserved amount")

	// Validation errors
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrInvalidAccountID  = errors.New("invalid account identifier")
	ErrInvalidSource     = errors.New("unknown credit source")
	ErrMetadataTooLarge  = errors.New("metadata size exceeds limit")

	// Idempotency errors
	ErrMissingIdempotencyKey  = errors.New("idempotency key is required")
	ErrIdempotencyKeyTooLong  = errors.New("idempotency key exceeds maximum length")
	ErrIdempotencyKeyConflict = errors.New("idempotency key reused with a different payload")

	// Storage errors
	ErrTransientStorage = errors.New("transient storage failure, safe to retry with the same idempotency key")

	// Reconciliation errors
	ErrLedgerDrift = errors.New("wallet balance does not match ledger replay")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
