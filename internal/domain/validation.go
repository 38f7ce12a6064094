package domain

import (
	"fmt"
	"math"
	"strings"
)

// Validation constants
const (
	MaxAccountIDLength      = 255
	MaxIdempotencyKeyLength = 256
	MaxDescriptionLength    = 1024
	MaxMetadataSize         = 10240 // 10KB

	// MaxOperationAmount bounds a single operation; it keeps any realistic
	// sequence of credits far away from int64 overflow.
	MaxOperationAmount int64 = 1_000_000_000_000

	// MaxWalletBalance is the hard ceiling on a materialized balance.
	MaxWalletBalance int64 = math.MaxInt64 / 2
)

var validSources = map[string]bool{
	SourceStripe:   true,
	SourceReferral: true,
	SourceManual:   true,
	SourceApp:      true,
	SourceSystem:   true,
}

// ValidateAccountID validates an external account identifier. The value is
// persisted exactly as supplied, so identifiers that differ only by
// surrounding whitespace are rejected rather than silently normalized into
// separate wallets.
func ValidateAccountID(accountID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: account_id cannot be empty", ErrInvalidAccountID)
	}

	if strings.TrimSpace(accountID) != accountID {
		return fmt.Errorf("%w: account_id has surrounding whitespace", ErrInvalidAccountID)
	}

	if len(accountID) > MaxAccountIDLength {
		return fmt.Errorf("%w: account_id exceeds %d characters", ErrInvalidAccountID, MaxAccountIDLength)
	}

	return nil
}

// ValidateAmount validates an operation amount. Token units are integral;
// anything outside [1, MaxOperationAmount] is rejected before any storage
// access.
func ValidateAmount(amount int64) error {
	if amount < 1 {
		return ErrInvalidAmount
	}

	if amount > MaxOperationAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrAmountTooLarge, MaxOperationAmount)
	}

	return nil
}

// ValidateIdempotencyKey validates a caller-supplied idempotency key.
// Required keys must be present; any supplied key is length-bounded.
func ValidateIdempotencyKey(key string, required bool) error {
	if key == "" {
		if required {
			return ErrMissingIdempotencyKey
		}
		return nil
	}

	if len(key) > MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: maximum length is %d", ErrIdempotencyKeyTooLong, MaxIdempotencyKeyLength)
	}

	return nil
}

// ValidateSource validates a provenance tag.
func ValidateSource(source string) error {
	if !validSources[source] {
		return fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}

	return nil
}

// ValidateMetadata validates caller-supplied metadata size.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidatePagination validates and bounds history pagination parameters.
func ValidatePagination(limit int) int {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		return DefaultPageSize
	}

	if limit > MaxPageSize {
		return MaxPageSize
	}

	return limit
}
