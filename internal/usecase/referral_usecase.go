package usecase

import (
	"context"
	"fmt"

	"github.com/clariohq/tokenledger/internal/domain"
)

// TokenCreditor is the slice of the ledger service the referral bridge needs.
type TokenCreditor interface {
	Credit(ctx context.Context, input CreditInput) (*OperationResult, error)
}

// ReferralUseCase credits reward tokens when a referral converts. It is a
// thin consumer of the ledger service: idempotency and ledger semantics come
// from the credit operation, keyed on the referral conversion id so retried
// conversion notifications are deduplicated.
type ReferralUseCase struct {
	ledger        TokenCreditor
	defaultReward int64
}

// NewReferralUseCase creates a new ReferralUseCase.
func NewReferralUseCase(ledger TokenCreditor, defaultReward int64) *ReferralUseCase {
	return &ReferralUseCase{
		ledger:        ledger,
		defaultReward: defaultReward,
	}
}

// RewardConversionInput represents a converted referral.
type RewardConversionInput struct {
	ReferralID string `json:"referral_id"`
	AccountID  string `json:"account_id"`
	// Amount overrides the configured default reward when positive.
	Amount int64 `json:"amount,omitempty"`
}

// RewardConversion credits the referrer's wallet for a conversion.
func (uc *ReferralUseCase) RewardConversion(ctx context.Context, input RewardConversionInput) (*OperationResult, error) {
	if input.ReferralID == "" {
		return nil, fmt.Errorf("%w: referral_id cannot be empty", domain.ErrInvalidAccountID)
	}

	amount := input.Amount
	if amount <= 0 {
		amount = uc.defaultReward
	}

	return uc.ledger.Credit(ctx, CreditInput{
		AccountID:       input.AccountID,
		Amount:          amount,
		Source:          domain.SourceReferral,
		IdempotencyKey:  "referral:" + input.ReferralID,
		SourceReference: input.ReferralID,
		Metadata: map[string]any{
			"referral_id": input.ReferralID,
		},
	})
}
