package dto

import (
	"github.com/clariohq/tokenledger/internal/usecase"
)

// ConsumeRequest represents a request to debit tokens.
type ConsumeRequest struct {
	AccountID      string         `json:"account_id"`
	Amount         int64          `json:"amount"`
	IdempotencyKey string         `json:"idempotency_key"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ConsumeRequest) ToUseCaseInput() usecase.ConsumeInput {
	return usecase.ConsumeInput{
		AccountID:      r.AccountID,
		Amount:         r.Amount,
		IdempotencyKey: r.IdempotencyKey,
		Description:    r.Description,
		Metadata:       r.Metadata,
	}
}

// ReserveRequest represents a request to reserve tokens for a job.
type ReserveRequest struct {
	AccountID      string `json:"account_id"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
	JobID          string `json:"job_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReserveRequest) ToUseCaseInput() usecase.ReserveInput {
	return usecase.ReserveInput{
		AccountID:      r.AccountID,
		Amount:         r.Amount,
		IdempotencyKey: r.IdempotencyKey,
		JobID:          r.JobID,
	}
}

// ReleaseRequest represents a request to release a prior reservation.
type ReleaseRequest struct {
	AccountID     string `json:"account_id"`
	Amount        int64  `json:"amount"`
	ReservationID string `json:"reservation_id"`
}

// ToUseCaseInput converts to use case input.
func (r *ReleaseRequest) ToUseCaseInput() usecase.ReleaseInput {
	return usecase.ReleaseInput{
		AccountID:     r.AccountID,
		Amount:        r.Amount,
		ReservationID: r.ReservationID,
	}
}

// CreditRequest represents a request to credit tokens.
type CreditRequest struct {
	AccountID       string         `json:"account_id"`
	Amount          int64          `json:"amount"`
	Source          string         `json:"source"`
	IdempotencyKey  string         `json:"idempotency_key"`
	SourceReference string         `json:"source_reference,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreditRequest) ToUseCaseInput() usecase.CreditInput {
	return usecase.CreditInput{
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		Source:          r.Source,
		IdempotencyKey:  r.IdempotencyKey,
		SourceReference: r.SourceReference,
		Metadata:        r.Metadata,
	}
}

// RefundRequest represents a request for a compensating credit.
type RefundRequest struct {
	AccountID       string         `json:"account_id"`
	Amount          int64          `json:"amount"`
	IdempotencyKey  string         `json:"idempotency_key"`
	SourceReference string         `json:"source_reference,omitempty"`
	Description     string         `json:"description,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RefundRequest) ToUseCaseInput() usecase.RefundInput {
	return usecase.RefundInput{
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		IdempotencyKey:  r.IdempotencyKey,
		SourceReference: r.SourceReference,
		Description:     r.Description,
		Metadata:        r.Metadata,
	}
}

// AdjustRequest represents a manual signed correction.
type AdjustRequest struct {
	AccountID      string         `json:"account_id"`
	Delta          int64          `json:"delta"`
	IdempotencyKey string         `json:"idempotency_key"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustRequest) ToUseCaseInput() usecase.AdjustInput {
	return usecase.AdjustInput{
		AccountID:      r.AccountID,
		Delta:          r.Delta,
		IdempotencyKey: r.IdempotencyKey,
		Description:    r.Description,
		Metadata:       r.Metadata,
	}
}

// ReferralRewardRequest represents a converted referral to reward.
type ReferralRewardRequest struct {
	ReferralID string `json:"referral_id"`
	AccountID  string `json:"account_id"`
	Amount     int64  `json:"amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReferralRewardRequest) ToUseCaseInput() usecase.RewardConversionInput {
	return usecase.RewardConversionInput{
		ReferralID: r.ReferralID,
		AccountID:  r.AccountID,
		Amount:     r.Amount,
	}
}
