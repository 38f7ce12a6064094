package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clariohq/tokenledger/internal/adapter/http/dto"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// TokenService defines the behavior needed by TokenHandler.
type TokenService interface {
	Consume(ctx context.Context, input usecase.ConsumeInput) (*usecase.OperationResult, error)
	Reserve(ctx context.Context, input usecase.ReserveInput) (*usecase.OperationResult, error)
	Release(ctx context.Context, input usecase.ReleaseInput) (*usecase.OperationResult, error)
	Credit(ctx context.Context, input usecase.CreditInput) (*usecase.OperationResult, error)
	Refund(ctx context.Context, input usecase.RefundInput) (*usecase.OperationResult, error)
	Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.OperationResult, error)
}

// TokenHandler handles token mutation HTTP requests.
type TokenHandler struct {
	ledgerUC TokenService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(ledgerUC TokenService) *TokenHandler {
	return &TokenHandler{ledgerUC: ledgerUC}
}

// Consume debits tokens from a wallet.
func (h *TokenHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Consume(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to consume tokens")
		return
	}

	writeOperation(w, result)
}

// Reserve places a hold on tokens for a pending job.
func (h *TokenHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req dto.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Reserve(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to reserve tokens")
		return
	}

	writeOperation(w, result)
}

// Release returns reserved tokens to the available balance.
func (h *TokenHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req dto.ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Release(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to release reservation")
		return
	}

	writeOperation(w, result)
}

// Credit adds tokens to a wallet.
func (h *TokenHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Credit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to credit tokens")
		return
	}

	writeOperation(w, result)
}

// Refund applies a compensating credit for a committed debit.
func (h *TokenHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req dto.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Refund(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to refund tokens")
		return
	}

	writeOperation(w, result)
}

// Adjust applies a manual signed correction.
func (h *TokenHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Adjust(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to adjust balance")
		return
	}

	writeOperation(w, result)
}

// writeOperation writes a mutation result. Replays of previously committed
// operations are flagged so clients can tell a fresh effect from a repeat.
func writeOperation(w http.ResponseWriter, result *usecase.OperationResult) {
	if result.Replayed {
		w.Header().Set("X-Idempotency-Replay", "true")
	}

	writeJSON(w, http.StatusOK, dto.OperationFromResult(result))
}
