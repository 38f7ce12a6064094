package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clariohq/tokenledger/internal/adapter/http/dto"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// ReferralService defines the behavior needed by ReferralHandler.
type ReferralService interface {
	RewardConversion(ctx context.Context, input usecase.RewardConversionInput) (*usecase.OperationResult, error)
}

// ReferralHandler handles referral reward HTTP requests.
type ReferralHandler struct {
	referralUC ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referralUC ReferralService) *ReferralHandler {
	return &ReferralHandler{referralUC: referralUC}
}

// Reward credits reward tokens for a converted referral.
func (h *ReferralHandler) Reward(w http.ResponseWriter, r *http.Request) {
	var req dto.ReferralRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.referralUC.RewardConversion(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to reward referral")
		return
	}

	writeOperation(w, result)
}
