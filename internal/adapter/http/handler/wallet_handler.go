package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clariohq/tokenledger/internal/adapter/http/dto"
	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// WalletService defines the read-side behavior needed by WalletHandler.
type WalletService interface {
	GetBalance(ctx context.Context, accountID string) (domain.WalletBalance, error)
	GetHistory(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error)
}

// VerifyService defines the reconciliation behavior needed by WalletHandler.
type VerifyService interface {
	VerifyWallet(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

// WalletHandler handles wallet read HTTP requests.
type WalletHandler struct {
	ledgerUC WalletService
	reconUC  VerifyService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerUC WalletService, reconUC VerifyService) *WalletHandler {
	return &WalletHandler{
		ledgerUC: ledgerUC,
		reconUC:  reconUC,
	}
}

// Balance returns the wallet's balance view. Accounts without a wallet read
// as zero.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err, "failed to get balance")
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// History returns a page of the wallet's ledger, most recent first.
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	page, err := h.ledgerUC.GetHistory(r.Context(), usecase.HistoryInput{
		AccountID: accountID,
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     parseIntQuery(r, "limit", 20),
	})
	if err != nil {
		writeDomainError(w, err, "failed to get history")
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromPage(page))
}

// Verify replays the wallet's ledger against its materialized balance.
// Drift is reported with a 409 and the full comparison in the body.
func (h *WalletHandler) Verify(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.reconUC.VerifyWallet(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerDrift) && result != nil {
			writeJSON(w, http.StatusConflict, dto.VerifyFromResult(result))
			return
		}

		writeDomainError(w, err, "failed to verify wallet")
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyFromResult(result))
}
