package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clariohq/tokenledger/internal/adapter/http/dto"
	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
)

type walletServiceStub struct {
	balanceFn func(ctx context.Context, accountID string) (domain.WalletBalance, error)
	historyFn func(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error)
}

func (s *walletServiceStub) GetBalance(ctx context.Context, accountID string) (domain.WalletBalance, error) {
	return s.balanceFn(ctx, accountID)
}

func (s *walletServiceStub) GetHistory(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error) {
	return s.historyFn(ctx, input)
}

type verifyServiceStub struct {
	verifyFn func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

func (s *verifyServiceStub) VerifyWallet(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.verifyFn(ctx, accountID)
}

func walletRequest(method, path, accountID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("account_id", accountID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWalletHandler_Balance(t *testing.T) {
	handler := NewWalletHandler(&walletServiceStub{
		balanceFn: func(ctx context.Context, accountID string) (domain.WalletBalance, error) {
			return domain.WalletBalance{AccountID: accountID, Balance: 100, Reserved: 30, Available: 70}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	handler.Balance(rec, walletRequest(http.MethodGet, "/wallets/acct-1/balance", "acct-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != "acct-1" || resp.Balance != 100 || resp.Available != 70 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_History_PassesCursorAndLimit(t *testing.T) {
	var captured usecase.HistoryInput
	handler := NewWalletHandler(&walletServiceStub{
		historyFn: func(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error) {
			captured = input
			return &usecase.HistoryPage{
				Entries: []*domain.LedgerEntry{{
					ID:        "entry-1",
					Type:      domain.EntryTypeDebit,
					Direction: domain.DirectionDebit,
					Amount:    10,
					CreatedAt: time.Now().UTC(),
				}},
				NextCursor: "entry-1",
			}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	req := walletRequest(http.MethodGet, "/wallets/acct-1/history?cursor=entry-9&limit=5", "acct-1")
	handler.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Cursor != "entry-9" || captured.Limit != 5 {
		t.Fatalf("expected cursor and limit to pass through, got %+v", captured)
	}

	var resp dto.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 || resp.NextCursor != "entry-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Verify_Consistent(t *testing.T) {
	handler := NewWalletHandler(nil, &verifyServiceStub{
		verifyFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{
				AccountID:  accountID,
				Consistent: true,
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Verify(rec, walletRequest(http.MethodGet, "/wallets/acct-1/verify", "acct-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWalletHandler_Verify_Drift(t *testing.T) {
	handler := NewWalletHandler(nil, &verifyServiceStub{
		verifyFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{
				AccountID:       accountID,
				Balance:         107,
				ReplayedBalance: 100,
				Consistent:      false,
			}, domain.ErrLedgerDrift
		},
	})

	rec := httptest.NewRecorder()
	handler.Verify(rec, walletRequest(http.MethodGet, "/wallets/acct-1/verify", "acct-1"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || resp.Balance != 107 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
