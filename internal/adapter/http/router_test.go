package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/clariohq/tokenledger/internal/adapter/http/handler"
	apimiddleware "github.com/clariohq/tokenledger/internal/adapter/http/middleware"
	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"account_id":"acct-1","amount":10,"idempotency_key":"key-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens/consume", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/wallets/{account_id}/balance",
		"GET /api/v1/wallets/{account_id}/history",
		"GET /api/v1/wallets/{account_id}/verify",
		"POST /api/v1/tokens/consume",
		"POST /api/v1/tokens/reserve",
		"POST /api/v1/tokens/release",
		"POST /api/v1/tokens/credit",
		"POST /api/v1/tokens/refund",
		"POST /api/v1/tokens/adjust",
		"POST /api/v1/referrals/reward",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_RequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Logger = zerolog.New(&buf)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	line := buf.String()
	if !strings.Contains(line, `"path":"/health"`) || !strings.Contains(line, `"request_id"`) {
		t.Fatalf("expected request log with path and request_id, got: %s", line)
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		TokenHandler:    handler.NewTokenHandler(&stubTokenService{}),
		WalletHandler:   handler.NewWalletHandler(&stubWalletService{}, &stubVerifyService{}),
		ReferralHandler: handler.NewReferralHandler(&stubReferralService{}),
		HealthHandler:   &handler.HealthHandler{},
		Logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubTokenService struct{}

func (stubTokenService) Consume(ctx context.Context, input usecase.ConsumeInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

func (stubTokenService) Reserve(ctx context.Context, input usecase.ReserveInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

func (stubTokenService) Release(ctx context.Context, input usecase.ReleaseInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

func (stubTokenService) Credit(ctx context.Context, input usecase.CreditInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

func (stubTokenService) Refund(ctx context.Context, input usecase.RefundInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

func (stubTokenService) Adjust(ctx context.Context, input usecase.AdjustInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

type stubWalletService struct{}

func (stubWalletService) GetBalance(ctx context.Context, accountID string) (domain.WalletBalance, error) {
	return domain.WalletBalance{AccountID: accountID}, nil
}

func (stubWalletService) GetHistory(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error) {
	return &usecase.HistoryPage{}, nil
}

type stubVerifyService struct{}

func (stubVerifyService) VerifyWallet(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return &usecase.ReconciliationResult{AccountID: accountID, Consistent: true}, nil
}

type stubReferralService struct{}

func (stubReferralService) RewardConversion(ctx context.Context, input usecase.RewardConversionInput) (*usecase.OperationResult, error) {
	return &usecase.OperationResult{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
