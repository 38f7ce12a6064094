package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate("billing-service", auth.ScopeWrite)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Service != "billing-service" || claims.Scope != auth.ScopeWrite {
		t.Fatalf("expected claims to match service, got %+v", claims)
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	expiredClaims := auth.Claims{
		Service: "expired-service",
		Scope:   auth.ScopeRead,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims)
	signed, err := expiredToken.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := manager.Verify(signed); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}

	if _, err := manager.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	other := auth.NewJWTManager("other-secret", time.Minute)
	token, err := other.Generate("svc", auth.ScopeRead)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token error for wrong key, got %v", err)
	}
}

func TestClaimsAllows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scope    string
		required string
		want     bool
	}{
		{auth.ScopeRead, auth.ScopeRead, true},
		{auth.ScopeRead, auth.ScopeWrite, false},
		{auth.ScopeWrite, auth.ScopeRead, true},
		{auth.ScopeWrite, auth.ScopeWrite, true},
		{auth.ScopeWrite, auth.ScopeAdmin, false},
		{auth.ScopeAdmin, auth.ScopeWrite, true},
		{auth.ScopeAdmin, auth.ScopeAdmin, true},
	}

	for _, tt := range tests {
		c := &auth.Claims{Scope: tt.scope}
		if got := c.Allows(tt.required); got != tt.want {
			t.Fatalf("scope %q allows %q = %v, want %v", tt.scope, tt.required, got, tt.want)
		}
	}
}
