package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clariohq/tokenledger/internal/domain"
)

// Scopes carried by service tokens.
const (
	ScopeRead  = "ledger:read"
	ScopeWrite = "ledger:write"
	ScopeAdmin = "ledger:admin"
)

// Claims represents the JWT claims of a calling service.
type Claims struct {
	Service string `json:"service"`
	Scope   string `json:"scope"`
	jwt.RegisteredClaims
}

// Allows reports whether the token's scope covers the required scope.
// Admin covers write, write covers read.
func (c *Claims) Allows(required string) bool {
	switch required {
	case ScopeRead:
		return c.Scope == ScopeRead || c.Scope == ScopeWrite || c.Scope == ScopeAdmin
	case ScopeWrite:
		return c.Scope == ScopeWrite || c.Scope == ScopeAdmin
	case ScopeAdmin:
		return c.Scope == ScopeAdmin
	default:
		return false
	}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate generates a new JWT token for a calling service
func (m *JWTManager) Generate(service, scope string) (string, error) {
	claims := Claims{
		Service: service,
		Scope:   scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	// Check expiration
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrExpiredToken
	}

	return claims, nil
}
