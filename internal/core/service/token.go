package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// defaultTokenTTL fixes the session lifetime at issuance.
const defaultTokenTTL = 30 * 24 * time.Hour

// TokenClaims is the JWT payload: subject holds the user id.
type TokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies signed session tokens. It is stateless:
// rotating the secret invalidates every outstanding token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the user id and role, expiring ttl from now.
func (t *TokenIssuer) Issue(userID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token. Bad signatures, malformed payloads and
// elapsed expiries all yield domain.ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
