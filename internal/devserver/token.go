package devserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the username inside the signed token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenMaker issues and verifies the bearer tokens handed out on login.
type TokenMaker struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewTokenMaker returns a TokenMaker signing with the given secret.
func NewTokenMaker(secretKey string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{secretKey: secretKey, tokenTTL: ttl}
}

// GenerateToken creates a signed token for the username.
func (m *TokenMaker) GenerateToken(username string) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken verifies the signature and expiry and returns the claims.
func (m *TokenMaker) ParseToken(tokenStr string) (*Claims, error) {
	const op = "devserver.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
