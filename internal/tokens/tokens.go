package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by an admin session token. ID is the revocation handle.
type Claims struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

// GenerateAdminToken creates a signed HS256 session token.
func GenerateAdminToken(secret, sub, jti string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token secret is empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// ParseAdminToken verifies signature, algorithm and expiry.
func ParseAdminToken(secret, raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &rc, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if rc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	return &Claims{Subject: rc.Subject, ID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}
