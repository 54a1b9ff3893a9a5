package sessions

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nbportfolio/site/internal/tokens"
)

var (
	ErrBadPassword = errors.New("invalid admin password")
	ErrRevoked     = errors.New("session revoked")
)

// Service exchanges the shared admin password for signed session tokens.
type Service struct {
	password  string
	secret    string
	ttl       time.Duration
	blacklist Blacklist
}

func NewService(password, secret string, ttl time.Duration, bl Blacklist) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if bl == nil {
		bl = NewMemoryBlacklist()
	}
	return &Service{password: password, secret: secret, ttl: ttl, blacklist: bl}
}

// Login returns a token and its expiry when password matches.
func (s *Service) Login(ctx context.Context, password string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", time.Time{}, ErrBadPassword
	}
	tok, err := tokens.GenerateAdminToken(s.secret, "admin", uuid.NewString(), s.ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return tok, time.Now().Add(s.ttl), nil
}

// Check validates a raw token and returns its session id.
func (s *Service) Check(ctx context.Context, raw string) (string, error) {
	c, err := tokens.ParseAdminToken(s.secret, raw)
	if err != nil {
		return "", err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("blacklist check: %w", err)
	}
	if revoked {
		return "", ErrRevoked
	}
	return c.ID, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, raw string) error {
	c, err := tokens.ParseAdminToken(s.secret, raw)
	if err != nil {
		return err
	}
	return s.blacklist.Revoke(ctx, c.ID, time.Until(c.ExpiresAt))
}
