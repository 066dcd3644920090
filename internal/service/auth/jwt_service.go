package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/platform/logger"
)

// JWTService binds the token codec to the configured secret, lifetime and clock.
type JWTService interface {
	// GenerateToken creates a signed access token for the account.
	GenerateToken(ctx context.Context, accountID string) (string, error)

	// ValidateToken validates the token and returns its claims, or
	// ErrInvalidToken / ErrExpiredToken / ErrMissingToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime reports how long issued tokens stay valid.
	TokenLifetime() time.Duration
}

// Claims are the verified contents of a token.
type Claims struct {
	AccountID string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Option configures the JWT service.
type Option func(*hmacJWTService)

// WithClock replaces time.Now as the source of issue and validation times.
func WithClock(now func() time.Time) Option {
	return func(s *hmacJWTService) { s.timeFunc = now }
}

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig, opts ...Option) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", cfg.TokenLifetime)
	}

	s := &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: cfg.TokenLifetime,
		timeFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateToken implements JWTService.
func (s *hmacJWTService) GenerateToken(ctx context.Context, accountID string) (string, error) {
	token, err := IssueToken(accountID, s.signingKey, s.tokenLifetime, s.timeFunc())
	if err != nil {
		logger.FromContextOrDefault(ctx, nil).Error("failed to sign JWT access token",
			"error", err,
			"account_id", accountID)
		return "", err
	}
	return token, nil
}

// ValidateToken implements JWTService.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString, s.signingKey, s.timeFunc())
	if err != nil {
		// The cause stays in the debug log; callers see only the sentinel.
		logger.FromContextOrDefault(ctx, nil).Debug("access token validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}

// TokenLifetime implements JWTService.
func (s *hmacJWTService) TokenLifetime() time.Duration {
	return s.tokenLifetime
}
