package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/platform/logger"
)

// Session is the result of a successful login: a token for the account and
// the account's public projection.
type Session struct {
	Token     string
	ExpiresIn time.Duration
	Account   domain.PublicAccount
}

// SessionIssuer turns an authenticated account into a Session. It holds no
// per-request state.
type SessionIssuer struct {
	tokens JWTService
	logger *slog.Logger
}

// NewSessionIssuer creates a SessionIssuer signing with tokens.
func NewSessionIssuer(tokens JWTService, logger *slog.Logger) *SessionIssuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionIssuer{
		tokens: tokens,
		logger: logger.With("component", "session_issuer"),
	}
}

// Issue signs a token for account and projects the account for the response.
// account must already have passed authentication.
func (s *SessionIssuer) Issue(ctx context.Context, account *domain.Account) (*Session, error) {
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("cannot issue session: account has no id")
	}

	token, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("token issued", "account_id", account.ID)

	return &Session{
		Token:     token,
		ExpiresIn: s.tokens.TokenLifetime(),
		Account:   domain.Project(account),
	}, nil
}
