package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/service/auth"
	"github.com/phrazzld/squad-api/internal/store"
)

// RegisterInput is everything a client supplies to create an account.
type RegisterInput struct {
	Identifier  string
	Password    string
	FullName    string
	Role        domain.Role
	DateOfBirth time.Time
	HomeTown    domain.HomeTown
	Squads      []string
	Badges      []string
}

// Registration is the outcome of a successful Register call.
type Registration struct {
	AccountID string
	Session   *auth.Session
}

// AccountService provides account registration, lookup and removal.
type AccountService interface {
	// Register validates input, stores a new account and logs it in.
	Register(ctx context.Context, input RegisterInput) (*Registration, error)

	// Authenticate checks credentials without issuing a session. It is the
	// credential check behind the login gate.
	Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error)

	// Login checks credentials and issues a session.
	Login(ctx context.Context, identifier, password string) (*auth.Session, error)

	// IssueSession issues a session for an account that has already been authenticated.
	IssueSession(ctx context.Context, account *domain.Account) (*auth.Session, error)

	// Get returns the public view of an account.
	Get(ctx context.Context, id string) (*domain.PublicAccount, error)

	// Delete removes an account. Deleting an account that does not exist succeeds.
	Delete(ctx context.Context, id string) error
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accounts      store.AccountStore
	hasher        auth.PasswordHasher
	authenticator *auth.Authenticator
	sessions      *auth.SessionIssuer
	queryTimeout  time.Duration
	timeFunc      func() time.Time
	logger        *slog.Logger
}

// Ensure AccountServiceImpl implements AccountService interface
var _ AccountService = (*AccountServiceImpl)(nil)

// AccountServiceConfig groups the collaborators of NewAccountService.
type AccountServiceConfig struct {
	Accounts      store.AccountStore
	Hasher        auth.PasswordHasher
	Authenticator *auth.Authenticator
	Sessions      *auth.SessionIssuer
	// QueryTimeout bounds every store call; zero disables the bound.
	QueryTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(cfg AccountServiceConfig, logger *slog.Logger) (*AccountServiceImpl, error) {
	if cfg.Accounts == nil {
		return nil, fmt.Errorf("account store cannot be nil")
	}
	if cfg.Hasher == nil {
		return nil, fmt.Errorf("password hasher cannot be nil")
	}
	if cfg.Authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session issuer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &AccountServiceImpl{
		accounts:      cfg.Accounts,
		hasher:        cfg.Hasher,
		authenticator: cfg.Authenticator,
		sessions:      cfg.Sessions,
		queryTimeout:  cfg.QueryTimeout,
		timeFunc:      now,
		logger:        logger.With("component", "account_service"),
	}, nil
}

// Register implements AccountService.Register
func (s *AccountServiceImpl) Register(ctx context.Context, input RegisterInput) (*Registration, error) {
	if strings.TrimSpace(input.Identifier) == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if input.Password == "" {
		return nil, domain.ErrMissingCredential
	}

	account, err := domain.NewAccount(domain.Profile{
		Identifier:  input.Identifier,
		FullName:    input.FullName,
		Role:        input.Role,
		DateOfBirth: input.DateOfBirth,
		HomeTown:    input.HomeTown,
		Squads:      input.Squads,
		Badges:      input.Badges,
	}, s.timeFunc().UTC())
	if err != nil {
		s.logger.Debug("registration rejected", "error", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password", "must be at most 72 bytes", err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	account.CredentialHash = hash

	if err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.accounts.Create(ctx, account)
	}); err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			s.logger.Debug("attempted to register existing identifier", "identifier", account.Identifier)
			return nil, err
		}
		s.logger.Error("failed to save account", "error", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account registered", "account_id", account.ID)

	// A new account goes through the same login path as an existing one.
	session, err := s.Login(ctx, input.Identifier, input.Password)
	if err != nil {
		s.logger.Error("failed to log in new account", "error", err, "account_id", account.ID)
		return nil, fmt.Errorf("%w: %v", ErrRegistrationIncomplete, err)
	}

	return &Registration{AccountID: account.ID, Session: session}, nil
}

// Authenticate implements AccountService.Authenticate
func (s *AccountServiceImpl) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	var account *domain.Account
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.authenticator.Authenticate(ctx, identifier, password)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Login implements AccountService.Login
func (s *AccountServiceImpl) Login(ctx context.Context, identifier, password string) (*auth.Session, error) {
	account, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	return s.IssueSession(ctx, account)
}

// IssueSession implements AccountService.IssueSession
func (s *AccountServiceImpl) IssueSession(ctx context.Context, account *domain.Account) (*auth.Session, error) {
	return s.sessions.Issue(ctx, account)
}

// Get implements AccountService.Get
func (s *AccountServiceImpl) Get(ctx context.Context, id string) (*domain.PublicAccount, error) {
	var account *domain.Account
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, store.ErrInvalidID) {
			s.logger.Error("failed to retrieve account", "error", err, "account_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	public := domain.Project(account)
	return &public, nil
}

// Delete implements AccountService.Delete
func (s *AccountServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.accounts.Delete(ctx, id)
	})
	switch {
	case err == nil:
		s.logger.Info("account deleted", "account_id", id)
		return nil
	case store.IsNotFoundError(err):
		s.logger.Debug("delete of absent account", "account_id", id)
		return nil
	case errors.Is(err, store.ErrInvalidID):
		return err
	default:
		s.logger.Error("failed to delete account", "error", err, "account_id", id)
		return fmt.Errorf("failed to delete account: %w", err)
	}
}

func (s *AccountServiceImpl) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	if s.queryTimeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return fn(ctx)
}
