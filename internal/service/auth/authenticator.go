package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/platform/logger"
	"github.com/phrazzld/squad-api/internal/store"
)

// AccountLookup is the part of the account store the authenticator reads.
type AccountLookup interface {
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
}

// Authenticator resolves an identifier and password to an account.
type Authenticator struct {
	accounts AccountLookup
	verifier PasswordVerifier
	logger   *slog.Logger

	// dummyHash is compared against when no account matches, so an unknown
	// identifier costs the same as a wrong password.
	dummyHash string
}

// NewAuthenticator creates an Authenticator over the given lookup and verifier.
// When verifier can also hash, a throwaway hash is derived at the same cost
// as stored credentials.
func NewAuthenticator(accounts AccountLookup, verifier PasswordVerifier, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Authenticator{
		accounts: accounts,
		verifier: verifier,
		logger:   logger.With("component", "authenticator"),
	}
	if hasher, ok := verifier.(PasswordHasher); ok {
		if hash, err := hasher.Hash(uuid.NewString()); err == nil {
			a.dummyHash = hash
		}
	}
	return a
}

// Authenticate looks the account up by identifier and checks password against
// its stored hash. It returns ErrNoSuchAccount or ErrBadCredential on a
// credential failure; any other error comes from the store.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	identifier = domain.NormalizeIdentifier(identifier)
	if identifier == "" {
		a.burnCompare(password)
		log.Debug("login rejected", "reason", "empty identifier")
		return nil, ErrNoSuchAccount
	}

	account, err := a.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		if store.IsNotFoundError(err) {
			a.burnCompare(password)
			log.Debug("login rejected", "reason", "unknown identifier")
			return nil, ErrNoSuchAccount
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if a.verifier.Compare(account.CredentialHash, password) != nil || password == "" {
		log.Debug("login rejected", "reason", "credential mismatch", "account_id", account.ID)
		return nil, ErrBadCredential
	}

	log.Debug("credential checked", "account_id", account.ID)
	return account, nil
}

// burnCompare runs one comparison whose result is discarded.
func (a *Authenticator) burnCompare(password string) {
	_ = a.verifier.Compare(a.dummyHash, password)
}
