package store

import (
	"context"
	"errors"

	"github.com/phrazzld/squad-api/internal/domain"
)

// MaxReferralCodeAttempts bounds how many fresh referral codes a store tries
// when an insert collides on the referral code.
const MaxReferralCodeAttempts = 5

// AccountStore defines the interface for account persistence.
// It is the Credential Store: it owns the account records and their
// credential hashes, but does not compare passwords itself.
type AccountStore interface {
	// Create saves a new account. The account must carry its CredentialHash.
	// On success the store assigns account.ID.
	// Returns ErrDuplicateAccount if the identifier is already taken.
	// Referral-code collisions are retried with a fresh code up to
	// MaxReferralCodeAttempts times before ErrDuplicateReferralCode is returned.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its ID.
	// Returns ErrInvalidID if the ID is malformed for this backend and
	// ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByIdentifier retrieves an account by its (normalized) e-mail.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)

	// Delete removes an account permanently.
	// Returns ErrInvalidID if the ID is malformed and ErrAccountNotFound if
	// nothing was deleted.
	Delete(ctx context.Context, id string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// CreateWithFreshReferralCode runs insert, regenerating account.ReferralCode
// whenever insert reports ErrDuplicateReferralCode. Backends share it so the
// retry policy is identical everywhere.
func CreateWithFreshReferralCode(account *domain.Account, insert func() error) error {
	var err error
	for attempt := 0; attempt < MaxReferralCodeAttempts; attempt++ {
		if attempt > 0 {
			code, genErr := domain.GenerateReferralCode()
			if genErr != nil {
				return genErr
			}
			account.ReferralCode = code
		}

		err = insert()
		if err == nil || !errors.Is(err, ErrDuplicateReferralCode) {
			return err
		}
	}
	return err
}
