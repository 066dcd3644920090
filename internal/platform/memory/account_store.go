package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/store"
)

// AccountStore keeps accounts in maps guarded by a single mutex.
// Identifier and referral-code uniqueness are checked under the same lock
// as the insert, so concurrent registrations cannot both succeed.
type AccountStore struct {
	mu           sync.RWMutex
	byID         map[string]*domain.Account
	byIdentifier map[string]string
	byRefCode    map[string]string
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:         make(map[string]*domain.Account),
		byIdentifier: make(map[string]string),
		byRefCode:    make(map[string]string),
	}
}

// Create implements store.AccountStore.Create
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return store.CreateWithFreshReferralCode(account, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, taken := s.byIdentifier[account.Identifier]; taken {
			return store.ErrDuplicateAccount
		}
		if _, taken := s.byRefCode[account.ReferralCode]; taken {
			return store.ErrDuplicateReferralCode
		}

		account.ID = uuid.NewString()
		stored := clone(account)
		s.byID[stored.ID] = stored
		s.byIdentifier[stored.Identifier] = stored.ID
		s.byRefCode[stored.ReferralCode] = stored.ID
		return nil
	})
}

// GetByID implements store.AccountStore.GetByID
func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return clone(account), nil
}

// GetByIdentifier implements store.AccountStore.GetByIdentifier
func (s *AccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byIdentifier[domain.NormalizeIdentifier(identifier)]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return clone(s.byID[id]), nil
}

// Delete implements store.AccountStore.Delete
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	delete(s.byID, id)
	delete(s.byIdentifier, account.Identifier)
	delete(s.byRefCode, account.ReferralCode)
	return nil
}

// Ping implements store.AccountStore.Ping
func (s *AccountStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.AccountStore.Close
func (s *AccountStore) Close(context.Context) error {
	return nil
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func clone(a *domain.Account) *domain.Account {
	c := *a
	c.Squads = append([]string(nil), a.Squads...)
	c.Badges = append([]string(nil), a.Badges...)
	c.HomeTown.Coordinates = append([]float64(nil), a.HomeTown.Coordinates...)
	return &c
}
