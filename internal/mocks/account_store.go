package mocks

import (
	"context"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/store"
)

// MockAccountStore implements store.AccountStore with overridable functions.
// Unset functions fall back to the embedded Fallback store, or to
// ErrAccountNotFound / nil when Fallback is nil.
type MockAccountStore struct {
	CreateFn          func(ctx context.Context, account *domain.Account) error
	GetByIDFn         func(ctx context.Context, id string) (*domain.Account, error)
	GetByIdentifierFn func(ctx context.Context, identifier string) (*domain.Account, error)
	DeleteFn          func(ctx context.Context, id string) error
	PingFn            func(ctx context.Context) error

	Fallback store.AccountStore
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// Create implements store.AccountStore
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if m.Fallback != nil {
		return m.Fallback.Create(ctx, account)
	}
	return nil
}

// GetByID implements store.AccountStore
func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Fallback != nil {
		return m.Fallback.GetByID(ctx, id)
	}
	return nil, store.ErrAccountNotFound
}

// GetByIdentifier implements store.AccountStore
func (m *MockAccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	if m.GetByIdentifierFn != nil {
		return m.GetByIdentifierFn(ctx, identifier)
	}
	if m.Fallback != nil {
		return m.Fallback.GetByIdentifier(ctx, identifier)
	}
	return nil, store.ErrAccountNotFound
}

// Delete implements store.AccountStore
func (m *MockAccountStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Fallback != nil {
		return m.Fallback.Delete(ctx, id)
	}
	return nil
}

// Ping implements store.AccountStore
func (m *MockAccountStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	if m.Fallback != nil {
		return m.Fallback.Ping(ctx)
	}
	return nil
}

// Close implements store.AccountStore
func (m *MockAccountStore) Close(ctx context.Context) error {
	if m.Fallback != nil {
		return m.Fallback.Close(ctx)
	}
	return nil
}
