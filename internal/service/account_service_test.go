package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/platform/memory"
	"github.com/phrazzld/squad-api/internal/service/auth"
	"github.com/phrazzld/squad-api/internal/store"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// MockAccountStore mocks the store.AccountStore interface
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAccountStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	svc    *AccountServiceImpl
	tokens auth.JWTService
	now    time.Time
}

func newFixture(t *testing.T, accounts store.AccountStore) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     testSecret,
		TokenLifetime: 365 * 24 * time.Hour,
	}, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	svc, err := NewAccountService(AccountServiceConfig{
		Accounts:      accounts,
		Hasher:        hasher,
		Authenticator: auth.NewAuthenticator(accounts, hasher, logger),
		Sessions:      auth.NewSessionIssuer(tokens, logger),
		QueryTimeout:  time.Second,
		Now:           func() time.Time { return now },
	}, logger)
	require.NoError(t, err)

	return fixture{svc: svc, tokens: tokens, now: now}
}

func validInput() RegisterInput {
	return RegisterInput{
		Identifier:  "a@b.com",
		Password:    "Secret123!",
		FullName:    "A B",
		Role:        domain.RoleUser,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		HomeTown:    domain.HomeTown{Location: "X", Coordinates: []float64{0, 0}},
	}
}

func TestNewAccountServiceRequiresCollaborators(t *testing.T) {
	_, err := NewAccountService(AccountServiceConfig{}, nil)
	assert.Error(t, err)
}

func TestRegisterThenLogin(t *testing.T) {
	accounts := memory.NewAccountStore()
	f := newFixture(t, accounts)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccountID)
	assert.Equal(t, reg.AccountID, reg.Session.Account.ID)

	stored, err := accounts.GetByID(ctx, reg.AccountID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", stored.CredentialHash, "password is stored hashed")
	assert.Equal(t, f.now, stored.CreatedDate)

	session, err := f.svc.Login(ctx, "A@B.com", "Secret123!")
	require.NoError(t, err)

	claims, err := f.tokens.ValidateToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.AccountID, claims.AccountID)

	_, err = f.svc.Login(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrBadCredential)
	_, err = f.svc.Login(ctx, "nobody@b.com", "Secret123!")
	assert.ErrorIs(t, err, auth.ErrNoSuchAccount)
}

func TestRegisterRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *RegisterInput)
		wantErr error
	}{
		{name: "missing identifier", mutate: func(in *RegisterInput) { in.Identifier = " " }, wantErr: domain.ErrMissingIdentifier},
		{name: "missing password", mutate: func(in *RegisterInput) { in.Password = "" }, wantErr: domain.ErrMissingCredential},
		{name: "malformed email", mutate: func(in *RegisterInput) { in.Identifier = "nope" }, wantErr: domain.ErrInvalidEmail},
		{name: "unknown role", mutate: func(in *RegisterInput) { in.Role = "owner" }, wantErr: domain.ErrInvalidRole},
		{name: "missing full name", mutate: func(in *RegisterInput) { in.FullName = "" }, wantErr: domain.ErrValidation},
		{name: "password too long", mutate: func(in *RegisterInput) { in.Password = strings.Repeat("p", 80) }, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := memory.NewAccountStore()
			f := newFixture(t, accounts)

			in := validInput()
			tt.mutate(&in)

			reg, err := f.svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, reg)
			assert.Equal(t, 0, accounts.Len(), "nothing is stored")
		})
	}
}

func TestRegisterDuplicateIdentifier(t *testing.T) {
	accounts := memory.NewAccountStore()
	f := newFixture(t, accounts)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, validInput())
	require.NoError(t, err)

	again := validInput()
	again.Identifier = " A@B.COM"
	again.Password = "Different1!"

	reg, err := f.svc.Register(ctx, again)
	assert.ErrorIs(t, err, store.ErrDuplicateAccount)
	assert.Nil(t, reg)
	assert.Equal(t, 1, accounts.Len())

	_, err = f.svc.Login(ctx, "a@b.com", "Secret123!")
	assert.NoError(t, err, "the original credentials still work")
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	accounts := memory.NewAccountStore()
	f := newFixture(t, accounts)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(context.Background(), validInput())
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, store.ErrDuplicateAccount)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, accounts.Len())
}

func TestRegisterStoreFailure(t *testing.T) {
	accounts := new(MockAccountStore)
	accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
		Return(errors.New("connection reset"))

	f := newFixture(t, accounts)

	_, err := f.svc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create account")
	accounts.AssertExpectations(t)
}

func TestRegisterAppliesQueryTimeout(t *testing.T) {
	accounts := new(MockAccountStore)
	accounts.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "store calls carry a deadline")
		args.Get(1).(*domain.Account).ID = "acct-1"
	})
	accounts.On("GetByIdentifier", mock.Anything, "a@b.com").Return(nil, store.ErrAccountNotFound)

	f := newFixture(t, accounts)

	_, err := f.svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrRegistrationIncomplete)
	assert.ErrorContains(t, err, auth.ErrNoSuchAccount.Error())
	accounts.AssertExpectations(t)
}

func TestAuthenticateAppliesQueryTimeout(t *testing.T) {
	hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash("Secret123!")
	require.NoError(t, err)

	accounts := new(MockAccountStore)
	accounts.On("GetByIdentifier", mock.Anything, "a@b.com").
		Return(&domain.Account{ID: "acct-1", Identifier: "a@b.com", CredentialHash: hash}, nil).
		Run(func(args mock.Arguments) {
			_, hasDeadline := args.Get(0).(context.Context).Deadline()
			assert.True(t, hasDeadline, "login lookups carry a deadline")
		})

	f := newFixture(t, accounts)

	account, err := f.svc.Authenticate(context.Background(), "A@B.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", account.ID)

	_, err = f.svc.Authenticate(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrBadCredential)
	accounts.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	accounts := memory.NewAccountStore()
	f := newFixture(t, accounts)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, validInput())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, reg.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Identifier)
	assert.Equal(t, reg.AccountID, got.ID)

	_, err = f.svc.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrInvalidID)

	require.NoError(t, f.svc.Delete(ctx, reg.AccountID))
	_, err = f.svc.Get(ctx, reg.AccountID)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
		wantAny  bool
	}{
		{name: "deleted"},
		{name: "already absent", storeErr: store.ErrAccountNotFound},
		{name: "malformed id", storeErr: store.ErrInvalidID, wantErr: store.ErrInvalidID},
		{name: "store failure", storeErr: errors.New("connection reset"), wantAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountStore)
			accounts.On("Delete", mock.Anything, "acct-1").Return(tt.storeErr)

			f := newFixture(t, accounts)
			err := f.svc.Delete(context.Background(), "acct-1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			accounts.AssertExpectations(t)
		})
	}
}
