package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/store"
)

// dbPool is the subset of *pgxpool.Pool the store needs.
// pgxmock.PgxPoolIface satisfies it in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const accountColumns = `id, email, password_hash, full_name, role, date_of_birth,
	home_location, home_coordinates, ref_code, squad_tokens, squads, badges,
	created_date, version`

const (
	insertAccountSQL = `INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	selectAccountByIDSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	selectAccountByEmailSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	deleteAccountSQL = `DELETE FROM accounts WHERE id = $1`
)

// AccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type AccountStore struct {
	pool   dbPool
	logger *slog.Logger
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a connection pool that should be initialized by the caller; Close closes it.
func NewAccountStore(pool dbPool, logger *slog.Logger) *AccountStore {
	return &AccountStore{
		pool:   pool,
		logger: logger.With("component", "postgres_account_store"),
	}
}

// Create implements store.AccountStore.Create
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	id := uuid.New()

	return store.CreateWithFreshReferralCode(account, func() error {
		_, err := s.pool.Exec(ctx, insertAccountSQL,
			id,
			account.Identifier,
			account.CredentialHash,
			account.FullName,
			string(account.Role),
			account.DateOfBirth,
			account.HomeTown.Location,
			nonNilFloats(account.HomeTown.Coordinates),
			account.ReferralCode,
			account.SquadTokens,
			nonNilStrings(account.Squads),
			nonNilStrings(account.Badges),
			account.CreatedDate,
			account.Version,
		)
		if err != nil {
			mapped := MapError(err)
			if !store.IsDuplicateError(mapped) {
				s.logger.Error("failed to insert account", "error", err)
				return store.NewStoreError("account", "create", "insert failed", mapped)
			}
			return mapped
		}

		account.ID = id.String()
		return nil
	})
}

// GetByID implements store.AccountStore.GetByID
func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	return s.queryOne(ctx, selectAccountByIDSQL, parsed)
}

// GetByIdentifier implements store.AccountStore.GetByIdentifier
func (s *AccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	return s.queryOne(ctx, selectAccountByEmailSQL, domain.NormalizeIdentifier(identifier))
}

// Delete implements store.AccountStore.Delete
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return store.ErrInvalidID
	}

	tag, err := s.pool.Exec(ctx, deleteAccountSQL, parsed)
	if err != nil {
		s.logger.Error("failed to delete account", "error", err, "account_id", id)
		return store.NewStoreError("account", "delete", "delete failed", MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

// Ping implements store.AccountStore.Ping
func (s *AccountStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements store.AccountStore.Close
func (s *AccountStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *AccountStore) queryOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Identifier,
		&a.CredentialHash,
		&a.FullName,
		&role,
		&a.DateOfBirth,
		&a.HomeTown.Location,
		&a.HomeTown.Coordinates,
		&a.ReferralCode,
		&a.SquadTokens,
		&a.Squads,
		&a.Badges,
		&a.CreatedDate,
		&a.Version,
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsNotFoundError(mapped) {
			s.logger.Error("failed to query account", "error", err)
			return nil, store.NewStoreError("account", "get", "query failed", mapped)
		}
		return nil, mapped
	}

	a.Role = domain.Role(role)
	a.DateOfBirth = a.DateOfBirth.UTC()
	a.CreatedDate = a.CreatedDate.UTC()
	return &a, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFloats(f []float64) []float64 {
	if f == nil {
		return []float64{}
	}
	return f
}
