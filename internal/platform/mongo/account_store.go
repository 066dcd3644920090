package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/store"
)

const (
	accountsCollection = "users"
	emailIndexName     = "email_unique"
	refCodeIndexName   = "refCode_unique"
)

// accountDocument is the BSON shape of an account. Field names match the
// documents written by the previous service. Its squads and badges were
// ObjectId references and are read back as hex ids. Its credentials were a
// pbkdf2 hash plus salt, which bcrypt cannot verify: such accounts load with
// an empty credential hash and cannot log in until their password is reset.
type accountDocument struct {
	ID          bson.ObjectID    `bson:"_id,omitempty"`
	Email       string           `bson:"email"`
	Hash        string           `bson:"hash"`
	Salt        string           `bson:"salt,omitempty"`
	FullName    string           `bson:"fullName"`
	Role        string           `bson:"role"`
	DateOfBirth time.Time        `bson:"dateOfBirth"`
	HomeTown    homeTownDocument `bson:"homeTown"`
	RefCode     string           `bson:"refCode"`
	SquadTokens int              `bson:"squadTokens"`
	Squads      idList           `bson:"squads"`
	Badges      idList           `bson:"badges"`
	CreatedDate time.Time        `bson:"createdDate"`
	Version     int              `bson:"__v"`
}

// idList is a list of ids stored either as strings or as ObjectIds.
type idList []string

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (l *idList) UnmarshalBSONValue(typ byte, data []byte) error {
	raw := bson.RawValue{Type: bson.Type(typ), Value: data}
	switch raw.Type {
	case bson.TypeNull, bson.TypeUndefined:
		*l = idList{}
		return nil
	case bson.TypeArray:
	default:
		return fmt.Errorf("id list: unexpected BSON type %s", raw.Type)
	}

	values, err := raw.Array().Values()
	if err != nil {
		return fmt.Errorf("id list: %w", err)
	}
	ids := make(idList, 0, len(values))
	for i, v := range values {
		if oid, ok := v.ObjectIDOK(); ok {
			ids = append(ids, oid.Hex())
			continue
		}
		if str, ok := v.StringValueOK(); ok {
			ids = append(ids, str)
			continue
		}
		return fmt.Errorf("id list: element %d has BSON type %s", i, v.Type)
	}
	*l = ids
	return nil
}

type homeTownDocument struct {
	Location    string    `bson:"location"`
	Coordinates []float64 `bson:"coordinates"`
}

// AccountStore implements the store.AccountStore interface
// using a MongoDB collection as the storage backend.
type AccountStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates the MongoDB account store on the given database.
// It does not create indexes; call EnsureIndexes once at startup.
func NewAccountStore(client *mongo.Client, database string, logger *slog.Logger) *AccountStore {
	return &AccountStore{
		client:     client,
		collection: client.Database(database).Collection(accountsCollection),
		logger:     logger.With("component", "mongo_account_store"),
	}
}

// EnsureIndexes creates the unique indexes on email and refCode.
// It is idempotent.
func (s *AccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
		{
			Keys:    bson.D{{Key: "refCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(refCodeIndexName),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}

// Create implements store.AccountStore.Create
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	return store.CreateWithFreshReferralCode(account, func() error {
		doc := toDocument(account)
		doc.ID = bson.NewObjectID()

		if _, err := s.collection.InsertOne(ctx, doc); err != nil {
			mapped := MapError(err)
			if !store.IsDuplicateError(mapped) {
				s.logger.Error("failed to insert account", "error", err)
				return store.NewStoreError("account", "create", "insert failed", mapped)
			}
			return mapped
		}

		account.ID = doc.ID.Hex()
		return nil
	})
}

// GetByID implements store.AccountStore.GetByID
func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByIdentifier implements store.AccountStore.GetByIdentifier
func (s *AccountStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeIdentifier(identifier)}})
}

// Delete implements store.AccountStore.Delete
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrInvalidID
	}

	res, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		s.logger.Error("failed to delete account", "error", err, "account_id", id)
		return store.NewStoreError("account", "delete", "delete failed", MapError(err))
	}
	if res.DeletedCount == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

// Ping implements store.AccountStore.Ping
func (s *AccountStore) Ping(ctx context.Context) error {
	return Healthcheck(s.client)(ctx)
}

// Close implements store.AccountStore.Close
func (s *AccountStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *AccountStore) findOne(ctx context.Context, filter bson.D) (*domain.Account, error) {
	var doc accountDocument
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		mapped := MapError(err)
		if !store.IsNotFoundError(mapped) {
			s.logger.Error("failed to find account", "error", err)
			return nil, store.NewStoreError("account", "get", "find failed", mapped)
		}
		return nil, mapped
	}
	return fromDocument(&doc), nil
}

func toDocument(a *domain.Account) *accountDocument {
	return &accountDocument{
		Email:       a.Identifier,
		Hash:        a.CredentialHash,
		FullName:    a.FullName,
		Role:        string(a.Role),
		DateOfBirth: a.DateOfBirth,
		HomeTown: homeTownDocument{
			Location:    a.HomeTown.Location,
			Coordinates: a.HomeTown.Coordinates,
		},
		RefCode:     a.ReferralCode,
		SquadTokens: a.SquadTokens,
		Squads:      idList(emptyIfNil(a.Squads)),
		Badges:      idList(emptyIfNil(a.Badges)),
		CreatedDate: a.CreatedDate,
		Version:     a.Version,
	}
}

func fromDocument(d *accountDocument) *domain.Account {
	hash := d.Hash
	if d.Salt != "" {
		hash = ""
	}
	return &domain.Account{
		ID:             d.ID.Hex(),
		Identifier:     d.Email,
		CredentialHash: hash,
		FullName:       d.FullName,
		Role:           domain.Role(d.Role),
		DateOfBirth:    d.DateOfBirth.UTC(),
		HomeTown: domain.HomeTown{
			Location:    d.HomeTown.Location,
			Coordinates: d.HomeTown.Coordinates,
		},
		ReferralCode: d.RefCode,
		SquadTokens:  d.SquadTokens,
		Squads:       []string(d.Squads),
		Badges:       []string(d.Badges),
		CreatedDate:  d.CreatedDate.UTC(),
		Version:      d.Version,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
