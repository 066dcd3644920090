package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Role is the authorization level of an account.
type Role string

const (
	// RoleAdmin grants administrative access.
	RoleAdmin Role = "admin"
	// RoleUser is the default role for registered members.
	RoleUser Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// HomeTown is a labelled geographic location. Coordinates are [longitude, latitude].
type HomeTown struct {
	Location    string    `json:"location"              validate:"required"`
	Coordinates []float64 `json:"coordinates,omitempty" validate:"omitempty,len=2"`
}

// Account represents a registered member of the Squad application.
// It contains the profile and the credential hash; the hash must never leave
// the process, use Project to build a client-safe copy.
type Account struct {
	ID             string    `json:"_id"`
	Identifier     string    `json:"email"        validate:"required,email"`
	CredentialHash string    `json:"-"`
	FullName       string    `json:"fullName"     validate:"required"`
	Role           Role      `json:"role"         validate:"required,oneof=admin user"`
	DateOfBirth    time.Time `json:"dateOfBirth"  validate:"required"`
	HomeTown       HomeTown  `json:"homeTown"`
	ReferralCode   string    `json:"refCode"`
	SquadTokens    int       `json:"squadTokens"  validate:"gte=0"`
	Squads         []string  `json:"squads"`
	Badges         []string  `json:"badges"`
	CreatedDate    time.Time `json:"createdDate"`
	Version        int       `json:"-"`
}

var validate = validator.New()

// NormalizeIdentifier lower-cases and trims an e-mail so that lookups and
// uniqueness checks are case-insensitive.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// NewAccount builds an Account for registration. The identifier is normalized,
// a referral code is generated and CreatedDate is set to now. The returned
// account has no ID and no credential hash; both are filled in by the store.
func NewAccount(profile Profile, now time.Time) (*Account, error) {
	code, err := GenerateReferralCode()
	if err != nil {
		return nil, err
	}

	account := &Account{
		Identifier:   NormalizeIdentifier(profile.Identifier),
		FullName:     strings.TrimSpace(profile.FullName),
		Role:         profile.Role,
		DateOfBirth:  profile.DateOfBirth.UTC(),
		HomeTown:     profile.HomeTown,
		ReferralCode: code,
		Squads:       nonNil(profile.Squads),
		Badges:       nonNil(profile.Badges),
		CreatedDate:  now.UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// Profile is the client-supplied part of an account at registration time.
type Profile struct {
	Identifier  string
	FullName    string
	Role        Role
	DateOfBirth time.Time
	HomeTown    HomeTown
	Squads      []string
	Badges      []string
}

// Validate checks the schema constraints of the account.
// It returns ErrMissingIdentifier for an empty identifier and a *ValidationError
// for any other field.
func (a *Account) Validate() error {
	if a.Identifier == "" {
		return ErrMissingIdentifier
	}

	if err := validate.Struct(a); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return NewValidationError("", err.Error(), ErrValidation)
	}

	if err := ValidateReferralCode(a.ReferralCode); err != nil {
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	switch fe.Tag() {
	case "required":
		return NewValidationError(fe.Field(), "is required", ErrValidation)
	case "email":
		return NewValidationError(fe.Field(), "must be a valid email address", ErrInvalidEmail)
	case "oneof":
		return NewValidationError(fe.Field(), "must be one of: "+fe.Param(), ErrInvalidRole)
	case "len":
		return NewValidationError(fe.Field(), "must have exactly "+fe.Param()+" elements", ErrValidation)
	default:
		return NewValidationError(fe.Field(), "failed on the '"+fe.Tag()+"' rule", ErrValidation)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
