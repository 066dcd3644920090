package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		Identifier:  "  Example.User@Gmail.com ",
		FullName:    "Example User",
		Role:        RoleUser,
		DateOfBirth: time.Date(1995, 2, 3, 0, 0, 0, 0, time.UTC),
		HomeTown: HomeTown{
			Location:    "Manchester, NH",
			Coordinates: []float64{-71.431990, 42.955041},
		},
	}
}

func TestNewAccount(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	account, err := NewAccount(validProfile(), now)
	require.NoError(t, err)

	assert.Empty(t, account.ID, "store assigns the ID")
	assert.Empty(t, account.CredentialHash, "store assigns the hash")
	assert.Equal(t, "example.user@gmail.com", account.Identifier)
	assert.Equal(t, now, account.CreatedDate)
	assert.Equal(t, 0, account.SquadTokens)
	assert.NotNil(t, account.Squads)
	assert.NotNil(t, account.Badges)
	assert.NoError(t, ValidateReferralCode(account.ReferralCode))
}

func TestAccountValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr error
		field   string
	}{
		{
			name:    "missing identifier",
			mutate:  func(p *Profile) { p.Identifier = "   " },
			wantErr: ErrMissingIdentifier,
		},
		{
			name:    "malformed email",
			mutate:  func(p *Profile) { p.Identifier = "not-an-email" },
			wantErr: ErrInvalidEmail,
			field:   "Identifier",
		},
		{
			name:    "unknown role",
			mutate:  func(p *Profile) { p.Role = "superuser" },
			wantErr: ErrInvalidRole,
			field:   "Role",
		},
		{
			name:    "missing full name",
			mutate:  func(p *Profile) { p.FullName = "" },
			wantErr: ErrValidation,
			field:   "FullName",
		},
		{
			name:    "missing date of birth",
			mutate:  func(p *Profile) { p.DateOfBirth = time.Time{} },
			wantErr: ErrValidation,
			field:   "DateOfBirth",
		},
		{
			name:    "missing home town location",
			mutate:  func(p *Profile) { p.HomeTown.Location = "" },
			wantErr: ErrValidation,
			field:   "Location",
		},
		{
			name:    "three coordinates",
			mutate:  func(p *Profile) { p.HomeTown.Coordinates = []float64{1, 2, 3} },
			wantErr: ErrValidation,
			field:   "Coordinates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile := validProfile()
			tt.mutate(&profile)

			account, err := NewAccount(profile, time.Now())
			require.Error(t, err)
			assert.Nil(t, account)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.field != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.field, verr.Field)
				assert.ErrorIs(t, err, ErrValidation, "every field error is a validation error")
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("ADMIN").Valid())
}

func TestGenerateReferralCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, ReferralCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(ReferralCodeAlphabet, c), "unexpected character %q", c)
		}
		seen[code] = struct{}{}
	}
	// 36^6 possibilities; 200 draws colliding more than a couple of times means a broken generator.
	assert.Greater(t, len(seen), 195)
}

func TestValidateReferralCode(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateReferralCode("ABC123"))
	assert.ErrorIs(t, ValidateReferralCode("abc123"), ErrInvalidReferralCode)
	assert.ErrorIs(t, ValidateReferralCode("ABC12"), ErrInvalidReferralCode)
	assert.ErrorIs(t, ValidateReferralCode("ABC-23"), ErrInvalidReferralCode)
}
