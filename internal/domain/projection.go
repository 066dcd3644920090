package domain

import "time"

// PublicAccount is the client-safe view of an Account.
// It deliberately has no credential or bookkeeping fields.
type PublicAccount struct {
	ID           string    `json:"_id"`
	Identifier   string    `json:"email"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	HomeTown     HomeTown  `json:"homeTown"`
	ReferralCode string    `json:"refCode"`
	SquadTokens  int       `json:"squadTokens"`
	Squads       []string  `json:"squads"`
	Badges       []string  `json:"badges"`
	CreatedDate  time.Time `json:"createdDate"`
}

// Project returns a copy of the account with the credential hash and
// internal version marker removed. The original account is not modified
// and the returned value shares no slices with it.
func Project(a *Account) PublicAccount {
	if a == nil {
		return PublicAccount{}
	}

	home := HomeTown{Location: a.HomeTown.Location}
	if a.HomeTown.Coordinates != nil {
		home.Coordinates = make([]float64, len(a.HomeTown.Coordinates))
		copy(home.Coordinates, a.HomeTown.Coordinates)
	}

	return PublicAccount{
		ID:           a.ID,
		Identifier:   a.Identifier,
		FullName:     a.FullName,
		Role:         a.Role,
		DateOfBirth:  a.DateOfBirth,
		HomeTown:     home,
		ReferralCode: a.ReferralCode,
		SquadTokens:  a.SquadTokens,
		Squads:       nonNil(a.Squads),
		Badges:       nonNil(a.Badges),
		CreatedDate:  a.CreatedDate,
	}
}
