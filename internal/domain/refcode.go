package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ReferralCodeLength is the fixed length of every referral code.
const ReferralCodeLength = 6

// ReferralCodeAlphabet lists the characters a referral code may contain.
const ReferralCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReferralCode returns a new random referral code.
// Uniqueness is not guaranteed here; the store enforces it and callers retry on collision.
func GenerateReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLength)
	max := big.NewInt(int64(len(ReferralCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		buf[i] = ReferralCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidateReferralCode checks length and alphabet of a referral code.
func ValidateReferralCode(code string) error {
	if len(code) != ReferralCodeLength {
		return NewValidationError("ReferralCode", fmt.Sprintf("must be %d characters", ReferralCodeLength), ErrInvalidReferralCode)
	}
	for _, c := range code {
		if !('0' <= c && c <= '9') && !('A' <= c && c <= 'Z') {
			return NewValidationError("ReferralCode", "must be upper-case alphanumeric", ErrInvalidReferralCode)
		}
	}
	return nil
}
