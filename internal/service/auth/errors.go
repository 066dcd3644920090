package auth

import "errors"

// Token errors. The HTTP layer reports both kinds with the same response.
var (
	// ErrInvalidToken indicates the token is malformed, signed with another key or
	// algorithm, or does not carry an account id.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMissingSecret is returned when a token is issued or verified without a signing key.
	ErrMissingSecret = errors.New("signing secret is empty")
)

// Credential errors. The HTTP layer reports both kinds with the same response
// so that callers cannot tell registered identifiers apart.
var (
	// ErrNoSuchAccount indicates no account is registered under the identifier.
	ErrNoSuchAccount = errors.New("no account for identifier")

	// ErrBadCredential indicates the password does not match the stored hash.
	ErrBadCredential = errors.New("credential mismatch")
)

// ErrPasswordTooLong is returned by Hash for passwords bcrypt cannot represent.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
