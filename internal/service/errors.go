package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// The API layer maps these, together with the domain, store and auth
// sentinels, to HTTP status codes.
var (
	// ErrRegistrationIncomplete indicates the account was stored but the follow-up
	// login could not produce a session. The account exists; the client can log in.
	ErrRegistrationIncomplete = errors.New("account created but session could not be issued")
)
