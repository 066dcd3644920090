package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/squad-api/internal/api/middleware"
	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/service/auth"
	"github.com/phrazzld/squad-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
//
// Registration failures and lookups of malformed or absent ids answer 401,
// following the convention existing clients were built against. Body
// decoding failures answer 409.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, shared.ErrMalformedBody):
		return http.StatusConflict

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrNoSuchAccount),
		errors.Is(err, auth.ErrBadCredential):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrMissingIdentifier),
		errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, store.ErrNotFound):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Internal details
// never appear in it.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MessageUnexpected
	}

	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return MessageBodyTooLarge

	case errors.Is(err, shared.ErrMalformedBody):
		return MessageMalformedBody

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return middleware.UnauthorizedMessage

	case errors.Is(err, auth.ErrNoSuchAccount),
		errors.Is(err, auth.ErrBadCredential):
		return middleware.AuthenticationFailedMessage

	case errors.Is(err, domain.ErrMissingIdentifier),
		errors.Is(err, domain.ErrMissingCredential):
		return MessageMissingCreds

	case errors.Is(err, store.ErrDuplicate):
		return MessageDuplicate

	case errors.Is(err, domain.ErrValidation):
		return MessageInvalidRequest

	case errors.Is(err, store.ErrInvalidID):
		return "Invalid user id"

	case errors.Is(err, store.ErrNotFound):
		return "User not found"

	default:
		return MessageUnexpected
	}
}
