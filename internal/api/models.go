package api

import (
	"strings"
	"time"

	"github.com/phrazzld/squad-api/internal/domain"
)

// Response messages.
const (
	MessageAuthenticated  = "User authenticated successfully."
	MessageLoggedOut      = "Successfully logged out."
	MessageRegistered     = "New User registered successfully."
	MessageRemoved        = "User Successfully Removed"
	MessageMissingCreds   = "Must have a valid email or password."
	MessageDuplicate      = "A user already exists with this email. Please try again"
	MessageInvalidRequest = "Invalid JSON request. Please check and try again"
	MessageMalformedBody  = "Check your json request body!"
	MessageBodyTooLarge   = "Request body is too large."
	MessageUnexpected     = "An unexpected error occurred"
)

// Lookup envelope status literals.
const (
	LookupSuccess = "Success"
	LookupFailure = "Failure"
)

// HomeTownRequest is the hometown part of a registration.
type HomeTownRequest struct {
	Location    string    `json:"location" jsonschema:"required,example=Manchester NH"`
	Coordinates []float64 `json:"coordinates,omitempty" jsonschema:"minItems=2,maxItems=2,description=longitude and latitude"`
}

// RegisterRequest defines the payload for the registration endpoint.
// email/password and identifier/rawPassword are interchangeable.
type RegisterRequest struct {
	Email       string           `json:"email,omitempty" jsonschema:"format=email,example=example.user@gmail.com"`
	Password    string           `json:"password,omitempty" jsonschema:"format=password,example=Example1234!"`
	Identifier  string           `json:"identifier,omitempty" jsonschema:"format=email,description=alias of email"`
	RawPassword string           `json:"rawPassword,omitempty" jsonschema:"format=password,description=alias of password"`
	FullName    string           `json:"fullName" jsonschema:"required,example=Example User"`
	Role        string           `json:"role" jsonschema:"required,enum=admin,enum=user"`
	HomeTown    *HomeTownRequest `json:"homeTown" jsonschema:"required"`
	DateOfBirth string           `json:"dateOfBirth" jsonschema:"required,description=ISO 8601 date or timestamp,example=1995-02-03T00:00:00.000Z"`
	Squads      []string         `json:"squads,omitempty"`
	Badges      []string         `json:"badges,omitempty"`
}

// Credentials returns the identifier and password, preferring email/password.
func (r RegisterRequest) Credentials() (identifier, password string) {
	identifier, password = r.Email, r.Password
	if identifier == "" {
		identifier = r.Identifier
	}
	if password == "" {
		password = r.RawPassword
	}
	return identifier, password
}

// LoginData is the payload of a successful login.
type LoginData struct {
	Token string               `json:"token"`
	User  domain.PublicAccount `json:"user"`
}

// RegisterData is the payload of a successful registration.
type RegisterData struct {
	ID    string `json:"_id"`
	Token string `json:"token"`
}

// LookupEnvelope is the body of GET /user/{id} and its failures.
type LookupEnvelope struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// RemovedResponse is the body of a successful delete.
type RemovedResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// parseDate accepts an RFC 3339 timestamp or a plain calendar date. An empty
// string yields the zero time, which account validation rejects.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("DateOfBirth", "must be an ISO 8601 date", domain.ErrValidation)
}
