package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/platform/metrics"
	"github.com/phrazzld/squad-api/internal/service/auth"
)

// Local gate response messages.
const (
	AuthenticationFailedMessage = "Authentication failed."
	MalformedBodyMessage        = "Check your json request body!"
)

// Credentials is the login request body. The original field names
// email/password and the names identifier/rawPassword are both accepted.
type Credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Identifier  string `json:"identifier"`
	RawPassword string `json:"rawPassword"`
}

// Resolve returns the identifier and password, preferring email/password.
func (c Credentials) Resolve() (identifier, password string) {
	identifier, password = c.Email, c.Password
	if identifier == "" {
		identifier = c.Identifier
	}
	if password == "" {
		password = c.RawPassword
	}
	return identifier, password
}

// CredentialChecker resolves credentials to an account. The account service
// satisfies it and bounds the store lookup with its query timeout.
type CredentialChecker interface {
	Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error)
}

// LocalAuth is the login gate: it reads credentials from the body, checks them
// and stores the account in the request context for the next handler.
type LocalAuth struct {
	checker   CredentialChecker
	bodyLimit int64
	metrics   *metrics.Metrics
}

// NewLocalAuth creates the login gate. bodyLimit caps the request body; m may be nil.
func NewLocalAuth(checker CredentialChecker, bodyLimit int64, m *metrics.Metrics) *LocalAuth {
	return &LocalAuth{checker: checker, bodyLimit: bodyLimit, metrics: m}
}

// Authenticate implements the middleware.
func (l *LocalAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := shared.DecodeJSON(w, r, &creds, l.bodyLimit); err != nil {
			l.metrics.RecordAuthAttempt(metrics.GateLocal, metrics.OutcomeInvalid)
			shared.RespondWithErrorAndLog(w, r, http.StatusConflict, MalformedBodyMessage, err)
			return
		}

		identifier, password := creds.Resolve()
		account, err := l.checker.Authenticate(r.Context(), identifier, password)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrNoSuchAccount), errors.Is(err, auth.ErrBadCredential):
			l.metrics.RecordAuthAttempt(metrics.GateLocal, metrics.OutcomeRejected)
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, AuthenticationFailedMessage, err)
			return
		default:
			l.metrics.RecordAuthAttempt(metrics.GateLocal, metrics.OutcomeError)
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"An unexpected error occurred", err)
			return
		}

		l.metrics.RecordAuthAttempt(metrics.GateLocal, metrics.OutcomeSuccess)
		next.ServeHTTP(w, r.WithContext(shared.WithAccount(r.Context(), account)))
	})
}
