package middleware

import (
	"net/http"
	"strings"

	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/platform/logger"
	"github.com/phrazzld/squad-api/internal/platform/metrics"
	"github.com/phrazzld/squad-api/internal/service/auth"
)

// UnauthorizedMessage is the single response message for every bearer failure.
const UnauthorizedMessage = "Unauthorized."

// AuthMiddleware verifies bearer tokens for protected routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	metrics    *metrics.Metrics
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// m may be nil.
func NewAuthMiddleware(jwtService auth.JWTService, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		metrics:    m,
	}
}

// Authenticate validates the token in the Authorization header and adds the
// account id to the request context. The header carries the raw token; a
// leading "Bearer " scheme is accepted as well.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, "")
}

// AuthenticateWithQuery is Authenticate that also accepts the token in the
// named query parameter when the header is absent.
func (m *AuthMiddleware) AuthenticateWithQuery(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.authenticate(next, param)
	}
}

func (m *AuthMiddleware) authenticate(next http.Handler, queryParam string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromHeader(r.Header.Get("Authorization"))
		if token == "" && queryParam != "" {
			token = r.URL.Query().Get(queryParam)
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), nil).Debug("bearer token rejected",
				"error", err,
				"trace_id", shared.GetTraceID(r.Context()))
			m.metrics.RecordAuthAttempt(metrics.GateBearer, metrics.OutcomeRejected)
			// Missing, malformed, foreign and expired tokens all get the same answer.
			shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		m.metrics.RecordAuthAttempt(metrics.GateBearer, metrics.OutcomeSuccess)
		ctx := shared.WithAccountID(r.Context(), claims.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// GetAccountID extracts the account ID from the request context.
// Returns the account ID and a boolean indicating if it was found.
func GetAccountID(r *http.Request) (string, bool) {
	return shared.AccountIDFromContext(r.Context())
}
