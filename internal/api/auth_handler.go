package api

import (
	"net/http"

	"github.com/phrazzld/squad-api/internal/api/middleware"
	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/service"
)

// AuthHandler serves /auth: login and logout.
type AuthHandler struct {
	accounts service.AccountService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /auth. It runs behind the local login gate, which has
// already checked the credentials and put the account in the context.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	account, ok := shared.AccountFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.AuthenticationFailedMessage)
		return
	}

	session, err := h.accounts.IssueSession(r.Context(), account)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MessageUnexpected, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, MessageAuthenticated, LoginData{
		Token: session.Token,
		User:  session.Account,
	})
}

// Logout handles GET /auth. Tokens are stateless, so logout only confirms
// that the caller held a valid one; the token stays usable until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithText(w, r, http.StatusOK, MessageLoggedOut)
}
