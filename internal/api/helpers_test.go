package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/squad-api/internal/api/middleware"
	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/mocks"
	"github.com/phrazzld/squad-api/internal/platform/memory"
	"github.com/phrazzld/squad-api/internal/service"
	"github.com/phrazzld/squad-api/internal/service/auth"
	"github.com/phrazzld/squad-api/internal/store"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// testStack is the account service wired over a store, with a real token
// codec and the fast mock hasher.
type testStack struct {
	store    store.AccountStore
	jwt      auth.JWTService
	auth     *auth.Authenticator
	accounts *service.AccountServiceImpl
	router   chi.Router
}

func newTestStack(t *testing.T, accounts store.AccountStore) *testStack {
	t.Helper()

	if accounts == nil {
		accounts = memory.NewAccountStore()
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     testSecret,
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)

	hasher := &mocks.MockPasswordHasher{}
	authenticator := auth.NewAuthenticator(accounts, hasher, log)
	svc, err := service.NewAccountService(service.AccountServiceConfig{
		Accounts:      accounts,
		Hasher:        hasher,
		Authenticator: authenticator,
		Sessions:      auth.NewSessionIssuer(jwtService, log),
		QueryTimeout:  time.Second,
	}, log)
	require.NoError(t, err)

	authHandler := NewAuthHandler(svc)
	accountHandler := NewAccountHandler(svc, 4096, nil)
	bearer := middleware.NewAuthMiddleware(jwtService, nil)
	local := middleware.NewLocalAuth(svc, 4096, nil)

	r := chi.NewRouter()
	r.With(local.Authenticate).Post("/auth", authHandler.Login)
	r.With(bearer.AuthenticateWithQuery("accessToken")).Get("/auth", authHandler.Logout)
	r.Post("/user", accountHandler.Register)
	r.Group(func(r chi.Router) {
		r.Use(bearer.Authenticate)
		r.Get("/user/{id}", accountHandler.Get)
		r.Delete("/user/{id}", accountHandler.Delete)
	})

	return &testStack{
		store:    accounts,
		jwt:      jwtService,
		auth:     authenticator,
		accounts: svc,
		router:   r,
	}
}

func (s *testStack) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// register creates an account through the API and returns its id and token.
func (s *testStack) register(t *testing.T, email string) (string, string) {
	t.Helper()

	rr := s.do(t, http.MethodPost, "/user", "", validRegistration(email))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data RegisterData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Data.ID, resp.Data.Token
}

func validRegistration(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": "Example1234!",
		"fullName": "Example User",
		"role":     "user",
		"homeTown": map[string]interface{}{
			"location":    "Manchester, NH",
			"coordinates": []float64{-71.431990, 42.955041},
		},
		"dateOfBirth": "1995-02-03T00:00:00.000Z",
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}
