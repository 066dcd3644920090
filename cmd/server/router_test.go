package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/mocks"
	"github.com/phrazzld/squad-api/internal/platform/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           0,
			LogLevel:       "debug",
			BodyLimitBytes: 102400,
		},
		Database: config.DatabaseConfig{
			Driver:       config.DriverMemory,
			QueryTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			JWTSecret:     "end-to-end-secret-of-at-least-32-characters",
			TokenLifetime: time.Hour,
			BcryptCost:    4,
		},
		Docs: config.DocsConfig{Enabled: true, Title: "Squad API", Version: "Beta"},
	}
}

func newTestServer(t *testing.T) (*application, *httptest.Server) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(), log, memory.NewAccountStore())
	require.NoError(t, err)

	router, err := app.setupRouter()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return app, srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestAccountLifecycle(t *testing.T) {
	t.Parallel()

	app, srv := newTestServer(t)

	// register
	resp, body := call(t, srv, http.MethodPost, "/v1/user", "", map[string]any{
		"identifier":  "a@b.com",
		"rawPassword": "Secret123!",
		"fullName":    "A B",
		"role":        "user",
		"dateOfBirth": "1990-01-01",
		"homeTown":    map[string]any{"location": "X", "coordinates": []float64{0, 0}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var registered struct {
		Data struct {
			ID string `json:"_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &registered))
	id := registered.Data.ID
	require.NotEmpty(t, id)

	// login
	resp, body = call(t, srv, http.MethodPost, "/v1/auth", "", map[string]string{
		"identifier":  "a@b.com",
		"rawPassword": "Secret123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var login struct {
		Status string `json:"status"`
		Data   struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "Success!", login.Status)

	claims, err := app.jwtService.ValidateToken(context.Background(), login.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.AccountID)
	token := login.Data.Token

	// lookup
	resp, body = call(t, srv, http.MethodGet, "/v1/user/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	for _, secret := range []string{`"hash"`, `"salt"`, `"__v"`, "$2a$"} {
		assert.NotContains(t, string(body), secret)
	}
	var lookup struct {
		Code int            `json:"code"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &lookup))
	assert.Equal(t, http.StatusOK, lookup.Code)
	assert.Equal(t, "a@b.com", lookup.Data["email"])
	assert.Equal(t, "A B", lookup.Data["fullName"])

	// delete
	resp, body = call(t, srv, http.MethodDelete, "/v1/user/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"User Successfully Removed"}`, string(body))

	// lookup after delete
	resp, body = call(t, srv, http.MethodGet, "/v1/user/"+id, token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"code":401,"status":"Failure","data":[]}`, string(body))
}

func TestRegisterDuplicateCreatesNothing(t *testing.T) {
	t.Parallel()

	app, srv := newTestServer(t)
	payload := map[string]any{
		"email":       "dup@b.com",
		"password":    "Secret123!",
		"fullName":    "D U P",
		"role":        "admin",
		"dateOfBirth": "1990-01-01T00:00:00Z",
		"homeTown":    map[string]any{"location": "Y"},
	}

	resp, _ := call(t, srv, http.MethodPost, "/v1/user", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, srv, http.MethodPost, "/v1/user", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "A user already exists with this email")
	assert.Equal(t, 1, app.accounts.(*memory.AccountStore).Len())
}

func TestLogoutAcceptsQueryToken(t *testing.T) {
	t.Parallel()

	app, srv := newTestServer(t)
	token, err := app.jwtService.GenerateToken(context.Background(), "any-account")
	require.NoError(t, err)

	resp, body := call(t, srv, http.MethodGet, "/v1/auth?accessToken="+token, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Successfully logged out.", string(body))

	resp, _ = call(t, srv, http.MethodGet, "/v1/auth", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOperationalRoutes(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = call(t, srv, http.MethodGet, "/swagger.json", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"swagger": "2.0"`)

	resp, _ = call(t, srv, http.MethodGet, "/swagger.yaml", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, srv, http.MethodGet, "/v1/docs", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "swagger-ui")

	resp, body = call(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "squad_http_requests_total"))
}

func TestDocsDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Docs.Enabled = false
	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewAccountStore())
	require.NoError(t, err)
	router, err := app.setupRouter()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), memory.NewAccountStore())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSetupAccountStore(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	accounts, err := setupAccountStore(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &memory.AccountStore{}, accounts)

	_, err = setupAccountStore(context.Background(), config.DatabaseConfig{Driver: "sqlite"}, log)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLoginLookupHasQueryDeadline(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		lookups   int
		deadlines int
	)
	accounts := &mocks.MockAccountStore{
		Fallback: memory.NewAccountStore(),
	}
	accounts.GetByIdentifierFn = func(ctx context.Context, identifier string) (*domain.Account, error) {
		mu.Lock()
		lookups++
		if _, ok := ctx.Deadline(); ok {
			deadlines++
		}
		mu.Unlock()
		return accounts.Fallback.GetByIdentifier(ctx, identifier)
	}

	app, err := newApplication(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), accounts)
	require.NoError(t, err)
	router, err := app.setupRouter()
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, _ := call(t, srv, http.MethodPost, "/v1/user", "", map[string]any{
		"identifier":  "deadline@b.com",
		"rawPassword": "Secret123!",
		"fullName":    "D L",
		"role":        "user",
		"dateOfBirth": "1990-01-01",
		"homeTown":    map[string]any{"location": "Z", "coordinates": []float64{0, 0}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	mu.Lock()
	lookups, deadlines = 0, 0
	mu.Unlock()

	resp, body := call(t, srv, http.MethodPost, "/v1/auth", "", map[string]string{
		"identifier":  "deadline@b.com",
		"rawPassword": "Secret123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, lookups)
	assert.Equal(t, 1, deadlines, "login lookup runs under database.query_timeout")
}
