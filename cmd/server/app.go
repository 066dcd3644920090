package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/platform/metrics"
	"github.com/phrazzld/squad-api/internal/service"
	"github.com/phrazzld/squad-api/internal/service/auth"
	"github.com/phrazzld/squad-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	accounts store.AccountStore
	metrics  *metrics.Metrics

	jwtService     auth.JWTService
	accountService service.AccountService
}

// newApplication wires services over an already opened account store.
func newApplication(cfg *config.Config, logger *slog.Logger, accounts store.AccountStore) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		accounts: accounts,
		metrics:  metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.accountService, err = service.NewAccountService(service.AccountServiceConfig{
		Accounts:      accounts,
		Hasher:        hasher,
		Authenticator: auth.NewAuthenticator(accounts, hasher, logger),
		Sessions:      auth.NewSessionIssuer(app.jwtService, logger),
		QueryTimeout:  cfg.Database.QueryTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the store connection.
func (app *application) cleanup(ctx context.Context) {
	if app.accounts != nil {
		if err := app.accounts.Close(ctx); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
