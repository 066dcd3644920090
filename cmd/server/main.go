// Package main implements the entry point for the Squad API server, which
// registers and authenticates Squad user accounts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("squad-api: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, connects the store and serves until ctx ends.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"driver", cfg.Database.Driver)
	l.Debug("Auth configuration", "jwt_secret_present", cfg.Auth.JWTSecret != "")

	accounts, err := setupAccountStore(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, l, accounts)
	if err != nil {
		_ = accounts.Close(context.Background())
		return err
	}

	return app.Run(ctx)
}
