package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/platform/memory"
	"github.com/phrazzld/squad-api/internal/platform/mongo"
	"github.com/phrazzld/squad-api/internal/platform/postgres"
	"github.com/phrazzld/squad-api/internal/store"
)

// setupAccountStore connects to the configured backend and prepares its
// schema. The returned store owns the connection; close it on shutdown.
func setupAccountStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.AccountStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, mongo.Config{
			ConnectionURL:  cfg.URL,
			Database:       cfg.Name,
			ConnectTimeout: cfg.QueryTimeout,
			MaxPoolSize:    cfg.MaxPoolSize,
			RetryAttempts:  cfg.ConnectRetries,
			RetryInterval:  cfg.ConnectRetryInterval,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		accounts := mongo.NewAccountStore(client, cfg.Name, logger)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			_ = accounts.Close(ctx)
			return nil, err
		}
		logger.Info("Database connection established", "driver", cfg.Driver, "database", cfg.Name)
		return accounts, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:           cfg.URL,
			MaxConns:      int32(min(cfg.MaxPoolSize, math.MaxInt32)),
			RetryAttempts: cfg.ConnectRetries,
			RetryInterval: cfg.ConnectRetryInterval,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database connection established", "driver", cfg.Driver)
		return postgres.NewAccountStore(pool, logger), nil

	case config.DriverMemory:
		logger.Warn("Using in-memory account store; accounts are lost on restart")
		return memory.NewAccountStore(), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
