package mongo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect creates a mongo client and verifies it with a ping, retrying
// RetryAttempts times with RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*mongo.Client, error) {
	backoff := retry.WithMaxRetries(cfg.RetryAttempts, retry.NewConstant(cfg.RetryInterval))

	var client *mongo.Client
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize),
		)
		if err != nil {
			logger.Warn("mongo connect failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		if err := c.Ping(ctx, nil); err != nil {
			logger.Warn("mongo ping failed", "attempt", attempt, "error", err)
			_ = c.Disconnect(context.Background())
			return retry.RetryableError(err)
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToConnect, err)
	}

	logger.Info("mongo connection established", "attempts", attempt, "database", cfg.Database)
	return client, nil
}

// Healthcheck returns a function that pings the server, suitable for the
// /health endpoint.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
