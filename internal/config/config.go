package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Docs     DocsConfig     `mapstructure:"docs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	BodyLimitBytes  int64         `mapstructure:"body_limit_bytes" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Database drivers understood by the server.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the account store backend.
// URL is required for every driver except memory.
type DatabaseConfig struct {
	Driver               string        `mapstructure:"driver" validate:"required,oneof=mongo postgres memory"`
	URL                  string        `mapstructure:"url" validate:"required_unless=Driver memory,omitempty,url"`
	Name                 string        `mapstructure:"name" validate:"required"`
	QueryTimeout         time.Duration `mapstructure:"query_timeout" validate:"gt=0"`
	ConnectRetries       uint64        `mapstructure:"connect_retries"`
	ConnectRetryInterval time.Duration `mapstructure:"connect_retry_interval" validate:"gt=0"`
	MaxPoolSize          uint64        `mapstructure:"max_pool_size" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
	BcryptCost    int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// DocsConfig controls the generated API documentation.
type DocsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
}
