package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key, e.g. SQUAD_AUTH_JWT_SECRET.
const EnvPrefix = "SQUAD"

// keys lists every configuration key so that each one can be bound to its
// environment variable. viper's AutomaticEnv alone does not populate keys
// that have no default and no config file entry during Unmarshal.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.body_limit_bytes",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"database.driver",
	"database.url",
	"database.name",
	"database.query_timeout",
	"database.connect_retries",
	"database.connect_retry_interval",
	"database.max_pool_size",
	"auth.jwt_secret",
	"auth.token_lifetime",
	"auth.bcrypt_cost",
	"docs.enabled",
	"docs.title",
	"docs.version",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3005)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.body_limit_bytes", 100*1024)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.name", "squad")
	v.SetDefault("database.query_timeout", "5s")
	v.SetDefault("database.connect_retries", 3)
	v.SetDefault("database.connect_retry_interval", "2s")
	v.SetDefault("database.max_pool_size", 100)

	v.SetDefault("auth.token_lifetime", "8760h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("docs.enabled", true)
	v.SetDefault("docs.title", "Squad API")
	v.SetDefault("docs.version", "Beta")
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is applied to the process environment
// first; variables already set are not overridden.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit directory for the optional .env and
// config.yaml files.
func LoadFrom(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
