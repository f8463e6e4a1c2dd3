// Package common provides shared utilities for Digest
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Digest
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// TokenCredentials holds the signing configuration for one token kind.
// Each kind (authentication, first-party access, OAuth2 client, OAuth2
// access, OAuth2 refresh) carries its own independent block, loaded once
// at startup and immutable thereafter.
type TokenCredentials struct {
	Secret    string `toml:"secret"`
	Algorithm string `toml:"algorithm"` // HS256, HS384 or HS512
	Issuer    string `toml:"issuer"`
	Subject   string `toml:"subject"`
	Expiry    string `toml:"expiry"` // duration string, e.g. "20m"
}

// GetExpiry parses and returns the token lifetime.
func (c *TokenCredentials) GetExpiry() time.Duration {
	d, err := time.ParseDuration(c.Expiry)
	if err != nil {
		return 20 * time.Minute
	}
	return d
}

// AuthConfig holds per-token-kind signing credentials.
type AuthConfig struct {
	Authentication TokenCredentials `toml:"authentication"`
	FirstParty     TokenCredentials `toml:"first_party"`
	OAuth2         OAuth2Config     `toml:"oauth2"`
}

// OAuth2Config holds the three OAuth2 token credential blocks.
type OAuth2Config struct {
	ClientToken  TokenCredentials `toml:"client_token"`
	AccessToken  TokenCredentials `toml:"access_token"`
	RefreshToken TokenCredentials `toml:"refresh_token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "digest",
			Database:  "digest",
		},
		Auth: AuthConfig{
			Authentication: TokenCredentials{
				Secret:    "dev-authentication-secret-change-in-production",
				Algorithm: "HS256",
				Issuer:    "digest-server",
				Subject:   "authentication",
				Expiry:    "20m",
			},
			FirstParty: TokenCredentials{
				Secret:    "dev-first-party-secret-change-in-production",
				Algorithm: "HS256",
				Issuer:    "digest-server",
				Subject:   "first-party-access",
				Expiry:    "20m",
			},
			OAuth2: OAuth2Config{
				ClientToken: TokenCredentials{
					Secret:    "dev-client-token-secret-change-in-production",
					Algorithm: "HS256",
					Issuer:    "digest-server",
					Subject:   "oauth2-client",
					Expiry:    "10m",
				},
				AccessToken: TokenCredentials{
					Secret:    "dev-access-token-secret-change-in-production",
					Algorithm: "HS256",
					Issuer:    "digest-server",
					Subject:   "oauth2-access",
					Expiry:    "30m",
				},
				// Refresh tokens outlive the access tokens they mint.
				RefreshToken: TokenCredentials{
					Secret:    "dev-refresh-token-secret-change-in-production",
					Algorithm: "HS256",
					Issuer:    "digest-server",
					Subject:   "oauth2-refresh",
					Expiry:    "60m",
				},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DIGEST_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DIGEST_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DIGEST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DIGEST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("DIGEST_DB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("DIGEST_DB_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("DIGEST_DB_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if ns := os.Getenv("DIGEST_DB_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("DIGEST_DB_DATABASE"); db != "" {
		config.Storage.Database = db
	}

	if v := os.Getenv("DIGEST_AUTH_SECRET"); v != "" {
		config.Auth.Authentication.Secret = v
	}
	if v := os.Getenv("DIGEST_FIRST_PARTY_SECRET"); v != "" {
		config.Auth.FirstParty.Secret = v
	}
	if v := os.Getenv("DIGEST_OAUTH2_CLIENT_TOKEN_SECRET"); v != "" {
		config.Auth.OAuth2.ClientToken.Secret = v
	}
	if v := os.Getenv("DIGEST_OAUTH2_ACCESS_TOKEN_SECRET"); v != "" {
		config.Auth.OAuth2.AccessToken.Secret = v
	}
	if v := os.Getenv("DIGEST_OAUTH2_REFRESH_TOKEN_SECRET"); v != "" {
		config.Auth.OAuth2.RefreshToken.Secret = v
	}

	// A single issuer is shared across all token kinds when set via env.
	if v := os.Getenv("DIGEST_TOKEN_ISSUER"); v != "" {
		config.Auth.Authentication.Issuer = v
		config.Auth.FirstParty.Issuer = v
		config.Auth.OAuth2.ClientToken.Issuer = v
		config.Auth.OAuth2.AccessToken.Issuer = v
		config.Auth.OAuth2.RefreshToken.Issuer = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
