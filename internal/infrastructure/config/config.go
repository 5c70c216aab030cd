package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/workspacehub/workspace-api/internal/core/service"
)

type Config struct {
	Port      string `env:"PORT, default=3000"`
	Env       string `env:"ENV, default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth   AuthConfig
	SQLite SQLiteConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Audit  AuditConfig
}

type AuthConfig struct {
	Mode           string        `env:"AUTH_MODE, required"`
	Algorithm      string        `env:"JWT_ALGORITHM"`
	Secret         string        `env:"JWT_SECRET"`
	PublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	Issuer         string        `env:"JWT_ISSUER"`
	Audience       string        `env:"JWT_AUDIENCE"`
	TokenTTL       time.Duration `env:"JWT_TOKEN_TTL, default=720h"`
	Leeway         time.Duration `env:"JWT_LEEWAY, default=0s"`
	MockToken      string        `env:"AUTH_MOCK_TOKEN, default=mock-token"`
	AdminUsersPath string        `env:"ADMIN_USERS_PATH, default=backend/auth/admin_users.json"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=backend/data/workspace.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=workspace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=2"`
	Buffer  int `env:"AUDIT_BUFFER, default=256"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "production", "prod":
		return true
	}
	return false
}

// AuthMode returns the parsed AUTH_MODE. Validate has already rejected
// unknown values.
func (c *Config) AuthMode() service.AuthMode {
	m, _ := service.ParseAuthMode(c.Auth.Mode)
	return m
}

// Validate rejects combinations that would start a misconfigured server.
func (c *Config) Validate() error {
	mode, err := service.ParseAuthMode(c.Auth.Mode)
	if err != nil {
		return fmt.Errorf("config: AUTH_MODE: %w", err)
	}

	switch mode {
	case service.ModeMock:
		if c.IsProduction() {
			return errors.New("config: AUTH_MODE=mock is not allowed when ENV=production")
		}
	case service.ModeSymmetricJWT:
		if c.Auth.Secret == "" {
			return errors.New("config: JWT_SECRET is required for symmetric-jwt mode")
		}
	case service.ModeAsymmetricJWT:
		if c.Auth.PublicKeyPath == "" {
			return errors.New("config: JWT_PUBLIC_KEY_PATH is required for asymmetric-jwt mode")
		}
	}

	if c.Auth.Leeway < 0 {
		return errors.New("config: JWT_LEEWAY must not be negative")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: JWT_TOKEN_TTL must be positive")
	}
	return nil
}

// StrategyConfig projects the auth settings onto the strategy factory input.
func (c *Config) StrategyConfig() service.StrategyConfig {
	return service.StrategyConfig{
		Mode:          c.AuthMode(),
		Algorithm:     c.Auth.Algorithm,
		Secret:        c.Auth.Secret,
		PublicKeyPath: c.Auth.PublicKeyPath,
		Issuer:        c.Auth.Issuer,
		Audience:      c.Auth.Audience,
		Leeway:        c.Auth.Leeway,
		MockToken:     c.Auth.MockToken,
	}
}

// TokenIssuerConfig returns the settings for tokens minted by the login
// endpoint. They mirror the symmetric strategy so issued tokens verify.
func (c *Config) TokenIssuerConfig() service.TokenIssuerConfig {
	return service.TokenIssuerConfig{
		Algorithm: c.Auth.Algorithm,
		Secret:    c.Auth.Secret,
		Issuer:    c.Auth.Issuer,
		Audience:  c.Auth.Audience,
		TTL:       c.Auth.TokenTTL,
	}
}
