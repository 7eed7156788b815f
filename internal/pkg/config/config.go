// Package config loads the service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// PasswordPlaceholder in DATABASE is replaced by DATABASE_PASSWORD.
const PasswordPlaceholder = "<PASSWORD>"

type Config struct {
	Port            string        `env:"PORT,             default=3000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StaticDir       string        `env:"STATIC_DIR,       default=public"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	// PublicURL is the base of links sent to users, e.g. https://natours.io.
	// Empty means links are built from the incoming request.
	PublicURL string `env:"PUBLIC_URL"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Mail      MailConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	JWTExpiresIn  time.Duration `env:"JWT_EXPIRES_IN,        default=2160h"`
	CookieExpires time.Duration `env:"JWT_COOKIE_EXPIRES_IN, default=2160h"`
	BcryptCost    int           `env:"BCRYPT_COST,           default=12"`
}

type MongoConfig struct {
	// URI may contain PasswordPlaceholder.
	URI      string `env:"DATABASE,          default=mongodb://localhost:27017"`
	Password string `env:"DATABASE_PASSWORD"`
	Database string `env:"MONGO_DB,          default=natours"`
}

// RedisConfig is optional; an empty Addr keeps rate-limit counters in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Max    int64         `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=1h"`
}

// MailConfig is optional; without a Host reset links are only logged.
type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT, default=587"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM, default=Natours <hello@natours.io>"`
}

// Production reports whether the service runs with production settings.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// MongoURI is the connection string with the password substituted.
func (c *Config) MongoURI() string {
	return strings.ReplaceAll(c.Mongo.URI, PasswordPlaceholder, c.Mongo.Password)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.RateLimit.Max <= 0:
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimit.Max)
	case c.RateLimit.Window <= 0:
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	case c.Auth.JWTExpiresIn <= 0:
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.Auth.JWTExpiresIn)
	case strings.Contains(c.Mongo.URI, PasswordPlaceholder) && c.Mongo.Password == "":
		return fmt.Errorf("DATABASE contains %s but DATABASE_PASSWORD is empty", PasswordPlaceholder)
	}
	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("PUBLIC_URL must be an absolute http(s) URL, got %q", c.PublicURL)
		}
	}
	return nil
}
