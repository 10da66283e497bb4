package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/gatehouse/gatehouse/pkg/db"
	"github.com/gatehouse/gatehouse/pkg/logger"
)

// Config is the full application configuration, assembled from the
// environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// BasePath is stripped from incoming request paths before routing.
	BasePath string `env:"BASE_PATH"`

	// RoutesDir holds per-module route declaration files (<module>.yaml).
	RoutesDir string `env:"ROUTES_DIR" envDefault:"routes"`

	// CookieSecret signs and encrypts cookies. Must be at least 32 bytes.
	CookieSecret string `env:"COOKIE_SECRET,required"`

	// CookieSecure is disabled only in development environments.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	// SessionMaxIdle is the idle window after which a session expires.
	SessionMaxIdle time.Duration `env:"SESSION_MAX_IDLE" envDefault:"30m"`

	// SingleSession keeps at most one live session per user.
	SingleSession bool `env:"SINGLE_SESSION" envDefault:"true"`

	// LoginByEmail also accepts the e-mail address as the login name.
	LoginByEmail bool `env:"LOGIN_BY_EMAIL"`

	Database db.Config           `envPrefix:""`
	Sentry   logger.SentryConfig `envPrefix:""`
}

// Load reads .env (when present) and parses the environment. A missing
// .env file is not an error; explicit environment always wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.CookieSecret) < 32 {
		return nil, fmt.Errorf("config: COOKIE_SECRET must be at least 32 bytes")
	}
	return &cfg, nil
}
