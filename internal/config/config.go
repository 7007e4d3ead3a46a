package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v7"
)

// Config holds everything the webhook service reads from the environment.
// It is parsed and validated once in main and handed to constructors by value.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"3000"`

	StripeSecretKey     string        `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string        `env:"STRIPE_WEBHOOK_SECRET"`
	WebhookTolerance    time.Duration `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"5m"`

	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabaseServiceRoleKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	DatabaseURL            string `env:"DATABASE_URL"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Donations <donations@example.com>"`

	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout        time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	TLSDomain   string `env:"TLS_DOMAIN"`
	TLSCacheDir string `env:"TLS_CACHE_DIR" envDefault:"certs"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.StripeSecretKey) == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is required"))
	}
	if strings.TrimSpace(c.StripeWebhookSecret) == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	if c.DatabaseURL == "" {
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL or DATABASE_URL is required"))
		} else if c.SupabaseServiceRoleKey == "" {
			errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY is required with SUPABASE_URL"))
		}
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.WebhookTolerance <= 0 {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_TOLERANCE must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}
	return errors.Join(errs...)
}

// UsePostgres reports whether the record store should talk to Postgres
// directly instead of going through the Supabase REST API.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// IsDevelopment returns true if running in development environment
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}
