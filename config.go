package authcore

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full engine configuration. Instances are intended to be
// configured during initialization and then treated as immutable.
type Config struct {
	JWT       JWTConfig
	Refresh   RefreshConfig
	RateLimit RateLimitConfig
	Reclaimer ReclaimerConfig
	Metrics   MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds the signing secret and the access-token lifetime.
// Secrets shorter than 32 bytes are zero-padded by the jwt package.
type JWTConfig struct {
	Secret    string        `env:"AUTHCORE_JWT_SECRET"`
	AccessTTL time.Duration `env:"AUTHCORE_ACCESS_TTL" envDefault:"1h"`
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig holds the refresh-token lifetime.
type RefreshConfig struct {
	TTL time.Duration `env:"AUTHCORE_REFRESH_TTL" envDefault:"168h"`
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig holds the failed-login budget per origin address.
type RateLimitConfig struct {
	MaxAttempts int           `env:"AUTHCORE_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	Window      time.Duration `env:"AUTHCORE_LOGIN_WINDOW" envDefault:"1m"`
	Lockout     time.Duration `env:"AUTHCORE_LOGIN_LOCKOUT" envDefault:"5m"`
}

/*
====================================
RECLAIMER CONFIG
====================================
*/

// ReclaimerConfig holds the background sweep intervals. TokenSweepInterval
// drives both the refresh-store sweep and the blacklist clear, so it must
// be at least the access-token lifetime (blacklisted jtis have no expiry
// of their own; the clear is only safe once every one of them has outlived
// its token's exp claim).
type ReclaimerConfig struct {
	TokenSweepInterval   time.Duration `env:"AUTHCORE_TOKEN_SWEEP_INTERVAL" envDefault:"1h"`
	LimiterSweepInterval time.Duration `env:"AUTHCORE_LIMITER_SWEEP_INTERVAL" envDefault:"1m"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool `env:"AUTHCORE_METRICS_ENABLED" envDefault:"false"`
}

// DefaultConfig returns the engine defaults: 1h access tokens, 7-day
// refresh tokens, a 5-attempt/1-minute login window with a 5-minute
// lockout, hourly token sweeps, and metrics disabled. The signing secret
// has no default and must be supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: time.Hour,
		},
		Refresh: RefreshConfig{
			TTL: 7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: 5,
			Window:      time.Minute,
			Lockout:     5 * time.Minute,
		},
		Reclaimer: ReclaimerConfig{
			TokenSweepInterval:   time.Hour,
			LimiterSweepInterval: time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// ConfigFromEnv loads configuration from AUTHCORE_* environment variables,
// falling back to the documented defaults for everything but the secret.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration invariants Build relies on.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT Secret must be set")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}

	if c.Refresh.TTL <= 0 {
		return errors.New("Refresh TTL must be > 0")
	}

	if c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit MaxAttempts must be > 0")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit Window must be > 0")
	}
	if c.RateLimit.Lockout <= 0 {
		return errors.New("RateLimit Lockout must be > 0")
	}

	if c.Reclaimer.TokenSweepInterval <= 0 {
		return errors.New("Reclaimer TokenSweepInterval must be > 0")
	}
	if c.Reclaimer.LimiterSweepInterval <= 0 {
		return errors.New("Reclaimer LimiterSweepInterval must be > 0")
	}
	if c.Reclaimer.TokenSweepInterval < c.JWT.AccessTTL {
		return errors.New("Reclaimer TokenSweepInterval must be >= JWT AccessTTL")
	}

	return nil
}
