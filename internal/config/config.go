package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Server
	Port           string   `env:"APP_PORT" envDefault:"8080"`
	FrontendURL    string   `env:"FRONTEND_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Storage. Empty URLs fall back to in-memory stores.
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`
	NATSURL        string `env:"NATS_URL"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	// Security
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Duels
	ChallengeTimeout   time.Duration `env:"CHALLENGE_TIMEOUT" envDefault:"30s"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30s"`
	SessionMaxDuration time.Duration `env:"SESSION_MAX_DURATION" envDefault:"5m"`
	SessionRetention   time.Duration `env:"SESSION_RETENTION" envDefault:"10m"`
	SettlementTimeout  time.Duration `env:"SETTLEMENT_TIMEOUT" envDefault:"10s"`
	ChooserTargetScore int           `env:"CHOOSER_TARGET_SCORE" envDefault:"3"`

	// Events
	MatchEventsChannel string `env:"MATCH_EVENTS_CHANNEL" envDefault:"match_events"`
	MatchEventsSubject string `env:"MATCH_EVENTS_SUBJECT" envDefault:"duels.match.completed"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, d := range map[string]time.Duration{
		"CHALLENGE_TIMEOUT":    c.ChallengeTimeout,
		"SESSION_IDLE_TIMEOUT": c.SessionIdleTimeout,
		"SESSION_MAX_DURATION": c.SessionMaxDuration,
		"SETTLEMENT_TIMEOUT":   c.SettlementTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.ChooserTargetScore <= 0 {
		return fmt.Errorf("CHOOSER_TARGET_SCORE must be positive, got %d", c.ChooserTargetScore)
	}
	if c.IsProduction() && c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }
