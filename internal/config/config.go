package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8500"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	// SessionTTL bounds every session's lifetime (fixed window).
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// StateTTL bounds how long an initiated login may wait for its callback.
	StateTTL time.Duration `env:"STATE_TTL" envDefault:"5m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return cfg, nil
}
