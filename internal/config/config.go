// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/hunt.db"`
	CluesPath string     `env:"CLUES_PATH" envDefault:"clues.json"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	PublicURL string     `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	StaticDir string     `env:"STATIC_DIR"`

	MinHintWait   time.Duration `env:"MIN_HINT_WAIT" envDefault:"5m"`
	MinRevealWait time.Duration `env:"MIN_REVEAL_WAIT" envDefault:"10m"`
	MinSkipWait   time.Duration `env:"MIN_SKIP_WAIT" envDefault:"15m"`

	StateChannelSize int `env:"STATE_CHANNEL_SIZE" envDefault:"64"`
	ArrangementCount int `env:"ARRANGEMENT_COUNT" envDefault:"4"`
}

// Load reads the environment, after loading the given .env files if they
// exist. Variables already set in the environment take precedence.
func Load(dotenv ...string) (*Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.ArrangementCount < 1 {
		return fmt.Errorf("ARRANGEMENT_COUNT must be at least 1, got %d", c.ArrangementCount)
	}
	if c.StateChannelSize < 1 {
		return fmt.Errorf("STATE_CHANNEL_SIZE must be at least 1, got %d", c.StateChannelSize)
	}
	for name, d := range map[string]time.Duration{
		"MIN_HINT_WAIT":   c.MinHintWait,
		"MIN_REVEAL_WAIT": c.MinRevealWait,
		"MIN_SKIP_WAIT":   c.MinSkipWait,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	return nil
}
