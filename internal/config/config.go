package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime settings for the editor client.
type Config struct {
	APIBaseURL  string        `env:"FEEDCUT_API_BASE_URL, default=http://localhost:5000/api"`
	DBPath      string        `env:"FEEDCUT_DB_PATH, default=feedcut.db"`
	HTTPTimeout time.Duration `env:"FEEDCUT_HTTP_TIMEOUT, default=15s"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTPTimeout must be positive: %s", c.HTTPTimeout)
	}
	return nil
}
