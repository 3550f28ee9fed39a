package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port         int    `envconfig:"PORT" default:"8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	Version      string `envconfig:"VERSION" default:"dev"`
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`
	StorePath    string `envconfig:"STORE_PATH" default:"roster.db"`
	DatabaseURL  string `envconfig:"DATABASE_URL" default:""`
	APIKeyHash   string `envconfig:"API_KEY_HASH" default:""`
	BcryptCost   int    `envconfig:"BCRYPT_COST" default:"12"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "sqlite":
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required for the sqlite backend")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_BACKEND must be one of sqlite, postgres, memory; got %q", c.StoreBackend)
	}
	return nil
}
