// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the server configuration. Values come from TRGOVINA_*
// environment variables; command line flags override them.
type Config struct {
	Addr       string `envconfig:"ADDR" default:":8080"`
	DBPath     string `envconfig:"DB" default:"trgovina.sqlite3"`
	AdminEmail string `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminName  string `envconfig:"ADMIN_NAME" default:"Admin"`
	LogPath    string `envconfig:"LOG" default:""`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("trgovina", cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}
