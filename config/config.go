// Package config loads the server configuration from a TOML file with
// environment-variable overrides for deploy-time secrets.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Backend  BackendConfig  `toml:"backend"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Storage  StorageConfig  `toml:"storage"`
	Sessions SessionsConfig `toml:"sessions"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// BackendConfig points at the companion REST backend.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
}

// TMDBConfig contains the metadata provider's endpoint and credentials.
type TMDBConfig struct {
	BaseURL     string `toml:"base_url"`
	BearerToken string `toml:"bearer_token"`
	Language    string `toml:"language"`
	Region      string `toml:"region"`
}

// StorageConfig locates the session store directory.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// SessionsConfig controls session lifetimes.
type SessionsConfig struct {
	TTLHours int `toml:"ttl_hours"`
}

// LogConfig controls the rotating log sink.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Load reads and parses a TOML configuration file, then applies environment
// overrides. A missing file yields the embedded defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment are enough to run.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Default returns the configuration parsed from the embedded example file.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("parse embedded default config: %v", err))
	}
	return &cfg
}

// applyEnv overrides secrets and endpoints from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("PROJECTION_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("PROJECTION_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("PROJECTION_TMDB_URL"); v != "" {
		c.TMDB.BaseURL = v
	}
	if v := os.Getenv("PROJECTION_TMDB_TOKEN"); v != "" {
		c.TMDB.BearerToken = v
	}
	if v := os.Getenv("PROJECTION_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
}
