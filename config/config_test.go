package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Server.Listen == "" {
		t.Fatal("default listen address must be set")
	}
	if cfg.TMDB.BaseURL == "" {
		t.Fatal("default TMDB base url must be set")
	}
	if cfg.TMDB.Region != "US" {
		t.Fatalf("default region = %q, want US", cfg.TMDB.Region)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file must not be fatal: %v", err)
	}
	if cfg.Backend.BaseURL == "" {
		t.Fatal("expected default backend url")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[backend]\nbase_url = \"http://backend:9000/api\"\n\n[tmdb]\nbearer_token = \"file-token\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PROJECTION_TMDB_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend:9000/api" {
		t.Fatalf("file value not applied: %s", cfg.Backend.BaseURL)
	}
	if cfg.TMDB.BearerToken != "env-token" {
		t.Fatalf("env override not applied: %s", cfg.TMDB.BearerToken)
	}
}
