package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ENGINE_URL")
	os.Unsetenv("ENGINE_TIMEOUT")
	os.Unsetenv("PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.EngineURL != "http://localhost:8000/consult" {
		t.Errorf("expected default engine url, got %s", cfg.EngineURL)
	}
	if cfg.EngineTimeout != 30*time.Second {
		t.Errorf("expected default engine timeout 30s, got %s", cfg.EngineTimeout)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 4 {
		t.Errorf("expected default max conns 4, got %d", cfg.DBMaxConns)
	}
	if len(cfg.CORSOrigins) == 0 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("expected default CORS origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("ENGINE_URL", "https://engine.internal/consult")
	os.Setenv("ENGINE_TIMEOUT", "5s")
	defer os.Unsetenv("ENGINE_URL")
	defer os.Unsetenv("ENGINE_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.EngineURL != "https://engine.internal/consult" {
		t.Errorf("expected ENGINE_URL to be set, got %s", cfg.EngineURL)
	}
	if cfg.EngineTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.EngineTimeout)
	}
}

func validConfig() *Config {
	return &Config{
		Env:            "development",
		EngineURL:      "http://localhost:8000/consult",
		EngineTimeout:  30 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad scheme", func(c *Config) { c.EngineURL = "ftp://engine/consult" }, "http or https"},
		{"no host", func(c *Config) { c.EngineURL = "http:///consult" }, "host"},
		{"zero engine timeout", func(c *Config) { c.EngineTimeout = 0 }, "ENGINE_TIMEOUT"},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, "REQUEST_TIMEOUT"},
		{"two catalog sources", func(c *Config) {
			c.CatalogFile = "catalog.yaml"
			c.CatalogDatabaseURL = "postgres://localhost/catalog"
		}, "mutually exclusive"},
		{"short production secret", func(c *Config) {
			c.Env = "production"
			c.EngineAuthSecret = "short"
		}, "32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
	if !c.IsProduction() {
		t.Error("expected IsProduction() to return true for production")
	}
}

func TestConfig_EngineAuthEnabled(t *testing.T) {
	c := validConfig()
	if c.EngineAuthEnabled() {
		t.Error("expected auth disabled without secret")
	}
	c.EngineAuthSecret = "s3cret"
	if !c.EngineAuthEnabled() {
		t.Error("expected auth enabled with secret")
	}
}
