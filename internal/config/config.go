package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFile            string        `mapstructure:"LOG_FILE"`
	EngineURL          string        `mapstructure:"ENGINE_URL"`
	EngineTimeout      time.Duration `mapstructure:"ENGINE_TIMEOUT"`
	EngineAuthSecret   string        `mapstructure:"ENGINE_AUTH_SECRET"`
	EngineAuthIssuer   string        `mapstructure:"ENGINE_AUTH_ISSUER"`
	EngineAuthAudience string        `mapstructure:"ENGINE_AUTH_AUDIENCE"`
	CatalogFile        string        `mapstructure:"CATALOG_FILE"`
	CatalogDatabaseURL string        `mapstructure:"CATALOG_DATABASE_URL"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	Port               string        `mapstructure:"PORT"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENGINE_URL", "http://localhost:8000/consult")
	v.SetDefault("ENGINE_TIMEOUT", "30s")
	v.SetDefault("ENGINE_AUTH_ISSUER", "doctor-droid-intake")
	v.SetDefault("ENGINE_AUTH_AUDIENCE", "doctor-droid-engine")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "60s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FILE")
	v.BindEnv("ENGINE_URL")
	v.BindEnv("ENGINE_TIMEOUT")
	v.BindEnv("ENGINE_AUTH_SECRET")
	v.BindEnv("ENGINE_AUTH_ISSUER")
	v.BindEnv("ENGINE_AUTH_AUDIENCE")
	v.BindEnv("CATALOG_FILE")
	v.BindEnv("CATALOG_DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("PORT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 0 {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() && cfg.EngineAuthSecret == "" {
		log.Println("WARNING: ENGINE_AUTH_SECRET is empty; requests to the inference engine are unauthenticated.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the client is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EngineAuthEnabled reports whether requests to the inference engine carry a
// signed bearer token.
func (c *Config) EngineAuthEnabled() bool {
	return c.EngineAuthSecret != ""
}

// Validate checks that the configuration is usable. ENGINE_URL must be an
// absolute http(s) URL, timeouts must be positive and at most one external
// catalog source may be configured.
func (c *Config) Validate() error {
	u, err := url.Parse(c.EngineURL)
	if err != nil {
		return fmt.Errorf("ENGINE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ENGINE_URL must use http or https, got %q", c.EngineURL)
	}
	if u.Host == "" {
		return fmt.Errorf("ENGINE_URL must include a host, got %q", c.EngineURL)
	}

	if c.EngineTimeout <= 0 {
		return fmt.Errorf("ENGINE_TIMEOUT must be positive, got %s", c.EngineTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}

	if c.CatalogFile != "" && c.CatalogDatabaseURL != "" {
		return fmt.Errorf("CATALOG_FILE and CATALOG_DATABASE_URL are mutually exclusive")
	}

	if c.IsProduction() && c.EngineAuthSecret != "" && len(c.EngineAuthSecret) < 32 {
		return fmt.Errorf("ENGINE_AUTH_SECRET must be at least 32 characters in production")
	}

	return nil
}
