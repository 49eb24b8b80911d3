package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/doctordroid/intake/internal/config"
	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/platform/auth"
	"github.com/doctordroid/intake/internal/platform/db"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "intake",
		Short:        "Doctor Droid clinical intake client",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(consultCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

// loadCatalog reads the catalog from the configured source, falling back to
// the built-in one.
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, error) {
	var src catalog.Source
	switch {
	case cfg.CatalogFile != "":
		src = catalog.NewFileSource(cfg.CatalogFile)
		logger.Debug().Str("file", cfg.CatalogFile).Msg("loading catalog from file")
	case cfg.CatalogDatabaseURL != "":
		pool, err := db.Connect(ctx, cfg.CatalogDatabaseURL, db.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		src = catalog.NewPGSource(pool)
		logger.Debug().Msg("loading catalog from database")
	default:
		src = catalog.BuiltinSource{}
	}

	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Debug().Int("symptoms", len(cat.Symptoms)).Int("allergies", len(cat.Allergies)).Msg("catalog loaded")
	return cat, nil
}

func newSigner(cfg *config.Config) (*auth.EngineSigner, error) {
	return auth.NewEngineSigner(auth.SignerConfig{
		Secret:   []byte(cfg.EngineAuthSecret),
		Issuer:   cfg.EngineAuthIssuer,
		Audience: cfg.EngineAuthAudience,
	})
}

func newEngineClient(cfg *config.Config, logger zerolog.Logger) (*consultation.HTTPClient, error) {
	opts := []consultation.ClientOption{consultation.WithLogger(logger)}
	if cfg.EngineAuthEnabled() {
		signer, err := newSigner(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, consultation.WithTokenSource(signer))
	}
	return consultation.NewHTTPClient(cfg.EngineURL, cfg.EngineTimeout, opts...), nil
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for the inference engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.EngineAuthEnabled() {
				return fmt.Errorf("ENGINE_AUTH_SECRET is not set")
			}
			signer, err := newSigner(cfg)
			if err != nil {
				return err
			}
			token, err := signer.Token()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
