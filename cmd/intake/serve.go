package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/doctordroid/intake/internal/config"
	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/domain/selection"
	"github.com/doctordroid/intake/internal/platform/middleware"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the operator console API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// newServer wires one operator session into an echo instance.
func newServer(cfg *config.Config, logger zerolog.Logger, cat *catalog.Catalog, client consultation.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"engine": cfg.EngineURL,
		})
	})

	store := selection.NewStore()
	ctrl := consultation.NewController(store, client, consultation.WithControllerLogger(logger))

	apiV1 := e.Group("/api/v1", middleware.RequestTimeout(cfg.RequestTimeout))
	consultation.NewHandler(cat, store, ctrl).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)

	ctx := context.Background()
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}
	client, err := newEngineClient(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create engine client")
	}

	e := newServer(cfg, logger, cat, client)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("engine", cfg.EngineURL).Msg("starting operator console")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
