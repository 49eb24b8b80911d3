package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/domain/selection"
	"github.com/doctordroid/intake/internal/platform/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to LOG_FILE or nowhere.
			var logOut io.Writer = io.Discard
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			logger := newLogger(cfg, logOut)

			ctx := cmd.Context()
			cat, err := loadCatalog(ctx, cfg, logger)
			if err != nil {
				return err
			}
			client, err := newEngineClient(cfg, logger)
			if err != nil {
				return err
			}

			store := selection.NewStore()
			ctrl := consultation.NewController(store, client, consultation.WithControllerLogger(logger))

			_, err = tea.NewProgram(tui.NewModel(ctx, cat, store, ctrl), tea.WithAltScreen()).Run()
			return err
		},
	}
}
