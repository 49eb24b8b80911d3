package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/consultation"
	"github.com/doctordroid/intake/internal/domain/selection"
	"github.com/doctordroid/intake/internal/platform/tui"
)

func consultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Submit symptoms and allergies to the inference engine once",
		Example: `  intake consult --symptom fever --symptom cough --allergy penicillin
  intake consult -s sore_throat,fever -a penicillin --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms, _ := cmd.Flags().GetStringSlice("symptom")
			allergies, _ := cmd.Flags().GetStringSlice("allergy")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cat, err := loadCatalog(ctx, cfg, logger)
			if err != nil {
				return err
			}

			store := selection.NewStore()
			if err := selectAll(cat, store, symptoms, allergies); err != nil {
				return err
			}

			client, err := newEngineClient(cfg, logger)
			if err != nil {
				return err
			}
			ctrl := consultation.NewController(store, client, consultation.WithControllerLogger(logger))

			outcome := ctrl.Submit(ctx)
			panel := consultation.Render(outcome)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(panel); err != nil {
					return err
				}
			} else {
				tui.WritePanel(out, panel)
			}

			if outcome.State == consultation.StateFailure {
				return fmt.Errorf("consultation failed: %s", outcome.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceP("symptom", "s", nil, "Symptom id to select (repeatable)")
	cmd.Flags().StringSliceP("allergy", "a", nil, "Allergy id to select (repeatable)")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}

// selectAll checks every id against the catalog and selects it once.
func selectAll(cat *catalog.Catalog, store *selection.Store, symptoms, allergies []string) error {
	for _, id := range symptoms {
		if !cat.HasSymptom(id) {
			return fmt.Errorf("unknown symptom %q", id)
		}
		if !store.HasSymptom(id) {
			store.ToggleSymptom(id)
		}
	}
	for _, id := range allergies {
		if !cat.HasAllergy(id) {
			return fmt.Errorf("unknown allergy %q", id)
		}
		if !store.HasAllergy(id) {
			store.ToggleAllergy(id)
		}
	}
	return nil
}
