package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/platform/db"
	"github.com/doctordroid/intake/migrations"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the selectable symptoms and allergies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-24s %s\n", "KIND", "ID", "LABEL")
			for _, kind := range []catalog.Kind{catalog.KindSymptom, catalog.KindAllergy} {
				for _, e := range cat.Entries(kind) {
					fmt.Fprintf(out, "%-10s %-24s %s\n", kind, e.ID, e.Label)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrationFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create and seed the catalog_entries table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			to, _ := cmd.Flags().GetInt("to")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.CatalogDatabaseURL == "" {
				return fmt.Errorf("CATALOG_DATABASE_URL is not set")
			}

			ctx := cmd.Context()
			pool, err := db.Connect(ctx, cfg.CatalogDatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrationFS(dir)).UpTo(ctx, to)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	cmd.Flags().Int("to", 0, "Stop after this version (0 applies all)")
	return cmd
}

func migrateStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show catalog migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.CatalogDatabaseURL == "" {
				return fmt.Errorf("CATALOG_DATABASE_URL is not set")
			}

			ctx := cmd.Context()
			pool, err := db.Connect(ctx, cfg.CatalogDatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrationFS(dir)).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Fprintf(out, "%-10d %-30s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	return cmd
}
