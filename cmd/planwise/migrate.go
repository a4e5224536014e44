package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawan09032004/planwise/internal/config"
	"github.com/pawan09032004/planwise/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Opening the store runs the schema migrations.
			store, err := storage.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			defer store.Close()

			fmt.Printf("Database ready at %s\n", cfg.Database.Path)
			return nil
		},
	}
}
