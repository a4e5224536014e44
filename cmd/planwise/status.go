package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pawan09032004/planwise/internal/config"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Planwise configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println("Planwise Status")
			fmt.Println("===============")
			fmt.Printf("Listen address:  %s\n", cfg.Server.Addr)
			fmt.Printf("Database:        %s (%s)\n", cfg.Database.Path, fileState(cfg.Database.Path))
			fmt.Printf("Global config:   %s (%s)\n", config.GlobalConfigPath(), fileState(config.GlobalConfigPath()))
			fmt.Printf("Project config:  %s (%s)\n", config.ProjectConfigPath(), fileState(config.ProjectConfigPath()))
			fmt.Printf("Together API:    %s\n", keyState(cfg.Together.APIKey))
			return nil
		},
	}
}

func fileState(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "present"
}

func keyState(key string) string {
	if key == "" {
		return "not configured"
	}
	return "configured"
}
