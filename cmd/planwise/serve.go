package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/config"
	"github.com/pawan09032004/planwise/internal/core"
	"github.com/pawan09032004/planwise/internal/roadmap"
	"github.com/pawan09032004/planwise/internal/storage"
	"github.com/pawan09032004/planwise/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Planwise API server",
	Long: `Start the Planwise REST API server.

Examples:
  planwise serve
  planwise serve --addr :5000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if cfg.Together.APIKey == "" {
		log.Printf("Warning: TOGETHER_API_KEY not set, roadmap generation will fail")
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	generator := roadmap.NewTogetherClient(cfg.Together.APIKey)
	engine := core.NewEngine(store, issuer, generator)

	fmt.Printf("Starting Planwise API at http://localhost%s\n", cfg.Server.Addr)
	server := web.NewServer(engine, issuer)
	return server.Run(cfg.Server.Addr)
}
