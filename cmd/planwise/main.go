package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "planwise",
		Short:   "Planwise - project management with AI-generated roadmaps",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
