package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pawan09032004/planwise/internal/checklist"
	"github.com/pawan09032004/planwise/internal/gateway"
)

var (
	clientServer string
	clientToken  string
	reportOut    string
)

func init() {
	for _, cmd := range []*cobra.Command{tasksCmd, toggleCmd, reportCmd} {
		cmd.Flags().StringVar(&clientServer, "server", "http://localhost:5000", "Planwise server URL")
		cmd.Flags().StringVar(&clientToken, "token", os.Getenv("PLANWISE_TOKEN"), "API token")
	}
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "output file (defaults to the server-suggested name)")
}

var tasksCmd = &cobra.Command{
	Use:   "tasks [project-id]",
	Short: "Show a project's checklist, merged with local changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id: %s", args[0])
		}

		client, store, err := newClientSession()
		if err != nil {
			return err
		}
		tasks, gw, err := loadChecklist(cmd.Context(), client, store, projectID)
		if err != nil {
			return err
		}
		defer gw.Close()

		if len(tasks) == 0 {
			fmt.Println("No tasks in this project.")
			return nil
		}
		printTasks(tasks)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [project-id] [task-id]",
	Short: "Toggle a task's completion and sync it to the server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id: %s", args[0])
		}

		client, store, err := newClientSession()
		if err != nil {
			return err
		}
		tasks, gw, err := loadChecklist(cmd.Context(), client, store, projectID)
		if err != nil {
			return err
		}
		defer gw.Close()

		id := checklist.ID(args[1])
		updated := gw.Toggle(cmd.Context(), tasks, id)
		gw.Wait()

		status := gw.Status()
		if status.State == gateway.StateFailed {
			fmt.Println(status.Message)
		}
		printTasks(updated)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [project-id]",
	Short: "Download a project's PDF report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id: %s", args[0])
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("Project_Report_%d.pdf", projectID)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		client := gateway.NewClient(clientServer, clientToken)
		if err := client.DownloadReport(cmd.Context(), projectID, f); err != nil {
			os.Remove(out)
			return err
		}
		fmt.Printf("Report written to %s\n", out)
		return nil
	},
}

// loadChecklist fetches the project, resolves the task list from whichever
// representation the server holds, and merges in local overrides. A
// structured checklist wins outright; otherwise server tasks are preferred
// over tasks parsed out of a legacy plain-text checklist.
func loadChecklist(ctx context.Context, client *gateway.Client, store *gateway.OverrideStore, projectID int64) ([]checklist.Task, *gateway.Gateway, error) {
	payload, err := client.FetchProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	src := checklist.Resolve(payload.TasksChecklist)
	var fresh []checklist.Task
	switch {
	case src.Kind == checklist.SourceStructured:
		fresh = src.Tasks
	case len(payload.Tasks) > 0:
		fresh = payload.Tasks
	default:
		fetched, err := client.FetchTasks(ctx, projectID)
		if err != nil {
			return nil, nil, err
		}
		fresh = fetched
		if len(fresh) == 0 {
			fresh = src.ResolvedTasks()
		}
	}

	gw := gateway.NewGateway(projectID, client, store)
	return gw.LoadTasks(fresh), gw, nil
}

func newClientSession() (*gateway.Client, *gateway.OverrideStore, error) {
	store, err := gateway.NewOverrideStore(overridesDir())
	if err != nil {
		return nil, nil, err
	}
	return gateway.NewClient(clientServer, clientToken), store, nil
}

func overridesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planwise/overrides"
	}
	return filepath.Join(home, ".planwise", "overrides")
}

func printTasks(tasks []checklist.Task) {
	for _, t := range tasks {
		mark := " "
		if t.Done() {
			mark = "x"
		}
		fmt.Printf("[%s] %-12s %s", mark, t.ID, t.Title)
		if t.Phase != "" && t.Phase != checklist.DefaultPhase {
			fmt.Printf("  (%s)", t.Phase)
		}
		fmt.Println()
	}
	fmt.Printf("%d%% complete\n", checklist.Percent(tasks))
}
