package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <task> <status>",
		Short: "Move a task to a new status",
		Long:  "Statuses: todo, in-progress, blocked, done. Moving to done sets progress to 100 and stamps the completion date.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := task.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				t, err := a.svc.TransitionStatus(cmd.Context(), args[0], to)
				return reportTask(t, err)
			})
		},
	}
	cmd.AddCommand(statusBulkCmd())
	return cmd
}

func statusBulkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <status> <task...>",
		Short: "Move many tasks to a status, reporting each result",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := task.ParseStatus(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				results := a.svc.BulkUpdateStatus(cmd.Context(), args[1:], to)

				if flagJSON {
					type row struct {
						TaskID  string `json:"task_id"`
						Success bool   `json:"success"`
						Kind    string `json:"kind,omitempty"`
						Error   string `json:"error,omitempty"`
					}
					rows := make([]row, 0, len(results))
					for _, r := range results {
						out := row{TaskID: r.TaskID, Success: r.Success()}
						if r.Err != nil {
							out.Kind, out.Error = task.KindName(r.Err), r.Err.Error()
						}
						rows = append(rows, out)
					}
					return outputJSON(rows)
				}

				ok := 0
				for _, r := range results {
					if r.Success() {
						ok++
						fmt.Printf("  %s %s → %s\n", ui.Green("✅ OK:"), ui.BoldMagenta(r.TaskID), ui.StatusLabel(to))
						continue
					}
					fmt.Printf("  %s %s: %v\n", ui.Red("❌ ERROR:"), r.TaskID, r.Err)
				}
				fmt.Printf("\n🏁 Updated %s/%d tasks.\n", ui.BoldGreen(ok), len(results))
				return nil
			})
		},
	}
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <task> <0-100>",
		Short: "Set a task's progress",
		Long:  "100 completes the task, 0 reopens it, anything between starts it if it was todo.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", task.ErrInvalidProgress, args[1])
			}
			return withApp(func(a *app) error {
				t, err := a.svc.SetProgress(cmd.Context(), args[0], p)
				return reportTask(t, err)
			})
		},
	}
}

func reportTask(t task.Task, err error) error {
	if err != nil {
		return err
	}
	if flagJSON {
		return outputJSON(t)
	}
	fmt.Printf("%s %s %s %d%%\n", ui.StatusIcon(t.Status), ui.BoldMagenta(t.ID), ui.StatusLabel(t.Status), t.Progress)
	return nil
}
