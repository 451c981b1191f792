package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/importer"
	"github.com/joshharrison/taskweave/internal/reporter"
	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := importer.ParseFile(args[0])
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				report, err := a.svc.Import(cmd.Context(), parsed.Tasks)
				if err != nil {
					return err
				}

				if flagJSON {
					skipped := make(map[string]string, len(parsed.Skipped))
					for _, s := range parsed.Skipped {
						skipped[s.ID] = s.Reason.Error()
					}
					return outputJSON(struct {
						service.ImportReport
						Skipped map[string]string `json:"skipped,omitempty"`
					}{report, skipped})
				}

				fmt.Printf("📥 Imported %s tasks from %s\n", ui.BoldGreen(report.Imported), ui.Dim(args[0]))
				for _, s := range parsed.Skipped {
					fmt.Printf("  %s %s: %v\n", ui.Yellow("⏭️  SKIP:"), s.ID, s.Reason)
				}
				invalid := make([]string, 0, len(report.Invalid))
				for id := range report.Invalid {
					invalid = append(invalid, id)
				}
				sort.Strings(invalid)
				for _, id := range invalid {
					fmt.Printf("  %s %s: %s\n", ui.Red("🚫 INVALID:"), id, report.Invalid[id])
				}
				projects := make([]string, 0, len(report.Rejected))
				for p := range report.Rejected {
					projects = append(projects, p)
				}
				sort.Strings(projects)
				for _, p := range projects {
					fmt.Printf("  %s project %s: %s\n", ui.Red("❌ REJECTED:"), ui.BoldMagenta(p), report.Rejected[p])
				}
				return nil
			})
		},
	}
}

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, create and delete tasks",
	}
	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(tasksCreateCmd())
	cmd.AddCommand(tasksDeleteCmd())
	return cmd
}

func tasksListCmd() *cobra.Command {
	var (
		flagStatus   string
		flagAssignee string
		flagOverdue  bool
		flagBlocked  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := service.Filter{Assignee: flagAssignee, Overdue: flagOverdue}
			if flagBlocked {
				flagStatus = string(task.StatusBlocked)
			}
			if flagStatus != "" {
				st, err := task.ParseStatus(flagStatus)
				if err != nil {
					return err
				}
				f.Status = st
			}

			return withApp(func(a *app) error {
				tasks, err := a.svc.ListTasks(cmd.Context(), flagProject, f)
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(tasks)
				}
				reporter.PrintTasks(os.Stdout, tasks)
				return nil
			})
		},
	}

	requireProject(cmd)
	cmd.Flags().StringVar(&flagStatus, "status", "", "Only tasks with this status")
	cmd.Flags().StringVar(&flagAssignee, "assignee", "", "Only tasks assigned to this user")
	cmd.Flags().BoolVar(&flagOverdue, "overdue", false, "Only unfinished tasks past their due date")
	cmd.Flags().BoolVar(&flagBlocked, "blocked", false, "Only blocked tasks (same as --status blocked)")

	return cmd
}

func tasksCreateCmd() *cobra.Command {
	var (
		flagID       string
		flagTitle    string
		flagDesc     string
		flagPriority string
		flagAssignee string
		flagDeps     []string
		flagStart    string
		flagDue      string
		flagHours    float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := task.ParsePriority(flagPriority)
			if err != nil {
				return err
			}
			t := task.Task{
				ID:           flagID,
				ProjectID:    flagProject,
				Title:        flagTitle,
				Description:  flagDesc,
				Priority:     priority,
				AssignedTo:   flagAssignee,
				Dependencies: flagDeps,
			}
			if t.StartDate, err = parseDate(flagStart); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if t.DueDate, err = parseDate(flagDue); err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			if cmd.Flags().Changed("hours") {
				t.EstimatedHours = &flagHours
			}

			return withApp(func(a *app) error {
				created, err := a.svc.CreateTask(cmd.Context(), t)
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(created)
				}
				fmt.Printf("%s created %s %s\n", ui.Green("✅"), ui.BoldMagenta(created.ID), created.Title)
				return nil
			})
		},
	}

	requireProject(cmd)
	cmd.Flags().StringVar(&flagID, "id", "", "Task ID (default: generated)")
	cmd.Flags().StringVar(&flagTitle, "title", "", "Task title")
	cmd.Flags().StringVar(&flagDesc, "description", "", "Task description")
	cmd.Flags().StringVar(&flagPriority, "priority", "medium", "Priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&flagAssignee, "assignee", "", "Assigned user")
	cmd.Flags().StringSliceVar(&flagDeps, "deps", nil, "Dependency task IDs")
	cmd.Flags().StringVar(&flagStart, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagDue, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&flagHours, "hours", 0, "Estimated hours")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func tasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task>",
		Short: "Delete a task",
		Long:  "Deletes a task. Tasks that depended on it keep the edge, which scheduling ignores.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.svc.DeleteTask(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("%s deleted %s\n", ui.Green("✅"), ui.BoldMagenta(args[0]))
				return nil
			})
		},
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
