package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/claude"
	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

func inferDepsCmd() *cobra.Command {
	var (
		flagApply    bool
		flagModel    string
		flagOutput   string
		flagFromFile string
	)

	cmd := &cobra.Command{
		Use:   "infer-deps",
		Short: "Use Claude to infer task dependencies from titles and descriptions",
		Long: `Sends the project's tasks to Claude and infers dependency edges. Every
suggested edge goes through the same validation as a manual change.
By default runs in dry-run mode; use --apply to save accepted edges.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx := cmd.Context()
				tasks, err := a.svc.ListTasks(ctx, flagProject, service.Filter{})
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					return fmt.Errorf("project %s has no tasks", flagProject)
				}

				var result *claude.InferDepsResult
				if flagFromFile != "" {
					data, err := os.ReadFile(flagFromFile)
					if err != nil {
						return fmt.Errorf("read from-file: %w", err)
					}
					result = &claude.InferDepsResult{}
					if err := json.Unmarshal(data, result); err != nil {
						return fmt.Errorf("parse from-file: %w", err)
					}
					fmt.Printf("📂 Loaded %s edges from %s\n", ui.Bold(len(result.Edges)), ui.Dim(flagFromFile))
				} else {
					model := a.cfg.Claude.Model
					if flagModel != "" {
						model = flagModel
					}
					client, err := claude.NewClient(a.cfg.Claude.APIKey, model, a.cfg.Claude.MaxTokens)
					if err != nil {
						return err
					}

					fmt.Printf("🔍 Sending %s tasks to Claude for dependency inference...\n", ui.Bold(len(tasks)))
					result, err = client.InferDeps(ctx, claude.Summarize(tasks))
					if err != nil {
						return fmt.Errorf("infer deps: %w", err)
					}
				}

				edges := make([]service.Edge, 0, len(result.Edges))
				for _, e := range result.Edges {
					edges = append(edges, service.Edge{TaskID: e.TaskID, DependsOnID: e.DependsOnID, Reason: e.Reason})
				}

				// Dry-run first; only edges that survive it are offered for apply.
				checked, err := a.svc.CheckEdges(ctx, flagProject, edges)
				if err != nil {
					return err
				}
				var accepted []service.Edge
				var acceptedOut []claude.DepEdge
				for _, r := range checked {
					if r.Err != nil {
						if !flagJSON {
							fmt.Printf("  %s %s -> %s: %s\n", ui.Yellow("⏭️  SKIP:"), r.TaskID, r.DependsOnID, task.KindName(r.Err))
						}
						continue
					}
					accepted = append(accepted, r.Edge)
					acceptedOut = append(acceptedOut, claude.DepEdge{TaskID: r.TaskID, DependsOnID: r.DependsOnID, Reason: r.Reason})
				}

				if flagJSON {
					out := claude.InferDepsResult{Edges: acceptedOut, Summary: result.Summary}
					if flagOutput != "" {
						data, err := json.MarshalIndent(out, "", "  ")
						if err != nil {
							return err
						}
						if err := os.WriteFile(flagOutput, data, 0644); err != nil {
							return err
						}
						fmt.Printf("Wrote %d edges to %s\n", len(accepted), flagOutput)
						return nil
					}
					if !flagApply {
						return outputJSON(out)
					}
				}

				if !flagJSON {
					fmt.Printf("\n🔗 Inferred %s dependencies (%d from Claude, %d after validation):\n\n",
						ui.Bold(len(accepted)), len(result.Edges), len(accepted))
					for _, e := range accepted {
						fmt.Printf("  %s %s after %s  %s\n", ui.Cyan("→"), ui.BoldMagenta(e.TaskID), ui.BoldMagenta(e.DependsOnID), ui.Dim(e.Reason))
					}
					if result.Summary != "" {
						fmt.Printf("\n💡 %s %s\n", ui.BoldWhite("Summary:"), result.Summary)
					}
				}

				if !flagApply {
					fmt.Printf("\n🎯 %s\n", ui.Yellow("Dry run: use --apply to save these dependencies."))
					return nil
				}

				applied := 0
				results := a.svc.ApplyEdges(ctx, accepted)
				for _, r := range results {
					if r.Err != nil {
						fmt.Printf("  %s %s -> %s: %v\n", ui.Red("❌ ERROR:"), r.TaskID, r.DependsOnID, r.Err)
						continue
					}
					applied++
					fmt.Printf("  %s %s after %s\n", ui.Green("✅ OK:"), ui.BoldMagenta(r.TaskID), ui.BoldMagenta(r.DependsOnID))
				}
				fmt.Printf("\n🏁 Applied %s/%d dependencies.\n", ui.BoldGreen(applied), len(accepted))
				return nil
			})
		},
	}

	requireProject(cmd)
	cmd.Flags().BoolVar(&flagApply, "apply", false, "Save accepted dependencies (default: dry-run)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Claude model (overrides claude.model)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Save JSON output to file (use with --json)")
	cmd.Flags().StringVar(&flagFromFile, "from-file", "", "Load inferred deps from a JSON file instead of calling Claude")

	return cmd
}
