package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

func depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Validate and change task dependencies",
	}
	cmd.AddCommand(depsValidateCmd())
	cmd.AddCommand(depsSetCmd())
	cmd.AddCommand(depsAddCmd())
	cmd.AddCommand(depsRemoveCmd())
	return cmd
}

func depsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <task> [deps...]",
		Short: "Check a proposed dependency set without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				deps, err := a.svc.ValidateDependencyChange(cmd.Context(), args[0], args[1:])
				if flagJSON {
					if jerr := outputJSON(validationOutput(deps, err)); jerr != nil {
						return jerr
					}
					return err
				}
				if err != nil {
					printRejection(err)
					return err
				}
				fmt.Printf("%s %s may depend on [%s]\n", ui.Green("✅ VALID:"), ui.BoldMagenta(args[0]), strings.Join(deps, ", "))
				return nil
			})
		},
	}
}

func depsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <task> [deps...]",
		Short: "Replace a task's dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				t, err := a.svc.SetDependencies(cmd.Context(), args[0], args[1:])
				return reportDeps(t, err)
			})
		},
	}
}

func depsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task> <dependency>",
		Short: "Add one dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				t, err := a.svc.AddDependency(cmd.Context(), args[0], args[1])
				return reportDeps(t, err)
			})
		},
	}
}

func depsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task> <dependency>",
		Short: "Remove one dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				t, err := a.svc.RemoveDependency(cmd.Context(), args[0], args[1])
				return reportDeps(t, err)
			})
		},
	}
}

func reportDeps(t task.Task, err error) error {
	if err != nil {
		if !flagJSON {
			printRejection(err)
		}
		return err
	}
	if flagJSON {
		return outputJSON(t)
	}
	deps := ui.Dim("none")
	if len(t.Dependencies) > 0 {
		deps = strings.Join(t.Dependencies, ", ")
	}
	fmt.Printf("%s %s depends on %s\n", ui.Green("✅ OK:"), ui.BoldMagenta(t.ID), deps)
	return nil
}

type validation struct {
	Valid        bool     `json:"valid"`
	Dependencies []string `json:"dependencies,omitempty"`
	Kind         string   `json:"kind,omitempty"`
	Error        string   `json:"error,omitempty"`
	Cycle        []string `json:"cycle,omitempty"`
}

func validationOutput(deps []string, err error) validation {
	if err == nil {
		return validation{Valid: true, Dependencies: deps}
	}
	v := validation{Kind: task.KindName(err), Error: err.Error()}
	var de *task.DependencyError
	if errors.As(err, &de) {
		v.Cycle = de.Cycle
	}
	return v
}

func printRejection(err error) {
	kind := task.KindName(err)
	if kind == "" {
		kind = "Error"
	}
	fmt.Printf("%s %s\n", ui.Red("❌ "+kind+":"), err)
	var de *task.DependencyError
	if errors.As(err, &de) && len(de.Cycle) > 0 {
		fmt.Printf("   %s %s\n", ui.Dim("cycle:"), ui.Yellow(strings.Join(de.Cycle, " → ")))
	}
}
