package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/reporter"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "List tasks so that every task follows its dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				tasks, err := a.svc.Order(cmd.Context(), flagProject)
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(tasks)
				}
				reporter.PrintOrder(os.Stdout, tasks)
				return nil
			})
		},
	}
	requireProject(cmd)
	return cmd
}

func criticalPathCmd() *cobra.Command {
	var flagFormat string

	cmd := &cobra.Command{
		Use:   "critical-path",
		Short: "Compute the project's critical path and duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagJSON {
				flagFormat = "json"
			}
			return withApp(func(a *app) error {
				g, result, err := a.svc.Schedule(cmd.Context(), flagProject)
				if err != nil {
					return err
				}
				rep := reporter.New(g, result)

				switch flagFormat {
				case "json":
					data, err := rep.JSON()
					if err != nil {
						return err
					}
					fmt.Println(string(data))
				case "dot":
					rep.PrintDOT(os.Stdout)
				case "text", "":
					rep.PrintCriticalPath(os.Stdout)
				default:
					return fmt.Errorf("unknown format %q (text, json, dot)", flagFormat)
				}
				return nil
			})
		},
	}

	requireProject(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, dot)")

	return cmd
}

func vizCmd() *cobra.Command {
	var flagFormat string

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the project's dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				g, result, err := a.svc.Schedule(cmd.Context(), flagProject)
				if err != nil {
					return err
				}
				rep := reporter.New(g, result)
				if flagFormat == "dot" {
					rep.PrintDOT(os.Stdout)
					return nil
				}
				rep.PrintASCII(os.Stdout)
				return nil
			})
		},
	}

	requireProject(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")

	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a project's progress and timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				st, err := a.svc.Stats(cmd.Context(), flagProject)
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(st)
				}
				reporter.PrintStats(os.Stdout, st)
				return nil
			})
		},
	}
	requireProject(cmd)
	return cmd
}
