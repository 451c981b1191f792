package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshharrison/taskweave/internal/config"
	"github.com/joshharrison/taskweave/internal/logger"
	"github.com/joshharrison/taskweave/internal/metrics"
	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/store"
)

var (
	flagConfig  string
	flagDB      string
	flagJSON    bool
	flagProject string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskweave",
		Short: "Dependency validation and critical path scheduling for project tasks",
		Long: `Taskweave keeps each project's task dependencies acyclic, orders tasks so
every task follows its dependencies, and computes the critical path that
bounds the project's duration.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: taskweave.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Task store path (overrides store.path)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(orderCmd())
	rootCmd.AddCommand(criticalPathCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(inferDepsCmd())

	return rootCmd
}

// app is everything a command needs, built from config and flags.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	svc      *service.Service
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func openApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.Store.Path = flagDB
	}

	log := logger.New(cfg.Logging)
	st, err := store.Open(store.Config{
		Driver:     cfg.Store.Driver,
		Path:       cfg.Store.Path,
		SyncWrites: cfg.Store.SyncWrites,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}

	reg, m := metrics.NewRegistry()
	svc := service.New(st, service.WithLogger(log), service.WithMetrics(m))
	return &app{cfg: cfg, logger: log, store: st, svc: svc, registry: reg, metrics: m}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("close task store", slog.String("error", err.Error()))
	}
}

// withApp opens the app for the duration of fn.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func requireProject(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagProject, "project", "p", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")
}

// --- Output helpers ---

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
