package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

// ImportReport describes what Import wrote.
type ImportReport struct {
	Imported int `json:"imported"`
	// Rejected maps a project ID to the reason its records were not written.
	Rejected map[string]string `json:"rejected,omitempty"`
	// Invalid maps a task ID to the reason that single record was dropped,
	// prefixed with its error kind.
	Invalid map[string]string `json:"invalid,omitempty"`
}

// Import upserts externally produced task records, keeping their IDs.
// Each record's edges get the same per-edge checks as a dependency change
// and a record that fails is dropped. Status, progress and completion date
// are reconciled before writing. The surviving records are merged with what
// the store already holds per project, and a project whose merged graph
// contains a cycle is skipped entirely.
func (s *Service) Import(ctx context.Context, tasks []task.Task) (ImportReport, error) {
	byProject := make(map[string][]task.Task)
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	projects := make([]string, 0, len(byProject))
	for pid := range byProject {
		projects = append(projects, pid)
	}
	sort.Strings(projects)

	report := ImportReport{Rejected: make(map[string]string), Invalid: make(map[string]string)}
	for _, pid := range projects {
		incoming := byProject[pid]
		n, err := s.importProject(ctx, pid, incoming, report.Invalid)
		if err != nil {
			if cycle, ok := asCycle(err); ok {
				report.Rejected[pid] = "dependency cycle: " + strings.Join(cycle, " -> ")
				s.logger.Warn("import rejected", slog.String("project_id", pid), slog.Any("cycle", cycle))
				continue
			}
			return report, err
		}
		report.Imported += n
	}
	if s.metrics != nil {
		s.metrics.TasksImported.WithLabelValues("written").Add(float64(report.Imported))
	}
	return report, nil
}

type cycleError []string

func (c cycleError) Error() string { return "cycle: " + strings.Join(c, " -> ") }

func asCycle(err error) ([]string, bool) {
	var c cycleError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

func (s *Service) importProject(ctx context.Context, projectID string, records []task.Task, invalid map[string]string) (int, error) {
	unlock := s.locks.lock(projectID)
	defer unlock()

	existing, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("list project tasks: %w", err)
	}

	inProject := make(map[string]bool, len(existing)+len(records))
	for _, t := range existing {
		inProject[t.ID] = true
	}
	for _, t := range records {
		inProject[t.ID] = true
	}

	incoming := make([]task.Task, 0, len(records))
	for _, t := range records {
		if err := s.checkRecord(ctx, t, inProject); err != nil {
			invalid[t.ID] = task.KindName(err) + ": " + err.Error()
			s.metrics.ObserveValidation(task.KindName(err))
			s.logger.Warn("import record dropped", slog.String("task_id", t.ID), slog.String("error", err.Error()))
			if s.metrics != nil {
				s.metrics.TasksImported.WithLabelValues("invalid").Inc()
			}
			continue
		}
		s.machine.Normalize(t).Apply(&t)
		incoming = append(incoming, t)
	}
	if len(incoming) == 0 {
		return 0, nil
	}

	// Incoming records go first so they win over stored copies in Build.
	merged := append(append([]task.Task(nil), incoming...), existing...)
	if cycle := graph.Build(merged).DetectCycle(); cycle != nil {
		return 0, cycleError(cycle)
	}

	if err := s.store.PutTasks(ctx, incoming); err != nil {
		return 0, fmt.Errorf("write project %s: %w", projectID, err)
	}
	s.logger.Info("project imported", slog.String("project_id", projectID), slog.Int("tasks", len(incoming)))
	return len(incoming), nil
}

// checkRecord applies the per-edge rules to an imported record: no self
// edge, no edge into another project, and no stored task of another project
// already pointing at this ID. Edges to tasks that exist nowhere are kept
// as dangling, the same as after a delete.
func (s *Service) checkRecord(ctx context.Context, t task.Task, inProject map[string]bool) error {
	if err := task.CheckEstimate(t.EstimatedHours); err != nil {
		return err
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: got %d", task.ErrInvalidProgress, t.Progress)
	}
	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return &task.DependencyError{Kind: task.ErrSelfDependency, TaskID: t.ID, DependencyID: dep}
		}
		if inProject[dep] {
			continue
		}
		other, err := s.store.GetTask(ctx, dep)
		switch {
		case errors.Is(err, task.ErrNotFound):
			continue
		case err != nil:
			return fmt.Errorf("resolve dependency %s: %w", dep, err)
		}
		if other.ProjectID != t.ProjectID {
			return &task.DependencyError{Kind: task.ErrCrossProjectDependency, TaskID: t.ID, DependencyID: dep}
		}
	}
	return s.checkForeignDependents(ctx, t.ID, t.ProjectID)
}
