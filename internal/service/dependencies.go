package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

// validate checks proposed as the full dependency set of owner. The
// project's tasks are loaded fresh; IDs outside the project are looked up
// individually so a foreign task reports as cross-project rather than
// unknown. Callers hold the project lock when they intend to persist.
func (s *Service) validate(ctx context.Context, owner task.Task, proposed []string) ([]string, error) {
	all, err := s.store.ListTasks(ctx, owner.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}

	known := make(map[string]bool, len(all)+1)
	for _, t := range all {
		known[t.ID] = true
	}
	if !known[owner.ID] {
		all = append(all, owner)
		known[owner.ID] = true
	}

	for _, dep := range task.UniqueIDs(proposed) {
		if known[dep] {
			continue
		}
		foreign, err := s.store.GetTask(ctx, dep)
		switch {
		case errors.Is(err, task.ErrNotFound):
			continue
		case err != nil:
			return nil, fmt.Errorf("resolve dependency %s: %w", dep, err)
		}
		all = append(all, foreign)
		known[dep] = true
	}

	deps, err := graph.Validate(owner.ID, proposed, all)
	s.metrics.ObserveValidation(task.KindName(err))
	if err != nil {
		s.logger.Warn("dependency change rejected",
			slog.String("task_id", owner.ID),
			slog.String("kind", task.KindName(err)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return deps, nil
}

// ValidateDependencyChange reports whether proposed may replace taskID's
// dependencies, returning the normalized set. Nothing is persisted.
func (s *Service) ValidateDependencyChange(ctx context.Context, taskID string, proposed []string) ([]string, error) {
	owner, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, owner, proposed)
}

// SetDependencies validates proposed and, if accepted, persists it as the
// task's full dependency set.
func (s *Service) SetDependencies(ctx context.Context, taskID string, proposed []string) (task.Task, error) {
	owner, unlock, err := s.lockTask(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	defer unlock()

	return s.commitDependencies(ctx, owner, proposed)
}

// AddDependency appends depID to the task's dependencies. An edge that is
// already present is rejected.
func (s *Service) AddDependency(ctx context.Context, taskID, depID string) (task.Task, error) {
	owner, unlock, err := s.lockTask(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	defer unlock()

	if owner.HasDependency(depID) {
		err := &task.DependencyError{Kind: task.ErrDuplicateDependency, TaskID: taskID, DependencyID: depID}
		s.metrics.ObserveValidation(task.KindName(err))
		return task.Task{}, err
	}
	proposed := append(append([]string(nil), owner.Dependencies...), depID)
	return s.commitDependencies(ctx, owner, proposed)
}

// RemoveDependency drops depID from the task's dependencies. Removing an
// edge cannot create a cycle, so no validation runs. Removing an absent
// edge is a no-op.
func (s *Service) RemoveDependency(ctx context.Context, taskID, depID string) (task.Task, error) {
	owner, unlock, err := s.lockTask(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	defer unlock()

	if !owner.HasDependency(depID) {
		return owner, nil
	}
	kept := make([]string, 0, len(owner.Dependencies))
	for _, d := range owner.Dependencies {
		if d != depID {
			kept = append(kept, d)
		}
	}
	if err := s.store.SaveTaskDependencies(ctx, taskID, kept); err != nil {
		return task.Task{}, fmt.Errorf("save dependencies: %w", err)
	}
	s.logger.Info("dependency removed", slog.String("task_id", taskID), slog.String("dependency_id", depID))
	return s.store.GetTask(ctx, taskID)
}

// commitDependencies validates and saves. Callers hold the project lock.
func (s *Service) commitDependencies(ctx context.Context, owner task.Task, proposed []string) (task.Task, error) {
	deps, err := s.validate(ctx, owner, proposed)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.store.SaveTaskDependencies(ctx, owner.ID, deps); err != nil {
		s.logger.Error("save dependencies failed", slog.String("task_id", owner.ID), slog.String("error", err.Error()))
		return task.Task{}, fmt.Errorf("save dependencies: %w", err)
	}
	s.logger.Info("dependencies updated", slog.String("task_id", owner.ID), slog.Any("dependencies", deps))
	return s.store.GetTask(ctx, owner.ID)
}

// Analysis bundles the dependency relations of one task.
type Analysis struct {
	Chain      []task.Task `json:"chain"`
	Dependents []task.Task `json:"dependents"`
	Blocking   []task.Task `json:"blocking"`
	CanStart   bool        `json:"can_start"`
}

// AnalyzeTask returns the task's transitive dependency chain, direct
// dependents, and the unfinished dependencies blocking it.
func (s *Service) AnalyzeTask(ctx context.Context, taskID string) (Analysis, error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Analysis{}, err
	}
	all, err := s.store.ListTasks(ctx, t.ProjectID)
	if err != nil {
		return Analysis{}, fmt.Errorf("list project tasks: %w", err)
	}

	blocking := graph.BlockingTasks(taskID, all)
	return Analysis{
		Chain:      graph.DependencyChain(taskID, all),
		Dependents: graph.DependentsOf(taskID, all),
		Blocking:   blocking,
		CanStart:   len(blocking) == 0,
	}, nil
}
