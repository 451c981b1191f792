package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

// Edge is a suggested dependency: TaskID depends on DependsOnID.
type Edge struct {
	TaskID      string
	DependsOnID string
	Reason      string
}

// EdgeResult is the outcome of one suggested edge.
type EdgeResult struct {
	Edge
	Err error
}

// ApplyEdges adds suggested edges one at a time through the normal
// validator. Each accepted edge is visible when the next is checked, so a
// set of individually valid edges that would jointly form a cycle is
// partially applied and the closing edge is rejected.
func (s *Service) ApplyEdges(ctx context.Context, edges []Edge) []EdgeResult {
	results := make([]EdgeResult, 0, len(edges))
	for _, e := range edges {
		_, err := s.AddDependency(ctx, e.TaskID, e.DependsOnID)
		results = append(results, EdgeResult{Edge: e, Err: err})

		label := "applied"
		if err != nil {
			label = task.KindName(err)
			if label == "" {
				label = "error"
			}
			s.logger.Info("suggested dependency rejected",
				slog.String("task_id", e.TaskID),
				slog.String("dependency_id", e.DependsOnID),
				slog.String("error", err.Error()),
			)
		}
		if s.metrics != nil {
			s.metrics.InferredDependencies.WithLabelValues(label).Inc()
		}
	}
	return results
}

// CheckEdges validates suggested edges cumulatively without persisting.
// IDs outside the project are resolved so that a task owned by another
// project reports the same kind ApplyEdges would.
func (s *Service) CheckEdges(ctx context.Context, projectID string, edges []Edge) ([]EdgeResult, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(tasks))
	for i, t := range tasks {
		idx[t.ID] = i
	}

	results := make([]EdgeResult, 0, len(edges))
	for _, e := range edges {
		i, ok := idx[e.TaskID]
		if !ok {
			results = append(results, EdgeResult{Edge: e, Err: &task.DependencyError{Kind: task.ErrNotFound, TaskID: e.TaskID}})
			continue
		}
		owner := tasks[i]
		if owner.HasDependency(e.DependsOnID) {
			results = append(results, EdgeResult{Edge: e, Err: &task.DependencyError{Kind: task.ErrDuplicateDependency, TaskID: e.TaskID, DependencyID: e.DependsOnID}})
			continue
		}
		pool := tasks
		if _, local := idx[e.DependsOnID]; !local {
			other, err := s.store.GetTask(ctx, e.DependsOnID)
			switch {
			case err == nil:
				pool = append(append([]task.Task(nil), tasks...), other)
			case !errors.Is(err, task.ErrNotFound):
				return nil, fmt.Errorf("resolve dependency %s: %w", e.DependsOnID, err)
			}
		}
		deps, err := graph.Validate(owner.ID, append(append([]string(nil), owner.Dependencies...), e.DependsOnID), pool)
		if err == nil {
			tasks[i].Dependencies = deps
		}
		results = append(results, EdgeResult{Edge: e, Err: err})
	}
	return results, nil
}
