package service

import (
	"context"
	"fmt"
	"time"

	"github.com/joshharrison/taskweave/internal/cpm"
	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

// CriticalPath computes the critical path of a project from a fresh read of
// its tasks. Concurrent calls for the same project share one computation,
// so the returned Result must be treated as read-only. The shared read is
// detached from any single caller's cancellation; a cancelled caller stops
// waiting without failing the others.
func (s *Service) CriticalPath(ctx context.Context, projectID string) (*cpm.Result, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(projectID, func() (interface{}, error) {
		start := time.Now()
		tasks, err := s.store.ListTasks(detached, projectID)
		if err != nil {
			return nil, fmt.Errorf("list project tasks: %w", err)
		}
		result := cpm.Analyze(tasks)
		s.metrics.ObserveCriticalPath(projectID, result.ProjectDuration, time.Since(start))
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared && s.metrics != nil {
			s.metrics.CriticalPathShared.Inc()
		}
		return r.Val.(*cpm.Result), nil
	}
}

// Order returns the project's tasks so that every task follows its
// dependencies.
func (s *Service) Order(ctx context.Context, projectID string) ([]task.Task, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}

	g := graph.Build(tasks)
	ordered := make([]task.Task, 0, len(tasks))
	for _, id := range g.Order() {
		ordered = append(ordered, *g.Tasks[id])
	}
	return ordered, nil
}

// Graph returns the project's dependency graph.
func (s *Service) Graph(ctx context.Context, projectID string) (*graph.Graph, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return graph.Build(tasks), nil
}

// Schedule returns the project's graph and critical path computed from the
// same read of its tasks.
func (s *Service) Schedule(ctx context.Context, projectID string) (*graph.Graph, *cpm.Result, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("list project tasks: %w", err)
	}
	start := time.Now()
	result := cpm.Analyze(tasks)
	s.metrics.ObserveCriticalPath(projectID, result.ProjectDuration, time.Since(start))
	return graph.Build(tasks), result, nil
}
