// Package service is the caller layer around the scheduling core. It reads a
// project's tasks from the store, runs validation, and persists only what
// the validator accepts. Dependency and status writes are serialized per
// project so two callers can never jointly commit a cycle.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/joshharrison/taskweave/internal/metrics"
	"github.com/joshharrison/taskweave/internal/status"
	"github.com/joshharrison/taskweave/internal/store"
	"github.com/joshharrison/taskweave/internal/task"
)

// Service exposes task, dependency, and scheduling operations.
type Service struct {
	store   store.Store
	machine *status.Machine
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	locks  projectLocks
	flight singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now for completion dates and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service backed by st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.machine = status.New(s.now)
	return s
}

// projectLocks hands out one mutex per project.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *projectLocks) lock(projectID string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// lockTask resolves the task's project, takes the project lock, and
// re-reads the task so the caller works on a fresh copy.
func (s *Service) lockTask(ctx context.Context, taskID string) (task.Task, func(), error) {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return task.Task{}, nil, err
	}
	unlock := s.locks.lock(t.ProjectID)

	t, err = s.store.GetTask(ctx, taskID)
	if err != nil {
		unlock()
		return task.Task{}, nil, err
	}
	return t, unlock, nil
}

// GetTask returns a single task.
func (s *Service) GetTask(ctx context.Context, taskID string) (task.Task, error) {
	return s.store.GetTask(ctx, taskID)
}

// CreateTask stores a new task. Declared dependencies go through the same
// validation as a later dependency change.
func (s *Service) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if t.ProjectID == "" {
		return task.Task{}, fmt.Errorf("create task: project id is required")
	}
	if t.Status != "" && !t.Status.Valid() {
		return task.Task{}, fmt.Errorf("create task: %w: %q", task.ErrInvalidStatus, t.Status)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return task.Task{}, fmt.Errorf("create task: %w: got %d", task.ErrInvalidProgress, t.Progress)
	}
	if err := task.CheckEstimate(t.EstimatedHours); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	supplied := t.ID != ""
	if !supplied {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = task.StatusTodo
	}

	unlock := s.locks.lock(t.ProjectID)
	defer unlock()

	if supplied {
		if err := s.checkForeignDependents(ctx, t.ID, t.ProjectID); err != nil {
			s.metrics.ObserveValidation(task.KindName(err))
			return task.Task{}, err
		}
	}

	if len(t.Dependencies) > 0 {
		deps, err := s.validate(ctx, t, t.Dependencies)
		if err != nil {
			return task.Task{}, err
		}
		t.Dependencies = deps
	}
	s.machine.Normalize(t).Apply(&t)

	created, err := s.store.CreateTask(ctx, t)
	if err != nil {
		s.logger.Error("create task failed", slog.String("project_id", t.ProjectID), slog.String("error", err.Error()))
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.logger.Info("task created", slog.String("task_id", created.ID), slog.String("project_id", created.ProjectID))
	return created, nil
}

// checkForeignDependents rejects reusing id in projectID while a task of
// another project still holds a dangling edge to it. Reviving that ID would
// turn the edge into a cross-project dependency.
func (s *Service) checkForeignDependents(ctx context.Context, id, projectID string) error {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	for _, other := range all {
		if other.ProjectID != projectID && other.HasDependency(id) {
			return &task.DependencyError{Kind: task.ErrCrossProjectDependency, TaskID: other.ID, DependencyID: id}
		}
	}
	return nil
}

// DeleteTask removes a task. Dependents keep the now dangling edge, which
// every graph walk skips.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	t, unlock, err := s.lockTask(ctx, taskID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Info("task deleted", slog.String("task_id", taskID), slog.String("project_id", t.ProjectID))
	return nil
}
