package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshharrison/taskweave/internal/status"
	"github.com/joshharrison/taskweave/internal/task"
)

// TransitionStatus moves a task to a new status and persists the derived
// completion fields.
func (s *Service) TransitionStatus(ctx context.Context, taskID string, to task.Status) (task.Task, error) {
	return s.applyUpdate(ctx, taskID, func(t task.Task) (status.Update, error) {
		return s.machine.Transition(t, to)
	})
}

// SetProgress records progress and persists the status it implies.
func (s *Service) SetProgress(ctx context.Context, taskID string, progress int) (task.Task, error) {
	return s.applyUpdate(ctx, taskID, func(t task.Task) (status.Update, error) {
		return s.machine.SetProgress(t, progress)
	})
}

func (s *Service) applyUpdate(ctx context.Context, taskID string, compute func(task.Task) (status.Update, error)) (task.Task, error) {
	t, unlock, err := s.lockTask(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	defer unlock()

	u, err := compute(t)
	if err != nil {
		return task.Task{}, err
	}
	from := t.Status
	u.Apply(&t)

	updated, err := s.store.UpdateTask(ctx, t)
	if err != nil {
		s.logger.Error("update task failed", slog.String("task_id", taskID), slog.String("error", err.Error()))
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}
	if from != updated.Status {
		if s.metrics != nil {
			s.metrics.StatusTransitions.WithLabelValues(string(updated.Status)).Inc()
		}
		s.logger.Info("task status changed",
			slog.String("task_id", taskID),
			slog.String("from", string(from)),
			slog.String("to", string(updated.Status)),
		)
	}
	return updated, nil
}

// BulkResult is the outcome for one task of a bulk update.
type BulkResult struct {
	TaskID string     `json:"task_id"`
	Task   *task.Task `json:"task,omitempty"`
	Err    error      `json:"-"`
}

// Success reports whether the update for this task was applied.
func (r BulkResult) Success() bool { return r.Err == nil }

// BulkUpdateStatus transitions every task independently; one failure does
// not stop the rest.
func (s *Service) BulkUpdateStatus(ctx context.Context, taskIDs []string, to task.Status) []BulkResult {
	results := make([]BulkResult, 0, len(taskIDs))
	for _, id := range taskIDs {
		updated, err := s.TransitionStatus(ctx, id, to)
		r := BulkResult{TaskID: id, Err: err}
		if err == nil {
			r.Task = &updated
		}
		results = append(results, r)
	}
	return results
}
