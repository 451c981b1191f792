package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/joshharrison/taskweave/internal/task"
)

// Filter narrows a task listing. Zero values match everything.
type Filter struct {
	Status   task.Status
	Assignee string
	// Overdue keeps unfinished tasks whose due date has passed.
	Overdue bool
}

func (f Filter) match(t task.Task, now time.Time) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Assignee != "" && t.AssignedTo != f.Assignee {
		return false
	}
	if f.Overdue && (t.DueDate == nil || !t.DueDate.Before(now) || t.Status == task.StatusDone) {
		return false
	}
	return true
}

// ListTasks returns the project's tasks matching f.
func (s *Service) ListTasks(ctx context.Context, projectID string, f Filter) ([]task.Task, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}

	now := s.now()
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.match(t, now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Stats summarizes a project.
type Stats struct {
	ProjectID       string              `json:"project_id"`
	Total           int                 `json:"total_tasks"`
	ByStatus        map[task.Status]int `json:"by_status"`
	Overdue         int                 `json:"overdue_tasks"`
	OverallProgress int                 `json:"overall_progress"` // percent of tasks done
	Start           *time.Time          `json:"start,omitempty"`  // earliest start date
	End             *time.Time          `json:"end,omitempty"`    // latest due date
}

// Stats counts tasks by status and reports the project's date span.
func (s *Service) Stats(ctx context.Context, projectID string) (Stats, error) {
	tasks, err := s.store.ListTasks(ctx, projectID)
	if err != nil {
		return Stats{}, fmt.Errorf("list project tasks: %w", err)
	}

	st := Stats{
		ProjectID: projectID,
		Total:     len(tasks),
		ByStatus:  make(map[task.Status]int, len(task.Statuses)),
	}
	for _, status := range task.Statuses {
		st.ByStatus[status] = 0
	}

	now := s.now()
	overdue := Filter{Overdue: true}
	for _, t := range tasks {
		st.ByStatus[t.Status]++
		if overdue.match(t, now) {
			st.Overdue++
		}
		if t.StartDate != nil && (st.Start == nil || t.StartDate.Before(*st.Start)) {
			v := *t.StartDate
			st.Start = &v
		}
		if t.DueDate != nil && (st.End == nil || t.DueDate.After(*st.End)) {
			v := *t.DueDate
			st.End = &v
		}
	}
	if st.Total > 0 {
		st.OverallProgress = int(math.Round(float64(st.ByStatus[task.StatusDone]) / float64(st.Total) * 100))
	}
	return st, nil
}
