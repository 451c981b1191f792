package task

import (
	"fmt"
	"math"
	"time"
)

// Status is the visible state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusBlocked, StatusDone}

// Valid reports whether s is one of the four recognized states.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts external input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of todo, in-progress, blocked, done)", ErrInvalidStatus, s)
	}
	return st, nil
}

// Priority is used for display and ordering only; the scheduling math ignores it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a recognized priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority converts external input into a Priority. Empty input yields medium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (must be one of low, medium, high, urgent)", s)
	}
	return p, nil
}

// Task is a unit of schedulable work.
type Task struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	AssignedTo     string     `json:"assigned_to,omitempty"`
	Dependencies   []string   `json:"dependencies"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Progress       int        `json:"progress"`
	CompletedDate  *time.Time `json:"completed_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasDependency reports whether id is among the task's dependencies.
func (t *Task) HasDependency(id string) bool {
	for _, d := range t.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate the result without
// touching the original record.
func (t Task) Clone() Task {
	c := t
	if t.Dependencies != nil {
		c.Dependencies = append([]string(nil), t.Dependencies...)
	}
	c.StartDate = cloneTime(t.StartDate)
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedDate = cloneTime(t.CompletedDate)
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// MaxEstimatedHours is the largest accepted hour estimate (100 years of
// 8-hour days).
const MaxEstimatedHours = 292000

// CheckEstimate rejects negative, non-finite, or oversized hour estimates.
// A nil estimate is fine.
func CheckEstimate(hours *float64) error {
	if hours == nil {
		return nil
	}
	h := *hours
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 || h > MaxEstimatedHours {
		return fmt.Errorf("%w: got %v", ErrInvalidEstimate, h)
	}
	return nil
}

// UniqueIDs returns ids with duplicates and empty strings removed, keeping
// first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
