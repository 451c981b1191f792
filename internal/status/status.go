// Package status applies task status transitions and progress updates.
// It computes the derived field changes but never persists them.
package status

import (
	"fmt"
	"time"

	"github.com/joshharrison/taskweave/internal/task"
)

// Update is the set of fields a transition changes.
type Update struct {
	Status             task.Status
	Progress           *int
	CompletedDate      *time.Time
	ClearCompletedDate bool
}

// Apply writes the update onto t.
func (u Update) Apply(t *task.Task) {
	t.Status = u.Status
	if u.Progress != nil {
		t.Progress = *u.Progress
	}
	switch {
	case u.ClearCompletedDate:
		t.CompletedDate = nil
	case u.CompletedDate != nil:
		v := *u.CompletedDate
		t.CompletedDate = &v
	}
}

// Machine computes status side effects using an injectable clock.
type Machine struct {
	now func() time.Time
}

// New returns a Machine. A nil clock means time.Now.
func New(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// Transition moves t to the given status. Any state may move to any other.
// Entering done sets progress to 100 and stamps the completion date; leaving
// done clears it.
func (m *Machine) Transition(t task.Task, to task.Status) (Update, error) {
	if !to.Valid() {
		return Update{}, fmt.Errorf("%w: %q", task.ErrInvalidStatus, to)
	}

	u := Update{Status: to}
	switch {
	case to == task.StatusDone:
		u.Progress = intPtr(100)
		u.CompletedDate = m.completion(t)
	case t.Status == task.StatusDone:
		u.ClearCompletedDate = true
	}
	return u, nil
}

// SetProgress records progress and derives the status from it: 0 means
// todo, 100 means done, anything between promotes todo to in-progress
// and leaves other states alone.
func (m *Machine) SetProgress(t task.Task, progress int) (Update, error) {
	if progress < 0 || progress > 100 {
		return Update{}, fmt.Errorf("%w: got %d", task.ErrInvalidProgress, progress)
	}

	u := Update{Status: t.Status, Progress: intPtr(progress)}
	switch {
	case progress == 0:
		u.Status = task.StatusTodo
	case progress == 100:
		u.Status = task.StatusDone
		u.CompletedDate = m.completion(t)
	case t.Status == task.StatusTodo:
		u.Status = task.StatusInProgress
	}

	if t.Status == task.StatusDone && u.Status != task.StatusDone {
		u.ClearCompletedDate = true
	}
	return u, nil
}

// Normalize reconciles a record that arrives with its status, progress, and
// completion date already set. A done status or full progress means done
// with progress 100 and a completion date (an existing date is kept).
// Partial progress on a todo task means in-progress. Any task that is not
// done has no completion date. Progress must already be within range.
func (m *Machine) Normalize(t task.Task) Update {
	u := Update{Status: t.Status, Progress: intPtr(t.Progress)}
	switch {
	case t.Status == task.StatusDone || t.Progress == 100:
		u.Status = task.StatusDone
		u.Progress = intPtr(100)
		if t.CompletedDate != nil {
			v := *t.CompletedDate
			u.CompletedDate = &v
		} else {
			now := m.now()
			u.CompletedDate = &now
		}
	case t.Status == task.StatusTodo && t.Progress > 0:
		u.Status = task.StatusInProgress
		u.ClearCompletedDate = true
	default:
		u.ClearCompletedDate = true
	}
	return u
}

// completion keeps the original date when a done task is marked done again.
func (m *Machine) completion(t task.Task) *time.Time {
	if t.Status == task.StatusDone && t.CompletedDate != nil {
		v := *t.CompletedDate
		return &v
	}
	now := m.now()
	return &now
}

func intPtr(v int) *int { return &v }
