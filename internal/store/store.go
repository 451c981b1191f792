// Package store persists task records. The scheduling core never touches a
// store directly; the service layer reads a project's tasks, validates, and
// only then writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/joshharrison/taskweave/internal/task"
)

// ErrExists is returned when creating a task whose ID is already taken.
var ErrExists = errors.New("task already exists")

// Store is the task persistence boundary. ListTasks must return every task
// in the project; a partial list silently yields an incomplete graph.
type Store interface {
	ListTasks(ctx context.Context, projectID string) ([]task.Task, error)
	ListAll(ctx context.Context) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (task.Task, error)
	CreateTask(ctx context.Context, t task.Task) (task.Task, error)
	UpdateTask(ctx context.Context, t task.Task) (task.Task, error)
	SaveTaskDependencies(ctx context.Context, id string, deps []string) error
	DeleteTask(ctx context.Context, id string) error
	// PutTasks upserts records as-is, keeping their IDs and timestamps.
	PutTasks(ctx context.Context, tasks []task.Task) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverBadger = "badger"
	DriverMemory = "memory"
	DriverJSON   = "json"
)

// Config selects and configures a Store implementation.
type Config struct {
	Driver     string
	Path       string
	SyncWrites bool
	Logger     *slog.Logger
}

// Open builds the store named by cfg.Driver.
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverBadger:
		bc := DefaultBadgerConfig()
		bc.Path = cfg.Path
		bc.SyncWrites = cfg.SyncWrites
		bc.Logger = cfg.Logger
		return OpenBadger(bc)
	case DriverJSON:
		return OpenFile(cfg.Path)
	case DriverMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// prepareNew fills defaults for a freshly created task.
func prepareNew(t task.Task, now time.Time) task.Task {
	t = t.Clone()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	t.Dependencies = task.UniqueIDs(t.Dependencies)
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", task.ErrNotFound, id)
}

// sortTasks orders tasks by creation time, then ID, so every driver lists a
// project the same way.
func sortTasks(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
