package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joshharrison/taskweave/internal/task"
)

// MemoryStore keeps tasks in a map. When opened with a path it also
// snapshots every write to a JSON file and reloads it on open.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
	path  string
	now   func() time.Time
}

type snapshot struct {
	SavedAt time.Time   `json:"saved_at"`
	Tasks   []task.Task `json:"tasks"`
}

// NewMemory returns an empty, non-persistent store.
func NewMemory() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]task.Task), now: time.Now}
}

// OpenFile returns a store backed by the JSON snapshot at path, creating
// the parent directory if needed. A missing file starts empty.
func OpenFile(path string) (*MemoryStore, error) {
	if path == "" {
		return nil, errors.New("path is required for json store")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := NewMemory()
	s.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for _, t := range snap.Tasks {
		s.tasks[t.ID] = t
	}
	return s, nil
}

// save writes the snapshot. Callers hold the write lock.
func (s *MemoryStore) save() error {
	if s.path == "" {
		return nil
	}
	snap := snapshot{SavedAt: s.now(), Tasks: make([]task.Task, 0, len(s.tasks))}
	for _, t := range s.tasks {
		snap.Tasks = append(snap.Tasks, t)
	}
	sortTasks(snap.Tasks)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *MemoryStore) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []task.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.Clone())
		}
	}
	sortTasks(out)
	return out, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	sortTasks(out)
	return out, nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id string) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, notFound(id)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t = prepareNew(t, s.now())
	if _, ok := s.tasks[t.ID]; ok {
		return task.Task{}, fmt.Errorf("%w: %s", ErrExists, t.ID)
	}
	s.tasks[t.ID] = t
	if err := s.save(); err != nil {
		delete(s.tasks, t.ID)
		return task.Task{}, err
	}
	return t.Clone(), nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[t.ID]
	if !ok {
		return task.Task{}, notFound(t.ID)
	}
	t = t.Clone()
	t.CreatedAt = prev.CreatedAt
	t.UpdatedAt = s.now()
	s.tasks[t.ID] = t
	if err := s.save(); err != nil {
		s.tasks[t.ID] = prev
		return task.Task{}, err
	}
	return t.Clone(), nil
}

func (s *MemoryStore) SaveTaskDependencies(ctx context.Context, id string, deps []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[id]
	if !ok {
		return notFound(id)
	}
	t := prev.Clone()
	t.Dependencies = task.UniqueIDs(deps)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	if err := s.save(); err != nil {
		s.tasks[id] = prev
		return err
	}
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[id]
	if !ok {
		return notFound(id)
	}
	delete(s.tasks, id)
	if err := s.save(); err != nil {
		s.tasks[id] = prev
		return err
	}
	return nil
}

func (s *MemoryStore) PutTasks(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make(map[string]task.Task, len(s.tasks))
	for id, t := range s.tasks {
		prev[id] = t
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t.Clone()
	}
	if err := s.save(); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// Close is a no-op; every write is already on disk.
func (s *MemoryStore) Close() error { return nil }
