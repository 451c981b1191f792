package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/joshharrison/taskweave/internal/task"
)

// BadgerConfig holds configuration for a Badger-backed store.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives Badger's internal logs. Nil disables them.
	Logger *slog.Logger
	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns settings for an on-disk store.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryBadgerConfig returns settings for tests: no disk, no GC.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Keys:
//
//	task/<id>               JSON task record
//	project/<pid>/<id>      empty, project membership index
const (
	taskPrefix    = "task/"
	projectPrefix = "project/"
)

func taskKey(id string) []byte { return []byte(taskPrefix + id) }

func projectKey(projectID, id string) []byte {
	return []byte(projectPrefix + projectID + "/" + id)
}

// BadgerStore persists tasks in an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time

	stopGC chan struct{}
	gcDone chan struct{}
}

// OpenBadger opens the database described by cfg and starts value log GC
// when configured.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &BadgerStore{db: db, logger: logger, now: time.Now}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

func (s *BadgerStore) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}

// Close stops GC and closes the database.
func (s *BadgerStore) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
		s.stopGC = nil
	}
	return s.db.Close()
}

func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.Update(fn)
}

func (s *BadgerStore) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.View(fn)
}

func readTask(txn *badger.Txn, id string) (task.Task, error) {
	item, err := txn.Get(taskKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return task.Task{}, notFound(id)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}

	var t task.Task
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &t)
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	return t, nil
}

func writeTask(txn *badger.Txn, t task.Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	if err := txn.Set(taskKey(t.ID), data); err != nil {
		return err
	}
	return txn.Set(projectKey(t.ProjectID, t.ID), nil)
}

// keysWithPrefix returns the suffix of every key under prefix.
func keysWithPrefix(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return ids
}

func (s *BadgerStore) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	var out []task.Task
	err := s.view(ctx, func(txn *badger.Txn) error {
		for _, id := range keysWithPrefix(txn, projectPrefix+projectID+"/") {
			t, err := readTask(txn, id)
			if errors.Is(err, task.ErrNotFound) {
				s.logger.Warn("stale project index entry", slog.String("project_id", projectID), slog.String("task_id", id))
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

func (s *BadgerStore) ListAll(ctx context.Context) ([]task.Task, error) {
	var out []task.Task
	err := s.view(ctx, func(txn *badger.Txn) error {
		for _, id := range keysWithPrefix(txn, taskPrefix) {
			t, err := readTask(txn, id)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

func (s *BadgerStore) GetTask(ctx context.Context, id string) (task.Task, error) {
	var t task.Task
	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		t, err = readTask(txn, id)
		return err
	})
	return t, err
}

func (s *BadgerStore) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t = prepareNew(t, s.now())
	err := s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(taskKey(t.ID))
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrExists, t.ID)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return writeTask(txn, t)
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *BadgerStore) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t = t.Clone()
	err := s.update(ctx, func(txn *badger.Txn) error {
		prev, err := readTask(txn, t.ID)
		if err != nil {
			return err
		}
		if prev.ProjectID != t.ProjectID {
			if err := txn.Delete(projectKey(prev.ProjectID, t.ID)); err != nil {
				return err
			}
		}
		t.CreatedAt = prev.CreatedAt
		t.UpdatedAt = s.now()
		return writeTask(txn, t)
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *BadgerStore) SaveTaskDependencies(ctx context.Context, id string, deps []string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		t, err := readTask(txn, id)
		if err != nil {
			return err
		}
		t.Dependencies = task.UniqueIDs(deps)
		t.UpdatedAt = s.now()
		return writeTask(txn, t)
	})
}

func (s *BadgerStore) DeleteTask(ctx context.Context, id string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		t, err := readTask(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(taskKey(id)); err != nil {
			return err
		}
		return txn.Delete(projectKey(t.ProjectID, id))
	})
}

func (s *BadgerStore) PutTasks(ctx context.Context, tasks []task.Task) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, t := range tasks {
			prev, err := readTask(txn, t.ID)
			switch {
			case err == nil && prev.ProjectID != t.ProjectID:
				if err := txn.Delete(projectKey(prev.ProjectID, t.ID)); err != nil {
					return err
				}
			case err != nil && !errors.Is(err, task.ErrNotFound):
				return err
			}
			if err := writeTask(txn, t); err != nil {
				return err
			}
		}
		return nil
	})
}
