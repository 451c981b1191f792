// Package importer reads task records exported by the original tracker
// application. Exports are loosely typed: keys may be camelCase or
// snake_case, timestamps may be epoch milliseconds or RFC3339 strings, and
// tasks may be a keyed object or an array.
package importer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/taskweave/internal/task"
)

// ErrMalformed is returned when the document is not a recognizable export.
var ErrMalformed = errors.New("malformed task export")

// Skipped is a record that could not be imported.
type Skipped struct {
	ID     string
	Reason error
}

// Result holds the parsed tasks and the records left out.
type Result struct {
	Tasks   []task.Task
	Skipped []Skipped
}

// ParseFile reads and parses the export at path.
func ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return Parse(data)
}

// Parse accepts {"tasks": {<id>: {...}}}, {"tasks": [...]}, or a bare array.
// A record with a bad status or progress is skipped and reported; the rest
// of the document still imports.
func Parse(data []byte) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)

	list := root
	if root.IsObject() {
		list = root.Get("tasks")
	}

	res := &Result{}
	switch {
	case list.IsArray():
		for _, v := range list.Array() {
			res.add("", v)
		}
	case list.IsObject():
		list.ForEach(func(key, v gjson.Result) bool {
			res.add(key.String(), v)
			return true
		})
	default:
		return nil, fmt.Errorf("%w: expected a task array or a \"tasks\" field", ErrMalformed)
	}
	return res, nil
}

func (r *Result) add(key string, v gjson.Result) {
	t, err := decode(key, v)
	if err != nil {
		id := t.ID
		if id == "" {
			id = key
		}
		r.Skipped = append(r.Skipped, Skipped{ID: id, Reason: err})
		return
	}
	r.Tasks = append(r.Tasks, t)
}

// field returns the first of the given keys present on v.
func field(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if f := v.Get(k); f.Exists() && f.Type != gjson.Null {
			return f
		}
	}
	return gjson.Result{}
}

func decode(key string, v gjson.Result) (task.Task, error) {
	if !v.IsObject() {
		return task.Task{}, errors.New("record is not an object")
	}

	t := task.Task{
		ID:          field(v, "id").String(),
		ProjectID:   field(v, "projectId", "project_id").String(),
		Title:       field(v, "title").String(),
		Description: field(v, "description").String(),
		AssignedTo:  field(v, "assignedTo", "assigned_to").String(),
	}
	if t.ID == "" {
		t.ID = key
	}
	if t.ID == "" {
		return t, errors.New("record has no id")
	}
	if t.ProjectID == "" {
		return t, errors.New("record has no project id")
	}

	status, err := task.ParseStatus(stringOr(field(v, "status"), string(task.StatusTodo)))
	if err != nil {
		return t, err
	}
	t.Status = status

	priority, err := task.ParsePriority(field(v, "priority").String())
	if err != nil {
		priority = task.PriorityMedium
	}
	t.Priority = priority

	if p := field(v, "progress"); p.Exists() {
		n := p.Int()
		if n < 0 || n > 100 {
			return t, fmt.Errorf("%w: got %d", task.ErrInvalidProgress, n)
		}
		t.Progress = int(n)
	}

	if h := field(v, "estimatedHours", "estimated_hours"); h.Exists() {
		hours := h.Float()
		if err := task.CheckEstimate(&hours); err != nil {
			return t, err
		}
		t.EstimatedHours = &hours
	}

	for _, d := range field(v, "dependencies").Array() {
		t.Dependencies = append(t.Dependencies, d.String())
	}
	t.Dependencies = task.UniqueIDs(t.Dependencies)

	if t.StartDate, err = timestamp(field(v, "startDate", "start_date")); err != nil {
		return t, fmt.Errorf("start date: %w", err)
	}
	if t.DueDate, err = timestamp(field(v, "dueDate", "due_date")); err != nil {
		return t, fmt.Errorf("due date: %w", err)
	}
	if t.CompletedDate, err = timestamp(field(v, "completedDate", "completed_date")); err != nil {
		return t, fmt.Errorf("completed date: %w", err)
	}

	created, err := timestamp(field(v, "createdAt", "created_at"))
	if err != nil {
		return t, fmt.Errorf("created at: %w", err)
	}
	if created != nil {
		t.CreatedAt = *created
	}
	updated, err := timestamp(field(v, "updatedAt", "updated_at"))
	if err != nil {
		return t, fmt.Errorf("updated at: %w", err)
	}
	if updated != nil {
		t.UpdatedAt = *updated
	}
	return t, nil
}

func stringOr(v gjson.Result, def string) string {
	if s := v.String(); s != "" {
		return s
	}
	return def
}

// timestamp reads epoch milliseconds, RFC3339, or a bare date.
func timestamp(v gjson.Result) (*time.Time, error) {
	switch v.Type {
	case gjson.Number:
		ts := time.UnixMilli(v.Int()).UTC()
		return &ts, nil
	case gjson.String:
		s := v.String()
		if s == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return &ts, nil
			}
		}
		return nil, fmt.Errorf("unrecognized timestamp %q", s)
	case gjson.Null:
		return nil, nil
	}
	if !v.Exists() {
		return nil, nil
	}
	return nil, fmt.Errorf("unrecognized timestamp %s", v.Raw)
}
