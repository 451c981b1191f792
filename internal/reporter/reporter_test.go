package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/joshharrison/taskweave/internal/cpm"
	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/task"
)

func init() {
	color.NoColor = true
}

func makeTasks() []task.Task {
	hours := func(h float64) *float64 { return &h }
	return []task.Task{
		{ID: "a", Title: "Pour slab", Status: task.StatusDone, EstimatedHours: hours(16)},
		{ID: "b", Title: "Frame walls", Status: task.StatusInProgress, Dependencies: []string{"a"}, EstimatedHours: hours(24)},
		{ID: "c", Title: "Order \"windows\"", Status: task.StatusTodo, Dependencies: []string{"a"}},
	}
}

func makeReporter() *Reporter {
	tasks := makeTasks()
	return New(graph.Build(tasks), cpm.Analyze(tasks))
}

func TestPrintCriticalPath(t *testing.T) {
	var buf bytes.Buffer
	makeReporter().PrintCriticalPath(&buf)
	out := buf.String()

	if !strings.Contains(out, "Duration:  5 days") {
		t.Errorf("expected duration line, got:\n%s", out)
	}
	if !strings.Contains(out, "a → b") {
		t.Error("output should contain the critical sequence")
	}
	if !strings.Contains(out, "slack 2") {
		t.Error("non-critical task should show its slack")
	}
	if !strings.Contains(out, "Wave 2") {
		t.Error("output should contain the second wave")
	}
}

func TestPrintCriticalPath_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(graph.Build(nil), cpm.Analyze(nil)).PrintCriticalPath(&buf)

	if !strings.Contains(buf.String(), "none") {
		t.Errorf("empty project should say none, got:\n%s", buf.String())
	}
}

func TestPrintASCII(t *testing.T) {
	var buf bytes.Buffer
	makeReporter().PrintASCII(&buf)
	out := buf.String()

	if !strings.Contains(out, "[a] Pour slab") {
		t.Error("output should contain task a")
	}
	if strings.Count(out, "└──→") != 2 {
		t.Errorf("expected 2 edges, got:\n%s", out)
	}
}

func TestPrintDOT(t *testing.T) {
	var buf bytes.Buffer
	makeReporter().PrintDOT(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph taskweave {") {
		t.Error("expected digraph header")
	}
	if !strings.Contains(out, `"a" -> "b" [color=red, penwidth=2];`) {
		t.Errorf("critical edge should be highlighted, got:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "c";`) {
		t.Error("non-critical edge should be plain")
	}
	if !strings.Contains(out, `Order \"windows\"`) {
		t.Error("quotes in titles should be escaped")
	}
}

func TestJSON(t *testing.T) {
	data, err := makeReporter().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed["project_duration"] != float64(5) {
		t.Errorf("expected project_duration 5, got %v", parsed["project_duration"])
	}
	path, ok := parsed["ordered_path"].([]interface{})
	if !ok || len(path) != 2 {
		t.Errorf("expected 2-task path, got %v", parsed["ordered_path"])
	}
}

func TestPrintOrder(t *testing.T) {
	var buf bytes.Buffer
	PrintOrder(&buf, makeTasks())
	out := buf.String()

	if !strings.Contains(out, "1. ✓ a") {
		t.Errorf("expected numbered rows, got:\n%s", out)
	}
	if !strings.Contains(out, "after a") {
		t.Error("rows should list dependencies")
	}
}

func TestPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	PrintTasks(&buf, nil)
	if !strings.Contains(buf.String(), "no tasks") {
		t.Error("empty list should say so")
	}

	buf.Reset()
	tasks := makeTasks()
	tasks[1].AssignedTo = "sam"
	PrintTasks(&buf, tasks)
	if !strings.Contains(buf.String(), "@sam") {
		t.Error("assignee should be shown")
	}
}

func TestPrintStats(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	st := service.Stats{
		ProjectID:       "p1",
		Total:           4,
		ByStatus:        map[task.Status]int{task.StatusDone: 1, task.StatusTodo: 3},
		Overdue:         2,
		OverallProgress: 25,
		Start:           &start,
	}

	var buf bytes.Buffer
	PrintStats(&buf, st)
	out := buf.String()

	for _, want := range []string{"4 total", "Overdue:   2", "25%", "2026-03-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
