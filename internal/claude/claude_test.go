package claude

import (
	"strings"
	"testing"

	"github.com/joshharrison/taskweave/internal/task"
)

func TestStripJSONFences_Clean(t *testing.T) {
	input := `{"edges": [], "summary": "no deps"}`
	got := stripJSONFences(input)
	if got != input {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestStripJSONFences_WithJSONTag(t *testing.T) {
	input := "```json\n{\"edges\": []}\n```"
	got := stripJSONFences(input)
	if got != `{"edges": []}` {
		t.Errorf("expected clean JSON, got %q", got)
	}
}

func TestStripJSONFences_WithWhitespace(t *testing.T) {
	input := "  \n```\n{\"edges\": []}\n```\n  "
	got := stripJSONFences(input)
	if got != `{"edges": []}` {
		t.Errorf("expected clean JSON, got %q", got)
	}
}

func TestBuildPrompt_ContainsTaskData(t *testing.T) {
	tasks := Summarize([]task.Task{
		{ID: "T1", Title: "Pour slab", Priority: task.PriorityHigh, Status: task.StatusTodo},
		{ID: "T2", Title: "Frame walls", Priority: task.PriorityMedium, Status: task.StatusTodo, Dependencies: []string{"T1"}},
	})
	prompt, err := buildPrompt(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "T1") || !strings.Contains(prompt, "Pour slab") {
		t.Error("prompt should contain task IDs and titles")
	}
	if !strings.Contains(prompt, `"existing_dependencies"`) {
		t.Error("prompt should list existing dependencies")
	}
	if !strings.Contains(prompt, "strong causal reason") {
		t.Error("prompt should contain dependency rules")
	}
}

func TestParseResponse(t *testing.T) {
	raw := "```json\n" + `{
		"edges": [
			{"task_id": "T2", "depends_on_id": "T1", "reason": "walls sit on the slab"}
		],
		"summary": "T2 depends on T1"
	}` + "\n```"

	result, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(result.Edges))
	}
	if result.Edges[0].TaskID != "T2" || result.Edges[0].DependsOnID != "T1" {
		t.Errorf("unexpected edge: %+v", result.Edges[0])
	}
	if result.Summary != "T2 depends on T1" {
		t.Errorf("unexpected summary: %s", result.Summary)
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	if _, err := ParseResponse("I think T2 depends on T1."); err == nil {
		t.Fatal("expected error for prose reply")
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("", "claude-sonnet-4-5", 0); err == nil {
		t.Fatal("expected error without API key")
	}
}
