package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/joshharrison/taskweave/internal/task"
)

func TestStatusIcon(t *testing.T) {
	color.NoColor = true

	tests := map[task.Status]string{
		task.StatusDone:       "✓",
		task.StatusInProgress: "●",
		task.StatusBlocked:    "✗",
		task.StatusTodo:       "◌",
	}
	for status, want := range tests {
		if got := StatusIcon(status); got != want {
			t.Errorf("StatusIcon(%s) = %q, want %q", status, got, want)
		}
	}
}

func TestLabelsKeepText(t *testing.T) {
	color.NoColor = true

	if got := StatusLabel(task.StatusBlocked); got != "blocked" {
		t.Errorf("expected plain blocked, got %q", got)
	}
	if got := PriorityLabel(task.PriorityUrgent); got != "urgent" {
		t.Errorf("expected plain urgent, got %q", got)
	}
	if Critical(false) != " " {
		t.Error("non-critical marker should be blank")
	}
}

func TestPrintBanner(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintBanner(&buf, "dependency scheduling")
	if !strings.Contains(buf.String(), "T  A  S  K  W  E  A  V  E") {
		t.Error("banner should contain the brand")
	}
	if !strings.Contains(buf.String(), "dependency scheduling") {
		t.Error("banner should contain the tagline")
	}
}
