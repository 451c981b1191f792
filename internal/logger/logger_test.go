package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/joshharrison/taskweave/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.Logging{Level: "info", Format: "json", Service: "tw-test"}, &buf)

	l.Debug("hidden")
	l.Info("dependency accepted", "task_id", "a")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["service"] != "tw-test" {
		t.Errorf("expected service tw-test, got %v", rec["service"])
	}
	if rec["task_id"] != "a" {
		t.Errorf("expected task_id a, got %v", rec["task_id"])
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.Logging{Level: "debug", Format: "text", Service: "svc"}, &buf)
	l.Debug("shown")

	if !strings.Contains(buf.String(), "msg=shown") || !strings.Contains(buf.String(), "service=svc") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"ERROR", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input).String()
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
