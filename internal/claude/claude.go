package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joshharrison/taskweave/internal/task"
)

// TaskSummary is the minimal task info sent to Claude for dependency inference.
type TaskSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Priority     string   `json:"priority"`
	Status       string   `json:"status"`
	Dependencies []string `json:"existing_dependencies,omitempty"`
}

// Summarize converts tasks into prompt input.
func Summarize(tasks []task.Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskSummary{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Priority:     string(t.Priority),
			Status:       string(t.Status),
			Dependencies: t.Dependencies,
		})
	}
	return out
}

// DepEdge is a single inferred dependency.
type DepEdge struct {
	TaskID      string `json:"task_id"`       // task that waits
	DependsOnID string `json:"depends_on_id"` // task that must finish first
	Reason      string `json:"reason"`
}

// InferDepsResult holds the full response from Claude.
type InferDepsResult struct {
	Edges   []DepEdge `json:"edges"`
	Summary string    `json:"summary"`
}

// Client wraps the Anthropic SDK for Claude API calls.
type Client struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient creates a Claude client.
func NewClient(apiKey, model string, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	if model == "" {
		return nil, fmt.Errorf("claude model not configured")
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	inner := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &Client{inner: inner, model: anthropic.Model(model), maxTokens: int64(maxTokens)}, nil
}

const inferDepsPrompt = `You are an experienced project scheduler. Given the tasks of one project, infer the dependency edges between them.

Rules:
- Only add a dependency when there is a strong causal reason (a task cannot start until another is complete).
- Prefer fewer edges. Do not add transitive or speculative dependencies.
- Do not create cycles, including with the existing dependencies listed per task.
- Only use task IDs from the provided list.
- A task cannot depend on itself.

Return your answer as JSON with this exact structure:
{
  "edges": [
    {"task_id": "<task that waits>", "depends_on_id": "<task that must finish first>", "reason": "<short explanation>"}
  ],
  "summary": "<one paragraph summary of the dependency structure>"
}

Return ONLY the JSON object. No markdown fences, no commentary outside the JSON.

Here are the tasks:
`

// buildPrompt constructs the full prompt for dependency inference.
func buildPrompt(tasks []TaskSummary) (string, error) {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return inferDepsPrompt + string(data), nil
}

// InferDeps calls the Claude API to infer task dependencies.
func (c *Client) InferDeps(ctx context.Context, tasks []TaskSummary) (*InferDepsResult, error) {
	prompt, err := buildPrompt(tasks)
	if err != nil {
		return nil, err
	}

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude API call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return ParseResponse(text.String())
}

// ParseResponse decodes a model reply, tolerating markdown fences. It also
// reads replies saved to disk for offline review.
func ParseResponse(text string) (*InferDepsResult, error) {
	text = stripJSONFences(text)

	var result InferDepsResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse claude response: %w\nraw: %s", err, text)
	}
	return &result, nil
}

// stripJSONFences removes markdown code fences that Claude sometimes adds.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
