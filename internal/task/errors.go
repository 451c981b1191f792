package task

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Every failure the engine reports wraps exactly one of these.
var (
	ErrSelfDependency         = errors.New("task cannot depend on itself")
	ErrCrossProjectDependency = errors.New("dependency belongs to a different project")
	ErrUnknownDependency      = errors.New("dependency task does not exist")
	ErrCyclicDependency       = errors.New("circular dependency detected")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidProgress        = errors.New("progress must be between 0 and 100")
	ErrInvalidEstimate        = errors.New("estimated hours must be a finite number between 0 and 292000")

	ErrNotFound            = errors.New("task not found")
	ErrDuplicateDependency = errors.New("dependency already exists")
)

// DependencyError describes a rejected dependency change.
type DependencyError struct {
	Kind         error
	TaskID       string
	DependencyID string
	Cycle        []string // populated for ErrCyclicDependency
}

func (e *DependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "task %s: %v", e.TaskID, e.Kind)
	if e.DependencyID != "" {
		fmt.Fprintf(&b, " (dependency %s)", e.DependencyID)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Cycle, " -> "))
	}
	return b.String()
}

func (e *DependencyError) Unwrap() error { return e.Kind }

// KindName returns the taxonomy name for err, or "" when err is not a
// taxonomy member.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrSelfDependency):
		return "SelfDependency"
	case errors.Is(err, ErrCrossProjectDependency):
		return "CrossProjectDependency"
	case errors.Is(err, ErrUnknownDependency):
		return "UnknownDependency"
	case errors.Is(err, ErrCyclicDependency):
		return "CyclicDependency"
	case errors.Is(err, ErrInvalidStatus):
		return "InvalidStatus"
	case errors.Is(err, ErrInvalidProgress):
		return "InvalidProgress"
	case errors.Is(err, ErrInvalidEstimate):
		return "InvalidEstimate"
	case errors.Is(err, ErrDuplicateDependency):
		return "DuplicateDependency"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	}
	return ""
}
