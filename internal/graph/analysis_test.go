package graph

import (
	"testing"

	"github.com/joshharrison/taskweave/internal/task"
)

func TestDependencyChain(t *testing.T) {
	tasks := []task.Task{tk("a"), tk("b", "a"), tk("c", "a"), tk("d", "b", "c", "gone")}

	chain := DependencyChain("d", tasks)
	if len(chain) != 4 {
		t.Fatalf("expected 4 tasks in chain, got %d", len(chain))
	}
	if chain[0].ID != "d" {
		t.Errorf("expected chain to start at d, got %s", chain[0].ID)
	}

	if chain := DependencyChain("zzz", tasks); chain != nil {
		t.Errorf("expected nil chain for unknown task, got %v", chain)
	}
}

func TestDependentsOf(t *testing.T) {
	tasks := []task.Task{tk("a"), tk("b", "a"), tk("c", "a"), tk("d", "b")}
	got := DependentsOf("a", tasks)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("expected [b c], got %v", got)
	}
}

func TestBlockingTasksAndCanStart(t *testing.T) {
	a, b := tk("a"), tk("b")
	a.Status = task.StatusDone
	c := tk("c", "a", "b", "gone")
	tasks := []task.Task{a, b, c}

	blocking := BlockingTasks("c", tasks)
	if len(blocking) != 1 || blocking[0].ID != "b" {
		t.Errorf("expected only b to block c, got %v", blocking)
	}
	if CanStart("c", tasks) {
		t.Error("c should not be startable while b is open")
	}

	tasks[1].Status = task.StatusDone
	if !CanStart("c", tasks) {
		t.Error("c should be startable once all deps are done")
	}
}
