package graph

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/joshharrison/taskweave/internal/task"
)

func assertKind(t *testing.T, err, kind error) *task.DependencyError {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var de *task.DependencyError
	if !errors.As(err, &de) {
		t.Fatalf("expected *task.DependencyError, got %T", err)
	}
	return de
}

func TestValidate_SelfDependency(t *testing.T) {
	tasks := []task.Task{tk("x")}

	_, err := Validate("x", []string{"x"}, tasks)
	de := assertKind(t, err, task.ErrSelfDependency)
	if errors.Is(err, task.ErrCyclicDependency) {
		t.Error("self dependency must not be reported as a cycle")
	}
	if de.DependencyID != "x" {
		t.Errorf("expected dependency id x, got %q", de.DependencyID)
	}
}

func TestValidate_DirectCycle(t *testing.T) {
	// A depends on B; proposing B depends on A.
	tasks := []task.Task{tk("a", "b"), tk("b")}

	_, err := Validate("b", []string{"a"}, tasks)
	de := assertKind(t, err, task.ErrCyclicDependency)
	if len(de.Cycle) != 3 || de.Cycle[0] != "b" || de.Cycle[2] != "b" {
		t.Errorf("expected cycle b -> a -> b, got %v", de.Cycle)
	}
	if de.DependencyID != "a" {
		t.Errorf("expected closing dependency a, got %q", de.DependencyID)
	}
}

func TestValidate_TransitiveCycle(t *testing.T) {
	tasks := []task.Task{tk("a"), tk("b", "a"), tk("c", "b")}

	_, err := Validate("a", []string{"c"}, tasks)
	assertKind(t, err, task.ErrCyclicDependency)

	if !WouldCreateCycle("a", []string{"c"}, tasks) {
		t.Error("expected WouldCreateCycle to agree")
	}
}

func TestValidate_UnknownDependency(t *testing.T) {
	_, err := Validate("a", []string{"missing"}, []task.Task{tk("a")})
	de := assertKind(t, err, task.ErrUnknownDependency)
	if de.DependencyID != "missing" {
		t.Errorf("expected dependency id missing, got %q", de.DependencyID)
	}
}

func TestValidate_CrossProject(t *testing.T) {
	other := tk("o")
	other.ProjectID = "p2"

	_, err := Validate("a", []string{"o"}, []task.Task{tk("a"), other})
	assertKind(t, err, task.ErrCrossProjectDependency)
}

func TestValidate_UnknownTask(t *testing.T) {
	_, err := Validate("nope", []string{"a"}, []task.Task{tk("a")})
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidate_AcceptsAndNormalizes(t *testing.T) {
	tasks := []task.Task{tk("a"), tk("b"), tk("c")}

	deps, err := Validate("c", []string{"a", "b", "a"}, tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 || deps[0] != "a" || deps[1] != "b" {
		t.Errorf("expected [a b], got %v", deps)
	}
}

func TestValidate_ReplacingEdgesBreaksOldCycleRisk(t *testing.T) {
	// b currently depends on a. Replacing b's deps with [] lets a depend on b.
	tasks := []task.Task{tk("a"), tk("b", "a")}

	if !WouldCreateCycle("a", []string{"b"}, tasks) {
		t.Fatal("expected cycle while b still depends on a")
	}
	tasks[1].Dependencies = nil
	if WouldCreateCycle("a", []string{"b"}, tasks) {
		t.Error("expected no cycle once b no longer depends on a")
	}
}

func TestValidate_DanglingExistingEdgesIgnored(t *testing.T) {
	tasks := []task.Task{tk("a", "deleted"), tk("b")}
	if _, err := Validate("b", []string{"a"}, tasks); err != nil {
		t.Errorf("dangling edge on an existing task should not fail validation: %v", err)
	}
}

// Random add/remove sequences that only commit validator-approved changes
// must never leave a cycle anywhere in the project.
func TestValidate_AcyclicInvariantUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 12

	for round := 0; round < 50; round++ {
		tasks := make([]task.Task, n)
		for i := range tasks {
			tasks[i] = tk(string(rune('a' + i)))
		}

		for step := 0; step < 80; step++ {
			i := rng.Intn(n)
			cur := tasks[i].Dependencies
			var proposed []string
			if len(cur) > 0 && rng.Intn(3) == 0 {
				drop := rng.Intn(len(cur))
				proposed = append(append([]string(nil), cur[:drop]...), cur[drop+1:]...)
			} else {
				proposed = append(append([]string(nil), cur...), tasks[rng.Intn(n)].ID)
			}

			deps, err := Validate(tasks[i].ID, proposed, tasks)
			if err != nil {
				continue
			}
			tasks[i].Dependencies = deps

			if cycle := Build(tasks).DetectCycle(); cycle != nil {
				t.Fatalf("round %d step %d: accepted change produced cycle %v", round, step, cycle)
			}
		}
	}
}
