package cpm

import (
	"math/rand"
	"testing"
	"time"

	"github.com/joshharrison/taskweave/internal/task"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// dated builds a task lasting the given number of days.
func dated(id string, days int, deps ...string) task.Task {
	start := epoch
	due := epoch.Add(time.Duration(days) * 24 * time.Hour)
	return task.Task{ID: id, ProjectID: "p1", Title: id, Status: task.StatusTodo, Dependencies: deps, StartDate: &start, DueDate: &due}
}

func undated(id string, deps ...string) task.Task {
	return task.Task{ID: id, ProjectID: "p1", Title: id, Status: task.StatusTodo, Dependencies: deps}
}

func TestAnalyze_Diamond(t *testing.T) {
	// A(2) <- B(3) <- D(2)
	// A(2) <- C(1) <- D(2)
	result := Analyze([]task.Task{
		dated("a", 2),
		dated("b", 3, "a"),
		dated("c", 1, "a"),
		dated("d", 2, "b", "c"),
	})

	if result.ProjectDuration != 7 {
		t.Errorf("expected project duration 7, got %d", result.ProjectDuration)
	}
	assertPath(t, result.OrderedPath, "a", "b", "d")

	assertSchedule(t, result.Tasks["a"], 0, 2, 0, 2, 0, true)
	assertSchedule(t, result.Tasks["b"], 2, 5, 2, 5, 0, true)
	assertSchedule(t, result.Tasks["c"], 2, 3, 4, 5, 2, false)
	assertSchedule(t, result.Tasks["d"], 5, 7, 5, 7, 0, true)

	if len(result.CriticalTasks) != 3 || result.CriticalTasks[1].ID != "b" {
		t.Errorf("expected critical tasks [a b d], got %v", result.CriticalTasks)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil)
	if result.ProjectDuration != 0 {
		t.Errorf("expected duration 0, got %d", result.ProjectDuration)
	}
	if result.OrderedPath == nil || len(result.OrderedPath) != 0 {
		t.Errorf("expected empty non-nil path, got %#v", result.OrderedPath)
	}
	if result.CriticalTasks == nil || len(result.CriticalTasks) != 0 {
		t.Errorf("expected empty non-nil critical tasks, got %#v", result.CriticalTasks)
	}
}

func TestAnalyze_LinearChain(t *testing.T) {
	result := Analyze([]task.Task{undated("a"), undated("b", "a"), undated("c", "b")})

	if result.ProjectDuration != 3 {
		t.Errorf("expected total duration 3, got %d", result.ProjectDuration)
	}
	assertPath(t, result.OrderedPath, "a", "b", "c")
	if len(result.Waves) != 3 {
		t.Errorf("expected 3 waves, got %d", len(result.Waves))
	}

	assertSchedule(t, result.Tasks["a"], 0, 1, 0, 1, 0, true)
	assertSchedule(t, result.Tasks["b"], 1, 2, 1, 2, 0, true)
	assertSchedule(t, result.Tasks["c"], 2, 3, 2, 3, 0, true)
}

func TestAnalyze_WithEstimatedHours(t *testing.T) {
	// A(5d) <- B(1d) <- D(1d)
	// A(5d) <- C(10d) <- D(1d)
	hours := func(h float64) *float64 { return &h }
	a, b, c, d := undated("a"), undated("b", "a"), undated("c", "a"), undated("d", "b", "c")
	a.EstimatedHours = hours(40)
	b.EstimatedHours = hours(3)
	c.EstimatedHours = hours(76)
	d.EstimatedHours = hours(8)

	result := Analyze([]task.Task{a, b, c, d})

	if result.ProjectDuration != 16 {
		t.Errorf("expected total duration 16, got %d", result.ProjectDuration)
	}
	if slack, _ := result.SlackOf("b"); slack != 9 {
		t.Errorf("expected B slack=9, got %d", slack)
	}
	assertPath(t, result.OrderedPath, "a", "c", "d")
}

func TestAnalyze_ParallelTiedChainsKeepAllCriticalTasks(t *testing.T) {
	// Two disjoint chains of equal length: x1 <- x2 and y1 <- y2.
	result := Analyze([]task.Task{
		dated("x1", 2), dated("x2", 2, "x1"),
		dated("y1", 3), dated("y2", 1, "y1"),
	})

	if result.ProjectDuration != 4 {
		t.Fatalf("expected duration 4, got %d", result.ProjectDuration)
	}
	assertPath(t, result.OrderedPath, "x1", "x2", "y1", "y2")
}

func TestAnalyze_DanglingDependencyTreatedAsSatisfied(t *testing.T) {
	result := Analyze([]task.Task{undated("a", "deleted"), undated("b", "a")})

	if result.ProjectDuration != 2 {
		t.Errorf("expected duration 2, got %d", result.ProjectDuration)
	}
	assertSchedule(t, result.Tasks["a"], 0, 1, 0, 1, 0, true)
}

func TestAnalyze_ParallelIndependent(t *testing.T) {
	result := Analyze([]task.Task{undated("a"), undated("b"), undated("c")})

	if len(result.Waves) != 1 {
		t.Errorf("expected 1 wave, got %d", len(result.Waves))
	}
	if len(result.Waves[0].TaskIDs) != 3 {
		t.Errorf("expected 3 tasks in wave 0, got %d", len(result.Waves[0].TaskIDs))
	}
	if result.ProjectDuration != 1 {
		t.Errorf("expected total duration 1, got %d", result.ProjectDuration)
	}
}

func TestAnalyze_WavesCriticalFirst(t *testing.T) {
	result := Analyze([]task.Task{dated("a", 1), dated("b", 3)})

	if len(result.Waves) != 1 {
		t.Fatalf("expected 1 wave, got %d", len(result.Waves))
	}
	if ids := result.Waves[0].TaskIDs; ids[0] != "b" {
		t.Errorf("expected critical task b first in wave, got %v", ids)
	}
	if !result.Waves[0].IsCritical {
		t.Error("expected wave to be marked critical")
	}
}

func TestAnalyze_CyclicInputDoesNotPanic(t *testing.T) {
	result := Analyze([]task.Task{undated("a", "b"), undated("b", "a")})
	if len(result.TopoOrder) != 2 {
		t.Errorf("expected both tasks ordered, got %v", result.TopoOrder)
	}
}

// longestPath computes the heaviest dependency chain by brute-force
// memoized recursion, independent of the CPM passes.
func longestPath(tasks []task.Task) int {
	byID := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	memo := make(map[string]int)
	var finish func(id string) int
	finish = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		best := 0
		for _, dep := range byID[id].Dependencies {
			if _, ok := byID[dep]; ok {
				if f := finish(dep); f > best {
					best = f
				}
			}
		}
		memo[id] = best + Duration(byID[id])
		return memo[id]
	}
	longest := 0
	for _, t := range tasks {
		if f := finish(t.ID); f > longest {
			longest = f
		}
	}
	return longest
}

func TestAnalyze_DurationIsLongestPathOnRandomDAGs(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(15)
		tasks := make([]task.Task, n)
		for i := range tasks {
			id := string(rune('a' + i))
			var deps []string
			for j := 0; j < i; j++ {
				if rng.Intn(3) == 0 {
					deps = append(deps, string(rune('a'+j)))
				}
			}
			tasks[i] = dated(id, 1+rng.Intn(6), deps...)
		}
		rng.Shuffle(n, func(i, j int) { tasks[i], tasks[j] = tasks[j], tasks[i] })

		result := Analyze(tasks)
		if want := longestPath(tasks); result.ProjectDuration != want {
			t.Fatalf("round %d: expected duration %d, got %d", round, want, result.ProjectDuration)
		}

		onPath := make(map[string]bool)
		for _, id := range result.OrderedPath {
			onPath[id] = true
			if ts := result.Tasks[id]; ts.LS-ts.ES != 0 {
				t.Fatalf("round %d: path task %s has slack %d", round, id, ts.LS-ts.ES)
			}
		}
		for id, ts := range result.Tasks {
			if !onPath[id] && ts.Slack <= 0 {
				t.Fatalf("round %d: off-path task %s has slack %d", round, id, ts.Slack)
			}
		}
	}
}

func assertPath(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected path %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected path %v, got %v", want, got)
		}
	}
}

func assertSchedule(t *testing.T, ts *TaskSchedule, es, ef, ls, lf, slack int, critical bool) {
	t.Helper()
	if ts == nil {
		t.Fatal("missing schedule")
	}
	if ts.ES != es {
		t.Errorf("task %s: expected ES=%d, got %d", ts.TaskID, es, ts.ES)
	}
	if ts.EF != ef {
		t.Errorf("task %s: expected EF=%d, got %d", ts.TaskID, ef, ts.EF)
	}
	if ts.LS != ls {
		t.Errorf("task %s: expected LS=%d, got %d", ts.TaskID, ls, ts.LS)
	}
	if ts.LF != lf {
		t.Errorf("task %s: expected LF=%d, got %d", ts.TaskID, lf, ts.LF)
	}
	if ts.Slack != slack {
		t.Errorf("task %s: expected slack=%d, got %d", ts.TaskID, slack, ts.Slack)
	}
	if ts.IsCritical != critical {
		t.Errorf("task %s: expected critical=%v, got %v", ts.TaskID, critical, ts.IsCritical)
	}
}
