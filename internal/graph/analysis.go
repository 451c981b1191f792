package graph

import "github.com/joshharrison/taskweave/internal/task"

// DependencyChain returns taskID followed by every task it transitively
// depends on, each exactly once, in depth-first order. Unknown IDs yield nil.
func DependencyChain(taskID string, tasks []task.Task) []task.Task {
	g := Build(tasks)
	if !g.Has(taskID) {
		return nil
	}

	visited := make(map[string]bool)
	var chain []task.Task

	var walk func(id string)
	walk = func(id string) {
		if visited[id] || !g.Has(id) {
			return
		}
		visited[id] = true
		chain = append(chain, *g.Tasks[id])
		for _, dep := range g.Deps[id] {
			walk(dep)
		}
	}
	walk(taskID)
	return chain
}

// DependentsOf returns the tasks that directly depend on taskID.
func DependentsOf(taskID string, tasks []task.Task) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.HasDependency(taskID) {
			out = append(out, t)
		}
	}
	return out
}

// BlockingTasks returns the direct dependencies of taskID that are not done.
// Dangling dependency IDs are ignored.
func BlockingTasks(taskID string, tasks []task.Task) []task.Task {
	g := Build(tasks)
	var out []task.Task
	for _, dep := range g.InSetDeps(taskID) {
		if t := g.Tasks[dep]; t.Status != task.StatusDone {
			out = append(out, *t)
		}
	}
	return out
}

// CanStart reports whether every dependency of taskID is done.
func CanStart(taskID string, tasks []task.Task) bool {
	return len(BlockingTasks(taskID, tasks)) == 0
}
