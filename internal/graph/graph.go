package graph

import (
	"github.com/joshharrison/taskweave/internal/task"
)

// Build constructs a Graph from a flat task list. Dependencies naming tasks
// absent from the list are kept in Deps but produce no reverse edge; they are
// skipped whenever the graph is walked. A repeated task ID keeps its first
// occurrence.
func Build(tasks []task.Task) *Graph {
	g := &Graph{
		Tasks:      make(map[string]*task.Task, len(tasks)),
		IDs:        make([]string, 0, len(tasks)),
		Deps:       make(map[string][]string, len(tasks)),
		Dependents: make(map[string][]string, len(tasks)),
	}

	for i := range tasks {
		t := &tasks[i]
		if _, dup := g.Tasks[t.ID]; dup {
			continue
		}
		g.Tasks[t.ID] = t
		g.IDs = append(g.IDs, t.ID)
		g.Deps[t.ID] = task.UniqueIDs(t.Dependencies)
	}

	// Invert in input order so Dependents is deterministic.
	for _, id := range g.IDs {
		for _, dep := range g.Deps[id] {
			if _, ok := g.Tasks[dep]; ok {
				g.Dependents[dep] = append(g.Dependents[dep], id)
			}
		}
	}

	for _, id := range g.IDs {
		if len(g.InSetDeps(id)) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Dependents[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}

	return g
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.Tasks)
}

// Has reports whether id is a task in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.Tasks[id]
	return ok
}

// InSetDeps returns the dependencies of id that are present in the graph.
func (g *Graph) InSetDeps(id string) []string {
	var out []string
	for _, dep := range g.Deps[id] {
		if g.Has(dep) {
			out = append(out, dep)
		}
	}
	return out
}

// DetectCycle returns a cycle path if one exists, or nil if the graph is
// acyclic. The path starts and ends with the same task and follows
// "depends on" edges. Uses DFS coloring: white (unvisited), gray (on the
// stack), black (done).
func (g *Graph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.Tasks))
	var stack []string

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		stack = append(stack, node)
		for _, next := range g.Deps[node] {
			if !g.Has(next) {
				continue
			}
			switch color[next] {
			case gray:
				return cyclePath(stack, next)
			case white:
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
		return nil
	}

	for _, id := range g.IDs {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// cyclePath cuts the DFS stack at the first occurrence of target and closes
// the loop back to it.
func cyclePath(stack []string, target string) []string {
	for i, id := range stack {
		if id == target {
			cycle := append([]string(nil), stack[i:]...)
			return append(cycle, target)
		}
	}
	return []string{target, target}
}

// Filter returns a new Graph containing only tasks matching the predicate.
// Edges to filtered-out tasks become dangling and are ignored by walks.
func (g *Graph) Filter(pred func(*task.Task) bool) *Graph {
	var kept []task.Task
	for _, id := range g.IDs {
		if t := g.Tasks[id]; pred(t) {
			kept = append(kept, *t)
		}
	}
	return Build(kept)
}
