package graph

import "github.com/joshharrison/taskweave/internal/task"

// Graph is an arena of tasks indexed by ID with forward and reverse
// adjacency. It is rebuilt per operation and never persisted.
type Graph struct {
	Tasks      map[string]*task.Task
	IDs        []string            // task IDs in input order
	Deps       map[string][]string // task -> tasks it depends on (as declared, may dangle)
	Dependents map[string][]string // task -> in-set tasks that depend on it
	Roots      []string            // tasks with no in-set dependencies
	Leaves     []string            // tasks nothing depends on
}
