package graph

import (
	"github.com/joshharrison/taskweave/internal/task"
)

// WouldCreateCycle reports whether replacing taskID's dependencies with
// proposed would leave a cycle reachable from taskID.
func WouldCreateCycle(taskID string, proposed []string, allTasks []task.Task) bool {
	return findCycle(taskID, proposed, allTasks) != nil
}

// Validate checks a proposed dependency set for taskID against allTasks and
// returns the normalized set (duplicates removed, order kept) on success.
//
// Each dependency is checked in turn for self reference, existence and
// project membership; the cycle check runs only once every edge is
// individually acceptable. Failures are *task.DependencyError values
// wrapping the matching taxonomy sentinel. allTasks must contain every task
// the proposed IDs might resolve to, including tasks of other projects,
// otherwise those IDs are reported as unknown.
func Validate(taskID string, proposed []string, allTasks []task.Task) ([]string, error) {
	deps := task.UniqueIDs(proposed)

	var owner *task.Task
	byID := make(map[string]*task.Task, len(allTasks))
	for i := range allTasks {
		t := &allTasks[i]
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
		if t.ID == taskID && owner == nil {
			owner = t
		}
	}
	if owner == nil {
		return nil, &task.DependencyError{Kind: task.ErrNotFound, TaskID: taskID}
	}

	for _, dep := range deps {
		if dep == taskID {
			return nil, &task.DependencyError{Kind: task.ErrSelfDependency, TaskID: taskID, DependencyID: dep}
		}
		target, ok := byID[dep]
		if !ok {
			return nil, &task.DependencyError{Kind: task.ErrUnknownDependency, TaskID: taskID, DependencyID: dep}
		}
		if target.ProjectID != owner.ProjectID {
			return nil, &task.DependencyError{Kind: task.ErrCrossProjectDependency, TaskID: taskID, DependencyID: dep}
		}
	}

	if cycle := findCycle(taskID, deps, allTasks); cycle != nil {
		err := &task.DependencyError{Kind: task.ErrCyclicDependency, TaskID: taskID, Cycle: cycle}
		// The rest of the graph is acyclic, so the cycle runs through taskID
		// and its second element is the edge that closed it.
		if len(cycle) > 1 && cycle[0] == taskID {
			err.DependencyID = cycle[1]
		}
		return nil, err
	}
	return deps, nil
}

// findCycle runs a DFS from taskID over the graph with taskID's edges
// replaced by proposed. A back edge to a node still on the stack is a
// cycle; the returned path starts and ends at that node.
func findCycle(taskID string, proposed []string, allTasks []task.Task) []string {
	g := Build(allTasks)
	proposed = task.UniqueIDs(proposed)

	depsOf := func(id string) []string {
		if id == taskID {
			return proposed
		}
		return g.Deps[id]
	}
	exists := func(id string) bool {
		return id == taskID || g.Has(id)
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var dfs func(node string) []string
	dfs = func(node string) []string {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)

		for _, next := range depsOf(node) {
			if !exists(next) {
				continue
			}
			if onStack[next] {
				return cyclePath(stack, next)
			}
			if !visited[next] {
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[node] = false
		return nil
	}

	return dfs(taskID)
}
