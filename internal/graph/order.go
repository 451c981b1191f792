package graph

import "github.com/joshharrison/taskweave/internal/task"

// Order returns the task IDs in an order where every task follows its
// in-set dependencies. Dependencies outside the supplied set are treated
// as already satisfied.
//
// The input is assumed acyclic. On a cyclic input the visited set still
// guarantees termination and every ID appears exactly once, but the order
// along the cycle is arbitrary.
func Order(tasks []task.Task) []string {
	return Build(tasks).Order()
}

// Order is the depth-first topological order of g: tasks are visited in
// input order, each after its dependencies in declared order.
func (g *Graph) Order() []string {
	visited := make(map[string]bool, len(g.Tasks))
	order := make([]string, 0, len(g.Tasks))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range g.Deps[id] {
			if g.Has(dep) {
				visit(dep)
			}
		}
		order = append(order, id)
	}

	for _, id := range g.IDs {
		visit(id)
	}
	return order
}
