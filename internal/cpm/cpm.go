package cpm

import (
	"sort"

	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

// Analyze performs critical path method analysis over the full task set.
// An empty set yields an empty result with zero duration.
func Analyze(tasks []task.Task) *Result {
	result := &Result{
		OrderedPath:   []string{},
		CriticalTasks: []task.Task{},
		Tasks:         make(map[string]*TaskSchedule, len(tasks)),
		TopoOrder:     []string{},
	}
	if len(tasks) == 0 {
		return result
	}

	g := graph.Build(tasks)
	order := g.Order()
	result.TopoOrder = order

	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id, Duration: Duration(*g.Tasks[id])}
	}

	// Forward pass: ES = max(EF of in-set dependencies).
	for _, id := range order {
		ts := result.Tasks[id]
		es := 0
		for _, dep := range g.InSetDeps(id) {
			if ef := result.Tasks[dep].EF; ef > es {
				es = ef
			}
		}
		ts.ES = es
		ts.EF = es + ts.Duration
	}

	for _, ts := range result.Tasks {
		if ts.EF > result.ProjectDuration {
			result.ProjectDuration = ts.EF
		}
	}

	// Backward pass in reverse topological order. A dependent not yet
	// scheduled (only possible on cyclic input) counts as finishing at the
	// project end.
	done := make(map[string]bool, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]

		lf := result.ProjectDuration
		for _, dep := range g.Dependents[id] {
			ls := result.ProjectDuration
			if done[dep] {
				ls = result.Tasks[dep].LS
			}
			if ls < lf {
				lf = ls
			}
		}
		ts.LF = lf
		ts.LS = lf - ts.Duration
		ts.Slack = ts.LS - ts.ES
		ts.IsCritical = ts.Slack == 0
		done[id] = true
	}

	result.OrderedPath = criticalSequence(g, result)
	for _, id := range result.OrderedPath {
		result.CriticalTasks = append(result.CriticalTasks, *g.Tasks[id])
	}

	result.Waves = computeWaves(result)

	return result
}

// criticalSequence starts at the first critical task (topological order)
// without a critical dependency and follows critical dependents, preferring
// the one that starts exactly when the current task finishes. Critical tasks
// the walk never reaches, such as a tied parallel chain, are appended in
// topological order so none are dropped.
func criticalSequence(g *graph.Graph, result *Result) []string {
	critical := func(id string) bool {
		ts, ok := result.Tasks[id]
		return ok && ts.IsCritical
	}

	start := ""
	for _, id := range result.TopoOrder {
		if !critical(id) {
			continue
		}
		hasCriticalDep := false
		for _, dep := range g.InSetDeps(id) {
			if critical(dep) {
				hasCriticalDep = true
				break
			}
		}
		if !hasCriticalDep {
			start = id
			break
		}
	}

	visited := make(map[string]bool)
	path := []string{}

	for cur := start; cur != ""; {
		visited[cur] = true
		path = append(path, cur)

		next := ""
		for _, dep := range g.Dependents[cur] {
			if !critical(dep) || visited[dep] {
				continue
			}
			if result.Tasks[dep].ES == result.Tasks[cur].EF {
				next = dep
				break
			}
			if next == "" {
				next = dep
			}
		}
		cur = next
	}

	for _, id := range result.TopoOrder {
		if critical(id) && !visited[id] {
			path = append(path, id)
		}
	}
	return path
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *Result) []Wave {
	esGroups := make(map[int][]string)
	for _, id := range result.TopoOrder {
		es := result.Tasks[id].ES
		esGroups[es] = append(esGroups[es], id)
	}

	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		taskIDs := esGroups[es]
		sort.Strings(taskIDs)

		hasCritical := false
		for _, id := range taskIDs {
			result.Tasks[id].Wave = i
			if result.Tasks[id].IsCritical {
				hasCritical = true
			}
		}

		// Critical tasks first within a wave
		sort.SliceStable(taskIDs, func(a, b int) bool {
			return result.Tasks[taskIDs[a]].IsCritical && !result.Tasks[taskIDs[b]].IsCritical
		})

		waves[i] = Wave{
			Index:      i,
			Start:      es,
			TaskIDs:    taskIDs,
			IsCritical: hasCritical,
		}
	}

	return waves
}

// SlackOf returns the slack of taskID, or false when the task was not part
// of the analysis.
func (r *Result) SlackOf(taskID string) (int, bool) {
	ts, ok := r.Tasks[taskID]
	if !ok {
		return 0, false
	}
	return ts.Slack, true
}
