package cpm

import "github.com/joshharrison/taskweave/internal/task"

// Result holds the complete critical path analysis of a task set.
type Result struct {
	// OrderedPath lists every critical task: the reconstructed chain first,
	// then any critical tasks the chain walk did not reach.
	OrderedPath     []string                 `json:"ordered_path"`
	ProjectDuration int                      `json:"project_duration"` // days
	CriticalTasks   []task.Task              `json:"critical_tasks"`   // same order as OrderedPath
	Tasks           map[string]*TaskSchedule `json:"tasks"`
	TopoOrder       []string                 `json:"topo_order"`
	Waves           []Wave                   `json:"waves"` // parallelizable groups
}

// TaskSchedule holds the scheduling info for a single task. All values are days.
type TaskSchedule struct {
	TaskID     string `json:"task_id"`
	Duration   int    `json:"duration"`
	ES         int    `json:"earliest_start"`
	EF         int    `json:"earliest_finish"`
	LS         int    `json:"latest_start"`
	LF         int    `json:"latest_finish"`
	Slack      int    `json:"slack"`
	IsCritical bool   `json:"is_critical"`
	Wave       int    `json:"wave"` // which parallel wave this belongs to
}

// Wave represents a group of tasks sharing the same earliest start.
type Wave struct {
	Index      int      `json:"index"`
	Start      int      `json:"start"`
	TaskIDs    []string `json:"task_ids"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical path tasks
}
