package api

import (
	"github.com/joshharrison/taskweave/internal/cpm"
	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
)

type GraphNode struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Status     task.Status `json:"status"`
	IsCritical bool        `json:"is_critical"`
	WaveIndex  int         `json:"wave_index"`
	Slack      int         `json:"slack"`
}

// GraphEdge points from a dependency to the task that waits on it.
type GraphEdge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	IsCritical bool   `json:"is_critical"`
}

type GraphMetadata struct {
	ProjectID       string `json:"project_id"`
	TotalTasks      int    `json:"total_tasks"`
	TotalWaves      int    `json:"total_waves"`
	ProjectDuration int    `json:"project_duration"`
}

type Graph struct {
	Nodes        []GraphNode   `json:"nodes"`
	Edges        []GraphEdge   `json:"edges"`
	CriticalPath []string      `json:"critical_path"`
	Metadata     GraphMetadata `json:"metadata"`
}

// toGraph flattens a project graph and its schedule into the node/edge form
// a visualiser renders. Dangling dependencies are left out.
func toGraph(projectID string, g *graph.Graph, res *cpm.Result) *Graph {
	onPath := make(map[string]int, len(res.OrderedPath))
	for i, id := range res.OrderedPath {
		onPath[id] = i
	}

	nodes := make([]GraphNode, 0, len(g.IDs))
	edges := []GraphEdge{}
	for _, id := range g.IDs {
		t := g.Tasks[id]
		n := GraphNode{ID: id, Title: t.Title, Status: t.Status}
		if s, ok := res.Tasks[id]; ok {
			n.IsCritical = s.IsCritical
			n.WaveIndex = s.Wave
			n.Slack = s.Slack
		}
		nodes = append(nodes, n)

		for _, dep := range g.InSetDeps(id) {
			i, depOn := onPath[dep]
			j, taskOn := onPath[id]
			edges = append(edges, GraphEdge{
				From:       dep,
				To:         id,
				IsCritical: depOn && taskOn && j == i+1,
			})
		}
	}

	path := res.OrderedPath
	if path == nil {
		path = []string{}
	}
	return &Graph{
		Nodes:        nodes,
		Edges:        edges,
		CriticalPath: path,
		Metadata: GraphMetadata{
			ProjectID:       projectID,
			TotalTasks:      len(nodes),
			TotalWaves:      len(res.Waves),
			ProjectDuration: res.ProjectDuration,
		},
	}
}
