package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/taskweave/internal/cpm"
	"github.com/joshharrison/taskweave/internal/graph"
	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

// Reporter renders a project's schedule.
type Reporter struct {
	Graph  *graph.Graph
	Result *cpm.Result
}

// New creates a Reporter over an analyzed project.
func New(g *graph.Graph, result *cpm.Result) *Reporter {
	return &Reporter{Graph: g, Result: result}
}

func (r *Reporter) title(id string) string {
	if t, ok := r.Graph.Tasks[id]; ok {
		return t.Title
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// PrintCriticalPath writes the project duration, the critical sequence, and
// the per-wave schedule.
func (r *Reporter) PrintCriticalPath(w io.Writer) {
	res := r.Result

	maxWaveWidth := 0
	for _, wave := range res.Waves {
		if len(wave.TaskIDs) > maxWaveWidth {
			maxWaveWidth = len(wave.TaskIDs)
		}
	}

	fmt.Fprintf(w, "🎯 %s\n", ui.BoldCyan("Critical Path"))
	fmt.Fprintln(w, ui.Cyan("═════════════"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Tasks:     %s\n", ui.Bold(r.Graph.TaskCount()))
	fmt.Fprintf(w, "Duration:  %s days\n", ui.Bold(res.ProjectDuration))
	if len(res.OrderedPath) > 0 {
		fmt.Fprintf(w, "⚡ Path:    %s (%d tasks)\n",
			ui.BoldYellow(strings.Join(res.OrderedPath, " → ")), len(res.OrderedPath))
	} else {
		fmt.Fprintf(w, "⚡ Path:    %s\n", ui.Dim("none"))
	}
	fmt.Fprintf(w, "Parallel:  %d tasks in widest wave\n", maxWaveWidth)
	fmt.Fprintln(w)

	for _, wave := range res.Waves {
		fmt.Fprintf(w, "🌊 %s %d (day %d, %d tasks):\n", ui.BoldWhite("Wave"), wave.Index+1, wave.Start, len(wave.TaskIDs))
		for _, id := range wave.TaskIDs {
			ts := res.Tasks[id]
			slack := ui.Dim(fmt.Sprintf("slack %d", ts.Slack))
			if ts.IsCritical {
				slack = ui.BoldYellow("⚡ critical")
			}
			fmt.Fprintf(w, "  %s  %-40s %s  %s\n",
				ui.BoldMagenta(id), truncate(r.title(id), 40),
				ui.Dim(fmt.Sprintf("[%d-%d]", ts.ES, ts.EF)), slack)
		}
		fmt.Fprintln(w)
	}
}

// PrintASCII draws each task with an arrow to every task waiting on it,
// grouped by wave.
func (r *Reporter) PrintASCII(w io.Writer) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Task Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range r.Result.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d %s\n", ui.Cyan("──"), wave.Index+1, ui.Cyan("──────────────────────────────"))
		for _, id := range wave.TaskIDs {
			t := r.Graph.Tasks[id]
			fmt.Fprintf(w, "  %s %s [%s] %s\n",
				ui.Critical(r.Result.Tasks[id].IsCritical), ui.StatusIcon(t.Status), ui.BoldMagenta(id), t.Title)
			for _, dependent := range r.Graph.Dependents[id] {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(dependent))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintDOT writes a Graphviz digraph with edges pointing from a dependency
// to its dependent. Critical tasks and edges between them are red.
func (r *Reporter) PrintDOT(w io.Writer) {
	critical := func(id string) bool {
		ts, ok := r.Result.Tasks[id]
		return ok && ts.IsCritical
	}

	fmt.Fprintln(w, "digraph taskweave {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, id := range r.Graph.IDs {
		label := fmt.Sprintf("%s\\n%s", id, escapeDOT(r.title(id)))
		attrs := fmt.Sprintf(`label="%s"`, label)
		if critical(id) {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	for _, from := range r.Graph.IDs {
		for _, to := range r.Graph.Dependents[from] {
			style := ""
			if critical(from) && critical(to) {
				style = ` [color=red, penwidth=2]`
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", from, to, style)
		}
	}

	fmt.Fprintln(w, "}")
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// JSON returns the machine-readable critical path result.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Result, "", "  ")
}

// PrintOrder lists tasks in dependency order.
func PrintOrder(w io.Writer, tasks []task.Task) {
	fmt.Fprintf(w, "📋 %s\n", ui.BoldCyan("Execution Order"))
	fmt.Fprintln(w, ui.Cyan("═══════════════"))
	for i, t := range tasks {
		deps := ""
		if len(t.Dependencies) > 0 {
			deps = ui.Dim("after " + strings.Join(t.Dependencies, ", "))
		}
		fmt.Fprintf(w, "%3d. %s %s  %-40s %s\n", i+1, ui.StatusIcon(t.Status), ui.BoldMagenta(t.ID), truncate(t.Title, 40), deps)
	}
}

// PrintTasks writes a compact task table.
func PrintTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, ui.Dim("no tasks"))
		return
	}
	for _, t := range tasks {
		assignee := ""
		if t.AssignedTo != "" {
			assignee = ui.Dim("@" + t.AssignedTo)
		}
		fmt.Fprintf(w, "  %s %s  %-40s %-12s %-8s %3d%%  %s\n",
			ui.StatusIcon(t.Status), ui.BoldMagenta(t.ID), truncate(t.Title, 40),
			ui.StatusLabel(t.Status), ui.PriorityLabel(t.Priority), t.Progress, assignee)
	}
}
