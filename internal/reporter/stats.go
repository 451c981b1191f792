package reporter

import (
	"fmt"
	"io"

	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/task"
	"github.com/joshharrison/taskweave/internal/ui"
)

// PrintStats writes a project summary.
func PrintStats(w io.Writer, st service.Stats) {
	fmt.Fprintf(w, "📊 %s %s\n", ui.BoldCyan("Project"), ui.Bold(st.ProjectID))
	fmt.Fprintln(w, ui.Cyan("══════════════════════════"))
	fmt.Fprintf(w, "Tasks:     %d total\n", st.Total)
	for _, s := range task.Statuses {
		fmt.Fprintf(w, "  %s %-12s %d\n", ui.StatusIcon(s), s, st.ByStatus[s])
	}
	if st.Overdue > 0 {
		fmt.Fprintf(w, "Overdue:   %s\n", ui.Red(st.Overdue))
	}
	fmt.Fprintf(w, "Progress:  %s\n", ui.Bold(fmt.Sprintf("%d%%", st.OverallProgress)))
	if st.Start != nil {
		fmt.Fprintf(w, "Starts:    %s\n", st.Start.Format("2006-01-02"))
	}
	if st.End != nil {
		fmt.Fprintf(w, "Due:       %s\n", st.End.Format("2006-01-02"))
	}
}
