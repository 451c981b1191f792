package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/joshharrison/taskweave/internal/task"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintBanner renders the taskweave banner to w.
func PrintBanner(w io.Writer, tagline string) {
	frame := color.New(color.FgCyan)
	warp := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +-----------------------------+")
	warp.Fprintln(w, "   |  |  |  |  |  |  |  |  |  |  |")
	brand.Fprintln(w, "   |  T  A  S  K  W  E  A  V  E  |")
	warp.Fprintln(w, "   |  |  |  |  |  |  |  |  |  |  |")
	frame.Fprintln(w, "   +-----------------------------+")
	if tagline != "" {
		fmt.Fprintf(w, "   %s\n", Dim(tagline))
	}
	fmt.Fprintln(w)
}

// StatusIcon returns a colored status icon for compact table display.
func StatusIcon(s task.Status) string {
	switch s {
	case task.StatusDone:
		return Green("✓")
	case task.StatusInProgress:
		return Cyan("●")
	case task.StatusBlocked:
		return Red("✗")
	default:
		return Dim("◌")
	}
}

// StatusLabel returns the status name colored like its icon.
func StatusLabel(s task.Status) string {
	switch s {
	case task.StatusDone:
		return Green(string(s))
	case task.StatusInProgress:
		return BoldCyan(string(s))
	case task.StatusBlocked:
		return BoldRed(string(s))
	default:
		return Dim(string(s))
	}
}

// PriorityLabel colors a priority by urgency.
func PriorityLabel(p task.Priority) string {
	switch p {
	case task.PriorityUrgent:
		return BoldRed(string(p))
	case task.PriorityHigh:
		return Yellow(string(p))
	case task.PriorityLow:
		return Dim(string(p))
	default:
		return string(p)
	}
}

// Critical marks critical-path rows.
func Critical(isCritical bool) string {
	if isCritical {
		return BoldYellow("⚡")
	}
	return " "
}
