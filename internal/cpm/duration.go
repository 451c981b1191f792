package cpm

import (
	"math"
	"time"

	"github.com/joshharrison/taskweave/internal/task"
)

// HoursPerDay converts estimated hours into working days.
const HoursPerDay = 8

// MaxDays caps a single task's duration so day arithmetic cannot overflow.
const MaxDays = 36500

const day = 24 * time.Hour

// Duration returns the task's length in whole days, between one and MaxDays.
// Explicit start and due dates win over the hour estimate.
func Duration(t task.Task) int {
	switch {
	case t.StartDate != nil && t.DueDate != nil:
		span := t.DueDate.Sub(*t.StartDate)
		return atLeastOne(math.Ceil(float64(span) / float64(day)))
	case t.EstimatedHours != nil:
		return atLeastOne(math.Ceil(*t.EstimatedHours / HoursPerDay))
	default:
		return 1
	}
}

func atLeastOne(days float64) int {
	switch {
	case math.IsNaN(days) || days < 1:
		return 1
	case days > MaxDays:
		return MaxDays
	}
	return int(days)
}
