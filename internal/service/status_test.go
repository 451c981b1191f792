package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/taskweave/internal/task"
)

func TestTransitionStatus(t *testing.T) {
	f := newFixture(t, tk("a", "p1"))
	ctx := context.Background()

	done, err := f.svc.TransitionStatus(ctx, "a", task.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, done.Status)
	assert.Equal(t, 100, done.Progress)
	require.NotNil(t, done.CompletedDate)

	reopened, err := f.svc.TransitionStatus(ctx, "a", task.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedDate)

	_, err = f.svc.TransitionStatus(ctx, "a", task.Status("paused"))
	assert.ErrorIs(t, err, task.ErrInvalidStatus)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StatusTransitions.WithLabelValues("done")))
}

func TestSetProgress_FullMarksDone(t *testing.T) {
	f := newFixture(t, tk("a", "p1"))
	ctx := context.Background()

	got, err := f.svc.SetProgress(ctx, "a", 100)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, got.Status)
	require.NotNil(t, got.CompletedDate)

	stored, err := f.store.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, stored.Status)

	_, err = f.svc.SetProgress(ctx, "a", 101)
	assert.ErrorIs(t, err, task.ErrInvalidProgress)
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newFixture(t, tk("a", "p1"), tk("b", "p1"))

	results := f.svc.BulkUpdateStatus(context.Background(), []string{"a", "ghost", "b"}, task.StatusBlocked)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success())
	assert.Equal(t, task.StatusBlocked, results[0].Task.Status)
	assert.False(t, results[1].Success())
	assert.ErrorIs(t, results[1].Err, task.ErrNotFound)
	assert.True(t, results[2].Success())
}

func TestListTasksFilters(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	late := tk("late", "p1")
	late.DueDate = &past
	late.AssignedTo = "sam"
	lateDone := tk("late-done", "p1")
	lateDone.DueDate = &past
	lateDone.Status = task.StatusDone
	onTime := tk("on-time", "p1")
	onTime.DueDate = &future
	onTime.AssignedTo = "sam"
	stuck := tk("stuck", "p1")
	stuck.Status = task.StatusBlocked

	f := newFixture(t, late, lateDone, onTime, stuck)
	ctx := context.Background()

	overdue, err := f.svc.ListTasks(ctx, "p1", Filter{Overdue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, ids(overdue))

	sams, err := f.svc.ListTasks(ctx, "p1", Filter{Assignee: "sam"})
	require.NoError(t, err)
	assert.Equal(t, []string{"late", "on-time"}, ids(sams))

	blocked, err := f.svc.ListTasks(ctx, "p1", Filter{Status: task.StatusBlocked})
	require.NoError(t, err)
	assert.Equal(t, []string{"stuck"}, ids(blocked))

	all, err := f.svc.ListTasks(ctx, "p1", Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestStats(t *testing.T) {
	start := now.Add(-72 * time.Hour)
	due := now.Add(240 * time.Hour)

	a := tk("a", "p1")
	a.Status = task.StatusDone
	a.StartDate = &start
	b := tk("b", "p1")
	b.Status = task.StatusDone
	c := tk("c", "p1")
	c.Status = task.StatusInProgress
	c.DueDate = &due

	f := newFixture(t, a, b, c)

	st, err := f.svc.Stats(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.ByStatus[task.StatusDone])
	assert.Equal(t, 0, st.ByStatus[task.StatusBlocked])
	assert.Equal(t, 67, st.OverallProgress)
	require.NotNil(t, st.Start)
	assert.True(t, st.Start.Equal(start))
	require.NotNil(t, st.End)
	assert.True(t, st.End.Equal(due))

	empty, err := f.svc.Stats(context.Background(), "none")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.OverallProgress)
}
