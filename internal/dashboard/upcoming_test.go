package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/models"
)

func TestUpcomingTasksDueWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tasks := []models.Task{
		{ID: 1, Title: "in window", Status: "To Do", DueDate: tp(now.AddDate(0, 0, 2))},
		{ID: 2, Title: "sooner", Status: "in_progress", DueDate: tp(now.AddDate(0, 0, 1))},
		{ID: 3, Title: "too far", Status: "To Do", DueDate: tp(now.AddDate(0, 0, 9))},
		{ID: 4, Title: "already past", Status: "To Do", DueDate: tp(now.AddDate(0, 0, -1))},
		{ID: 5, Title: "done", Status: "Completed", DueDate: tp(now.AddDate(0, 0, 2))},
		{ID: 6, Title: "no date", Status: "To Do"},
	}

	got := UpcomingTasksAt(tasks, ModeDue, 5, now)
	require.Len(t, got, 2)
	// Sorted ascending by due date.
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, uint(1), got[1].ID)
	assert.False(t, got[0].IsStarting)
}

func TestUpcomingTasksExcludeUnparseableDates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	// "not-a-date" never survives boundary parsing, so the engine sees a
	// nil due date and silently drops the task.
	tasks := []models.Task{
		{Title: "bad date", Status: "To Do", DueDate: models.ParseTime("not-a-date")},
		{Title: "good date", Status: "To Do", DueDate: tp(now.AddDate(0, 0, 2))},
	}

	got := UpcomingTasksAt(tasks, ModeDue, 5, now)
	require.Len(t, got, 1)
	assert.Equal(t, "good date", got[0].Title)
}

func TestUpcomingTasksStartingMode(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tasks := []models.Task{
		{ID: 1, Title: "kickoff", Status: "To Do", StartDate: tp(now.AddDate(0, 0, 3)),
			DueDate: tp(now.AddDate(0, 0, 30))},
		{ID: 2, Title: "due only", Status: "To Do", DueDate: tp(now.AddDate(0, 0, 3))},
	}

	got := UpcomingTasksAt(tasks, ModeStarting, 5, now)
	require.Len(t, got, 1)
	assert.Equal(t, "kickoff", got[0].Title)
	assert.True(t, got[0].IsStarting)
}

func TestUpcomingTasksDateFormat(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)
	tasks := []models.Task{
		{Title: "t", Status: "To Do", DueDate: tp(time.Date(2025, 1, 15, 17, 0, 0, 0, time.Local))},
	}

	got := UpcomingTasksAt(tasks, ModeDue, 5, now)
	require.Len(t, got, 1)
	assert.Equal(t, "Jan 15, 2025", got[0].Date)
}

func TestUpcomingTasksLimit(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	tasks := make([]models.Task, 8)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:      uint(i + 1),
			Title:   "t",
			Status:  "To Do",
			DueDate: tp(now.Add(time.Duration(i+1) * time.Hour)),
		}
	}

	got := UpcomingTasksAt(tasks, ModeDue, 5, now)
	assert.Len(t, got, 5)
}

func TestUpcomingTasksProjectAndStatusLabels(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	tasks := []models.Task{
		{
			Title:    "t",
			Status:   "in_progress",
			Priority: "High",
			DueDate:  tp(now.AddDate(0, 0, 1)),
			Project:  &models.Project{Name: "Platform"},
		},
	}

	got := UpcomingTasksAt(tasks, ModeDue, 5, now)
	require.Len(t, got, 1)
	assert.Equal(t, "Platform", got[0].Project)
	assert.Equal(t, "In Progress", got[0].Status)
	assert.Equal(t, "high", got[0].Priority)
}
