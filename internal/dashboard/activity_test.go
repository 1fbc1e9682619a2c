package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/models"
)

func TestRecentActivityTasksBeforeProjects(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tasks := make([]models.Task, 5)
	for i := range tasks {
		tasks[i] = models.Task{
			Title:     fmt.Sprintf("task-%d", i),
			Status:    "completed",
			Assignee:  "alice",
			UpdatedAt: now.Add(-time.Duration(i+1) * time.Hour),
		}
	}
	projects := []models.Project{
		// Created after every task update; still listed last.
		{Name: "proj-a", Assignee: "bob", CreatedAt: now.Add(-time.Minute)},
		{Name: "proj-b", CreatedAt: now.Add(-48 * time.Hour)},
		{Name: "proj-c", CreatedAt: now.Add(-time.Minute)},
	}

	entries := RecentActivityAt(tasks, projects, 5, now)
	require.Len(t, entries, 5)

	// Three task entries first, newest first, then two projects in input
	// order — a concatenation, not a chronological merge.
	assert.Equal(t, "task", entries[0].Type)
	assert.Equal(t, "task-0", entries[0].Target)
	assert.Equal(t, "task-1", entries[1].Target)
	assert.Equal(t, "task-2", entries[2].Target)
	assert.Equal(t, "project", entries[3].Type)
	assert.Equal(t, "proj-a", entries[3].Target)
	assert.Equal(t, "proj-b", entries[4].Target)
}

func TestRecentActivityOnlyCompletedTasks(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{Title: "open", Status: "in_progress", UpdatedAt: now},
		{Title: "shipped", Status: "Completed", Assignee: "carol", UpdatedAt: now.Add(-2 * time.Hour)},
	}

	entries := RecentActivityAt(tasks, nil, 5, now)
	require.Len(t, entries, 1)
	assert.Equal(t, "shipped", entries[0].Target)
	assert.Equal(t, "carol", entries[0].User)
	assert.Equal(t, "completed task", entries[0].Action)
}

func TestRecentActivityRespectsLimit(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{Title: "a", Status: "completed", UpdatedAt: now},
		{Title: "b", Status: "completed", UpdatedAt: now},
	}
	projects := []models.Project{{Name: "p1", CreatedAt: now}, {Name: "p2", CreatedAt: now}}

	entries := RecentActivityAt(tasks, projects, 3, now)
	assert.Len(t, entries, 3)
}

func TestRecentActivityEmptyInput(t *testing.T) {
	assert.Empty(t, RecentActivityAt(nil, nil, 5, time.Now()))
}

func TestRelativeTimeBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Minute, "5 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{61 * time.Minute, "1 hours ago"},
		{5 * time.Hour, "5 hours ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{25 * time.Hour, "1 days ago"},
		{10 * 24 * time.Hour, "10 days ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
	}
}
