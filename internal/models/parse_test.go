package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatusVocabularies(t *testing.T) {
	cases := map[string]TaskStatus{
		"todo":        TaskStatusTodo,
		"To Do":       TaskStatusTodo,
		"TO-DO":       TaskStatusTodo,
		"backlog":     TaskStatusTodo,
		"pending":     TaskStatusTodo,
		"In Progress": TaskStatusInProgress,
		"in_progress": TaskStatusInProgress,
		"Review":      TaskStatusReview,
		"in review":   TaskStatusReview,
		"Completed":   TaskStatusCompleted,
		"done":        TaskStatusCompleted,
		"DONE":        TaskStatusCompleted,
		"On Hold":     TaskStatusOnHold,
		"blocked":     TaskStatusOnHold,
		"overdue":     TaskStatusOverdue,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseTaskStatus(input), "input %q", input)
	}
}

func TestParseTaskStatusUnknownPassesThroughNormalized(t *testing.T) {
	assert.Equal(t, TaskStatus("waiting_on_legal"), ParseTaskStatus("Waiting On Legal"))
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, TaskPriorityHigh, ParsePriority("HIGH"))
	assert.Equal(t, TaskPriorityHigh, ParsePriority("urgent"))
	assert.Equal(t, TaskPriorityMedium, ParsePriority("Normal"))
	assert.Equal(t, TaskPriorityLow, ParsePriority(" low "))
}

func TestParseStoryStatus(t *testing.T) {
	assert.Equal(t, StoryStatusBacklog, ParseStoryStatus("To Do"))
	assert.Equal(t, StoryStatusDone, ParseStoryStatus("Completed"))
	assert.Equal(t, StoryStatusInProgress, ParseStoryStatus("in-progress"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "In Progress", TaskStatusInProgress.DisplayName())
	assert.Equal(t, "To Do", TaskStatusTodo.DisplayName())
	assert.Equal(t, "On Hold", TaskStatusOnHold.DisplayName())
	// unknown statuses still render readably
	assert.Equal(t, "Waiting On Legal", TaskStatus("waiting_on_legal").DisplayName())
}

func TestParseTimeLayouts(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-06-15T10:30:00Z", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-06-15 10:30:00", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"06/15/2025", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ParseTime(tc.input)
		require.NotNil(t, got, "input %q", tc.input)
		assert.True(t, tc.want.Equal(*got), "input %q", tc.input)
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	assert.Nil(t, ParseTime(""))
	assert.Nil(t, ParseTime("  "))
	assert.Nil(t, ParseTime("not-a-date"))
	assert.Nil(t, ParseTime("15/06/2025")) // day-first is not accepted
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"frontend", "urgent"}

	value, err := list.Value()
	require.NoError(t, err)

	var decoded StringList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, list, decoded)

	assert.True(t, list.Contains("urgent"))
	assert.False(t, list.Contains("backend"))
}
