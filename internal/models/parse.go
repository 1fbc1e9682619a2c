package models

import (
	"strings"
	"time"
)

// Source data uses mixed vocabularies for the same status depending on the
// page that produced it ("To Do" vs "todo" vs "backlog", "Completed" vs
// "done"). Everything is normalized to the canonical enums here, once, at the
// boundary; the rest of the code compares canonical values only.

// ParseTaskStatus maps any known external status spelling to its canonical
// form. Unknown strings are passed through lowercased with spaces collapsed
// to underscores so grouping stays total.
func ParseTaskStatus(s string) TaskStatus {
	switch normalizeToken(s) {
	case "todo", "to_do", "backlog", "pending":
		return TaskStatusTodo
	case "in_progress":
		return TaskStatusInProgress
	case "review", "in_review":
		return TaskStatusReview
	case "completed", "done":
		return TaskStatusCompleted
	case "overdue":
		return TaskStatusOverdue
	case "on_hold", "blocked":
		return TaskStatusOnHold
	}
	return TaskStatus(normalizeToken(s))
}

func ParseStoryStatus(s string) StoryStatus {
	switch normalizeToken(s) {
	case "backlog", "todo", "to_do":
		return StoryStatusBacklog
	case "in_progress":
		return StoryStatusInProgress
	case "review", "in_review":
		return StoryStatusReview
	case "done", "completed":
		return StoryStatusDone
	}
	return StoryStatus(normalizeToken(s))
}

// ParsePriority compares case-normalized; source data stores "High" while
// some query contexts send "high".
func ParsePriority(s string) TaskPriority {
	switch normalizeToken(s) {
	case "low":
		return TaskPriorityLow
	case "medium", "normal":
		return TaskPriorityMedium
	case "high", "urgent", "critical":
		return TaskPriorityHigh
	}
	return TaskPriority(normalizeToken(s))
}

func ParseSprintStatus(s string) SprintStatus {
	switch normalizeToken(s) {
	case "planned", "planning":
		return SprintStatusPlanned
	case "active", "in_progress":
		return SprintStatusActive
	case "completed", "done":
		return SprintStatusCompleted
	}
	return SprintStatus(normalizeToken(s))
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// DisplayName renders a canonical task status the way the dashboard labels
// it ("in_progress" -> "In Progress").
func (s TaskStatus) DisplayName() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusReview:
		return "Review"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusOverdue:
		return "Overdue"
	case TaskStatusOnHold:
		return "On Hold"
	}
	return titleWords(string(s))
}

func titleWords(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseTime parses an ISO-ish date string, returning nil when the value is
// missing or unparseable. Callers treat a nil date as "matches no date
// filter" rather than an error.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
