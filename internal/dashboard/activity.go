package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/trackboard/trackboard/internal/models"
)

// ActivityEntry is one row of the "recent activity" feed.
type ActivityEntry struct {
	Type   string `json:"type"` // "task" or "project"
	User   string `json:"user"`
	Action string `json:"action"`
	Target string `json:"target"`
	Time   string `json:"time"`
}

const (
	recentCompletedTasks = 3
	recentProjects       = 2
)

// BuildRecentActivity concatenates the most recently updated completed
// tasks with the first projects in input order, newest tasks first. Task
// entries always precede project entries regardless of actual recency; the
// feed is a concatenation, not a chronological merge.
func BuildRecentActivity(tasks []models.Task, projects []models.Project, limit int) []ActivityEntry {
	return RecentActivityAt(tasks, projects, limit, time.Now())
}

func RecentActivityAt(tasks []models.Task, projects []models.Project, limit int, now time.Time) []ActivityEntry {
	completed := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if models.ParseTaskStatus(string(t.Status)) == models.TaskStatusCompleted {
			completed = append(completed, t)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].UpdatedAt.After(completed[j].UpdatedAt)
	})
	if len(completed) > recentCompletedTasks {
		completed = completed[:recentCompletedTasks]
	}

	entries := make([]ActivityEntry, 0, recentCompletedTasks+recentProjects)
	for _, t := range completed {
		user := t.Assignee
		if user == "" {
			user = "Someone"
		}
		entries = append(entries, ActivityEntry{
			Type:   "task",
			User:   user,
			Action: "completed task",
			Target: t.Title,
			Time:   RelativeTime(t.UpdatedAt, now),
		})
	}

	for i, p := range projects {
		if i >= recentProjects {
			break
		}
		user := p.Assignee
		if user == "" {
			user = "Someone"
		}
		entries = append(entries, ActivityEntry{
			Type:   "project",
			User:   user,
			Action: "created project",
			Target: p.Name,
			Time:   RelativeTime(p.CreatedAt, now),
		})
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// RelativeTime renders a "time ago" label in minute, hour, or day buckets.
func RelativeTime(t time.Time, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%d hours ago", minutes/60)
	default:
		return fmt.Sprintf("%d days ago", minutes/(24*60))
	}
}
