package dashboard

import (
	"sort"
	"time"

	"github.com/trackboard/trackboard/internal/models"
)

// UpcomingMode selects which date dimension the upcoming-task window reads.
type UpcomingMode string

const (
	ModeDue      UpcomingMode = "due"
	ModeStarting UpcomingMode = "starting"
)

const upcomingWindowDays = 7

// UpcomingTask is one row of the "upcoming deadlines" / "starting soon"
// lists, with the display date pre-formatted.
type UpcomingTask struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Project    string `json:"project"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Date       string `json:"date"`
	IsStarting bool   `json:"isStarting"`
}

// BuildUpcomingTasks lists non-completed tasks whose due (or start) date
// falls within the next seven days, soonest first. Tasks without a usable
// date are silently excluded.
func BuildUpcomingTasks(tasks []models.Task, mode UpcomingMode, limit int) []UpcomingTask {
	return UpcomingTasksAt(tasks, mode, limit, time.Now())
}

func UpcomingTasksAt(tasks []models.Task, mode UpcomingMode, limit int, now time.Time) []UpcomingTask {
	windowEnd := now.AddDate(0, 0, upcomingWindowDays)

	type dated struct {
		task models.Task
		at   time.Time
	}
	matched := make([]dated, 0, len(tasks))
	for _, t := range tasks {
		if models.ParseTaskStatus(string(t.Status)) == models.TaskStatusCompleted {
			continue
		}
		at := t.DueDate
		if mode == ModeStarting {
			at = t.StartDate
		}
		if at == nil {
			continue
		}
		if at.Before(now) || at.After(windowEnd) {
			continue
		}
		matched = append(matched, dated{task: t, at: *at})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].at.Before(matched[j].at)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]UpcomingTask, len(matched))
	for i, m := range matched {
		project := ""
		if m.task.Project != nil {
			project = m.task.Project.Name
		}
		out[i] = UpcomingTask{
			ID:         m.task.ID,
			Title:      m.task.Title,
			Project:    project,
			Status:     models.ParseTaskStatus(string(m.task.Status)).DisplayName(),
			Priority:   string(models.ParsePriority(string(m.task.Priority))),
			Date:       m.at.Format("Jan 2, 2006"),
			IsStarting: mode == ModeStarting,
		}
	}
	return out
}
