package dashboard

import (
	"time"

	"github.com/trackboard/trackboard/internal/models"
)

// View is the complete dashboard view-model: everything the page renders
// without further logic.
type View struct {
	Stats             Stats           `json:"stats"`
	TaskChart         []MonthBucket   `json:"taskChart"`
	StatusBreakdown   []StatusSlice   `json:"statusBreakdown"`
	RecentActivity    []ActivityEntry `json:"recentActivity"`
	UpcomingDeadlines []UpcomingTask  `json:"upcomingDeadlines"`
	UpcomingStarts    []UpcomingTask  `json:"upcomingStarts"`
}

const defaultListLimit = 5

// BuildView wires filters, aggregation, and the derived list builders into
// one view-model. Filters are applied to the task snapshot first so every
// derived number is consistent with the same filtered collection.
func BuildView(tasks []models.Task, projects []models.Project, users []models.User, filters Filters, search string) View {
	return BuildViewAt(tasks, projects, users, filters, search, time.Now())
}

func BuildViewAt(tasks []models.Task, projects []models.Project, users []models.User, filters Filters, search string, now time.Time) View {
	filtered := ApplyAt(tasks, NormalizeFilters(filters), search, now)

	return View{
		Stats:             ComputeStats(filtered, projects, users),
		TaskChart:         BuildMonthlySeriesAt(filtered, DefaultMonthsBack, now),
		StatusBreakdown:   BuildStatusBreakdown(filtered),
		RecentActivity:    RecentActivityAt(filtered, projects, defaultListLimit, now),
		UpcomingDeadlines: UpcomingTasksAt(filtered, ModeDue, defaultListLimit, now),
		UpcomingStarts:    UpcomingTasksAt(filtered, ModeStarting, defaultListLimit, now),
	}
}
