package dashboard

import (
	"math"

	"github.com/trackboard/trackboard/internal/models"
)

// Stats is the scalar summary strip at the top of the dashboard.
type Stats struct {
	TotalProjects  int `json:"totalProjects"`
	ActiveTasks    int `json:"activeTasks"`
	TeamMembers    int `json:"teamMembers"`
	CompletionRate int `json:"completionRate"`
	ProjectGrowth  int `json:"projectGrowth"`
	TaskGrowth     int `json:"taskGrowth"`
	UserGrowth     int `json:"userGrowth"`
}

// Growth numbers are presentation placeholders, not historical deltas:
// bounded multiples of the current count with a fixed fallback when the
// count is zero.
const (
	projectGrowthFactor   = 2
	projectGrowthCap      = 15
	projectGrowthFallback = 5

	taskGrowthFactor   = 3
	taskGrowthCap      = 20
	taskGrowthFallback = 8

	userGrowthFactor   = 1
	userGrowthCap      = 10
	userGrowthFallback = 2
)

// ComputeStats reduces the (already filtered) snapshot to summary numbers.
// The completion rate is a rounded percentage, defined as 0 for an empty
// task list.
func ComputeStats(tasks []models.Task, projects []models.Project, users []models.User) Stats {
	completed := 0
	for _, t := range tasks {
		if models.ParseTaskStatus(string(t.Status)) == models.TaskStatusCompleted {
			completed++
		}
	}

	rate := 0
	if len(tasks) > 0 {
		rate = int(math.Round(100 * float64(completed) / float64(len(tasks))))
	}

	return Stats{
		TotalProjects:  len(projects),
		ActiveTasks:    len(tasks) - completed,
		TeamMembers:    len(users),
		CompletionRate: rate,
		ProjectGrowth:  growth(len(projects), projectGrowthFactor, projectGrowthCap, projectGrowthFallback),
		TaskGrowth:     growth(len(tasks), taskGrowthFactor, taskGrowthCap, taskGrowthFallback),
		UserGrowth:     growth(len(users), userGrowthFactor, userGrowthCap, userGrowthFallback),
	}
}

func growth(count, factor, ceiling, fallback int) int {
	if count == 0 {
		return fallback
	}
	g := count * factor
	if g > ceiling {
		return ceiling
	}
	return g
}
