package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/dashboard"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

// AgileHandler serves the sprint and story pages.
type AgileHandler struct {
	db *database.Database
}

func NewAgileHandler(db *database.Database) *AgileHandler {
	return &AgileHandler{db: db}
}

// Sprints

func (h *AgileHandler) CreateSprint(c *gin.Context) {
	var sprint models.Sprint
	if err := c.ShouldBindJSON(&sprint); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if sprint.EndDate.Before(sprint.StartDate) {
		respondError(c, http.StatusBadRequest, "Sprint end date must not precede start date")
		return
	}

	if err := h.db.CreateSprint(&sprint); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create sprint")
		return
	}

	respondOK(c, http.StatusCreated, sprint)
}

func (h *AgileHandler) GetSprint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sprint ID")
		return
	}

	sprint, err := h.db.GetSprint(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Sprint not found")
		return
	}

	respondOK(c, http.StatusOK, sprint)
}

func (h *AgileHandler) ListSprints(c *gin.Context) {
	var status *models.SprintStatus
	if s := c.Query("sprint_status"); s != "" {
		parsed := models.ParseSprintStatus(s)
		status = &parsed
	}

	sprints, err := h.db.ListSprints(queryUint(c, "project_id"), status)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sprints")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(sprints, filters, search))
}

func (h *AgileHandler) UpdateSprint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sprint ID")
		return
	}

	var sprint models.Sprint
	if err := c.ShouldBindJSON(&sprint); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	sprint.ID = uint(id)
	if err := h.db.UpdateSprint(&sprint); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update sprint")
		return
	}

	respondOK(c, http.StatusOK, sprint)
}

func (h *AgileHandler) DeleteSprint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sprint ID")
		return
	}

	if err := h.db.DeleteSprint(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete sprint")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// GetBurndown charts remaining story points per day across the sprint
// window against the ideal straight line.
func (h *AgileHandler) GetBurndown(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid sprint ID")
		return
	}

	sprint, err := h.db.GetSprint(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Sprint not found")
		return
	}

	days := int(sprint.EndDate.Sub(sprint.StartDate).Hours() / 24)
	if days < 1 {
		days = 1
	}

	var totalPoints int
	h.db.Model(&models.Task{}).
		Where("sprint_id = ?", sprint.ID).
		Select("COALESCE(SUM(story_points), 0)").
		Scan(&totalPoints)

	data := make([]gin.H, days+1)
	for i := 0; i <= days; i++ {
		date := sprint.StartDate.AddDate(0, 0, i)

		var completedPoints int
		h.db.Model(&models.Task{}).
			Where("sprint_id = ? AND status = ? AND completed_at <= ?",
				sprint.ID, models.TaskStatusCompleted, date).
			Select("COALESCE(SUM(story_points), 0)").
			Scan(&completedPoints)

		data[i] = gin.H{
			"date":      date.Format("2006-01-02"),
			"remaining": totalPoints - completedPoints,
			"ideal":     float64(totalPoints) * (1 - float64(i)/float64(days)),
			"completed": completedPoints,
		}
	}

	respondOK(c, http.StatusOK, gin.H{
		"sprint":       sprint,
		"total_points": totalPoints,
		"data":         data,
	})
}

// GetVelocity reports planned vs completed story points for the most
// recently finished sprints.
func (h *AgileHandler) GetVelocity(c *gin.Context) {
	limit := c.DefaultQuery("limit", "6")
	limitInt, _ := strconv.Atoi(limit)
	if limitInt <= 0 {
		limitInt = 6
	}

	var sprints []models.Sprint
	query := h.db.Where("status = ?", models.SprintStatusCompleted)
	if pid := queryUint(c, "project_id"); pid != nil {
		query = query.Where("project_id = ?", *pid)
	}
	query.Order("end_date DESC").Limit(limitInt).Find(&sprints)

	velocityData := make([]gin.H, len(sprints))
	totalCompleted := 0
	for i, sprint := range sprints {
		var plannedPoints, completedPoints int

		h.db.Model(&models.Story{}).
			Where("sprint_id = ?", sprint.ID).
			Select("COALESCE(SUM(story_points), 0)").
			Scan(&plannedPoints)

		h.db.Model(&models.Story{}).
			Where("sprint_id = ? AND status = ?", sprint.ID, models.StoryStatusDone).
			Select("COALESCE(SUM(story_points), 0)").
			Scan(&completedPoints)

		totalCompleted += completedPoints
		velocityData[i] = gin.H{
			"sprint_name":      sprint.Name,
			"planned_points":   plannedPoints,
			"completed_points": completedPoints,
			"end_date":         sprint.EndDate.Format(time.RFC3339),
		}
	}

	var avgVelocity float64
	if len(velocityData) > 0 {
		avgVelocity = float64(totalCompleted) / float64(len(velocityData))
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":             velocityData,
		"average_velocity": avgVelocity,
	})
}

// Stories

func (h *AgileHandler) CreateStory(c *gin.Context) {
	var story models.Story
	if err := c.ShouldBindJSON(&story); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.CreateStory(&story); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create story")
		return
	}

	respondOK(c, http.StatusCreated, story)
}

func (h *AgileHandler) GetStory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid story ID")
		return
	}

	story, err := h.db.GetStory(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Story not found")
		return
	}

	respondOK(c, http.StatusOK, story)
}

func (h *AgileHandler) ListStories(c *gin.Context) {
	stories, err := h.db.ListStories(queryUint(c, "project_id"), queryUint(c, "sprint_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list stories")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(stories, filters, search))
}

func (h *AgileHandler) UpdateStory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid story ID")
		return
	}

	var story models.Story
	if err := c.ShouldBindJSON(&story); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	story.ID = uint(id)
	if err := h.db.UpdateStory(&story); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update story")
		return
	}

	respondOK(c, http.StatusOK, story)
}

func (h *AgileHandler) DeleteStory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid story ID")
		return
	}

	if err := h.db.DeleteStory(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete story")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
