package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

type SearchHandler struct {
	db *database.Database
}

func NewSearchHandler(db *database.Database) *SearchHandler {
	return &SearchHandler{db: db}
}

// GlobalSearch is a case-insensitive substring search across the main
// entity collections.
func (h *SearchHandler) GlobalSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "Search query required")
		return
	}

	limit := c.DefaultQuery("limit", "20")
	limitInt, _ := strconv.Atoi(limit)
	if limitInt <= 0 {
		limitInt = 20
	}

	projects := h.searchProjects(query, limitInt)
	tasks := h.searchTasks(query, limitInt)
	stories := h.searchStories(query, limitInt)
	companies := h.searchCompanies(query, limitInt)

	respondOK(c, http.StatusOK, gin.H{
		"query":       query,
		"projects":    projects,
		"tasks":       tasks,
		"stories":     stories,
		"companies":   companies,
		"total_count": len(projects) + len(tasks) + len(stories) + len(companies),
	})
}

func (h *SearchHandler) searchProjects(query string, limit int) []models.Project {
	var projects []models.Project
	h.db.Where("name LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%").
		Limit(limit).
		Find(&projects)
	return projects
}

func (h *SearchHandler) searchTasks(query string, limit int) []models.Task {
	var tasks []models.Task
	h.db.Where("title LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%").
		Preload("Project").
		Limit(limit).
		Find(&tasks)
	return tasks
}

func (h *SearchHandler) searchStories(query string, limit int) []models.Story {
	var stories []models.Story
	h.db.Where("title LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%").
		Limit(limit).
		Find(&stories)
	return stories
}

func (h *SearchHandler) searchCompanies(query string, limit int) []models.Company {
	var companies []models.Company
	h.db.Where("name LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%").
		Limit(limit).
		Find(&companies)
	return companies
}
